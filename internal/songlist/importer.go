package songlist

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jaki95/playlist-downloader/internal/domain"
	"github.com/jaki95/playlist-downloader/internal/storage"
)

var (
	ErrOpenInput  = errors.New("input file could not be opened")
	ErrReadInput  = errors.New("input file could not be read")
	ErrOpenOutput = errors.New("output file could not be opened")
)

const maxLineSize = 1024 * 1024

// Importer imports a song list from a given source.
type Importer interface {
	Import(ctx context.Context, source string) (Result, error)
	Name() string
}

// Options are the user facing filter settings. Playlist filter entries are
// names, or header indices when ByIndex is set.
type Options struct {
	Playlists      []string
	ByIndex        bool
	IgnoreUnlisted bool
	SkipDuplicates bool
}

// resolve turns the options into a filter, reading indices against index.
func (o Options) resolve(index PlaylistIndex, logger *slog.Logger) (FilterConfig, error) {
	var allowed *PlaylistSet
	if o.Playlists != nil {
		if o.ByIndex {
			var err error
			allowed, err = ResolvePlaylistIndices(index, o.Playlists)
			if err != nil {
				return FilterConfig{}, err
			}
		} else {
			allowed = PlaylistSetFromNames(o.Playlists)
		}
		logger.Debug("Filtering playlists", "allowed", allowed.Names())
	}
	return o.filterConfig(allowed), nil
}

func (o Options) filterConfig(allowed *PlaylistSet) FilterConfig {
	return FilterConfig{
		AllowedPlaylists: allowed,
		IgnoreUnlisted:   o.IgnoreUnlisted,
		SkipDuplicates:   o.SkipDuplicates,
	}
}

// TxtImporter reads the txt playlist format.
type TxtImporter struct {
	store  storage.Storage
	opts   Options
	logger *slog.Logger
}

func NewTxtImporter(store storage.Storage, opts Options, logger *slog.Logger) *TxtImporter {
	return &TxtImporter{store: store, opts: opts, logger: logger}
}

func (t *TxtImporter) Name() string {
	return "txt"
}

func (t *TxtImporter) Import(ctx context.Context, source string) (Result, error) {
	select {
	case <-ctx.Done():
		return Result{}, ctx.Err()
	default:
	}

	t.logger.Info("Reading from TXT", "path", source)
	lines, err := t.readLines(source)
	if err != nil {
		return Result{}, err
	}

	return Parse(lines, t.opts, t.logger)
}

func (t *TxtImporter) readLines(path string) ([]string, error) {
	r, err := t.store.GetReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrOpenInput, path, err)
	}
	defer r.Close()

	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrReadInput, path, err)
	}
	return lines, nil
}

// CSVImporter reads the tabular format.
type CSVImporter struct {
	store  storage.Storage
	opts   Options
	logger *slog.Logger
}

func NewCSVImporter(store storage.Storage, opts Options, logger *slog.Logger) *CSVImporter {
	return &CSVImporter{store: store, opts: opts, logger: logger}
}

func (c *CSVImporter) Name() string {
	return "csv"
}

func (c *CSVImporter) Import(ctx context.Context, source string) (Result, error) {
	select {
	case <-ctx.Done():
		return Result{}, ctx.Err()
	default:
	}

	c.logger.Info("Reading from CSV", "path", source)
	r, err := c.store.GetReader(source)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %s: %w", ErrOpenInput, source, err)
	}
	defer r.Close()

	var allowed *PlaylistSet
	if c.opts.Playlists != nil {
		if c.opts.ByIndex {
			c.logger.Warn("Playlist indices only apply to txt input, treating filter entries as names")
		}
		allowed = PlaylistSetFromNames(c.opts.Playlists)
	}

	cfg := c.opts.filterConfig(allowed)
	songs, stats, err := ReadCSV(r, cfg, c.logger)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %s: %w", ErrReadInput, source, err)
	}
	return Result{Index: PlaylistIndex{}, Songs: songs, Stats: stats, Filter: cfg}, nil
}

// ExportCSV writes the song list to path through store.
func ExportCSV(store storage.Storage, path string, list *domain.SongList, logger *slog.Logger) error {
	logger.Info("Writing to CSV", "path", path, "songs", list.Len())
	if store.FileExists(path) {
		logger.Debug("Overwriting existing CSV", "path", path)
	}
	w, err := store.GetWriter(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrOpenOutput, path, err)
	}
	if err := WriteCSV(w, list); err != nil {
		w.Close()
		return fmt.Errorf("file %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrOpenOutput, path, err)
	}
	return nil
}
