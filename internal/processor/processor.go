// Package processor downloads the songs of a parsed song list, one at a time.
package processor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"

	"github.com/jaki95/playlist-downloader/internal/domain"
	"github.com/jaki95/playlist-downloader/internal/downloader"
	"github.com/jaki95/playlist-downloader/internal/logging"
	"github.com/jaki95/playlist-downloader/internal/metadata"
	"github.com/jaki95/playlist-downloader/internal/songlist"
)

// fallbackDirPrefix names playlist directories whose name has no usable characters.
const fallbackDirPrefix = "playlist_"

// PlaylistWriter stores the playlist file of one bucket.
type PlaylistWriter interface {
	Write(dir, fileName, title string, paths []string) (string, error)
}

type Options struct {
	OutputDir string
	// Template is the output file name template, see downloader.ExpandTemplate.
	Template      string
	PlaylistFiles bool
	WriteTags     bool
	// Progress receives the progress bar. Nil disables it.
	Progress io.Writer
}

// Summary reports the outcome of a download run.
type Summary struct {
	Attempted     int
	Failed        int
	PlaylistFiles []string
}

func (s Summary) Succeeded() int {
	return s.Attempted - s.Failed
}

func (s Summary) String() string {
	return fmt.Sprintf("%d/%d songs were downloaded correctly.", s.Succeeded(), s.Attempted)
}

type Processor struct {
	downloader downloader.Downloader
	tagger     metadata.Tagger
	playlists  PlaylistWriter
	opts       Options
	logger     *slog.Logger
}

// New creates a processor. tagger and playlists may be nil when the matching
// option is disabled.
func New(dl downloader.Downloader, tagger metadata.Tagger, playlists PlaylistWriter, opts Options, logger *slog.Logger) *Processor {
	return &Processor{
		downloader: dl,
		tagger:     tagger,
		playlists:  playlists,
		opts:       opts,
		logger:     logger,
	}
}

// PlaylistDir returns the directory name of a playlist relative to the output
// directory. Unlisted songs go straight into the output directory.
func PlaylistDir(playlist string) string {
	if playlist == domain.UnlistedPlaylist {
		return ""
	}
	dir := downloader.SanitizeFileName(songlist.UnescapeQuotes(playlist))
	if dir == "" {
		dir = fallbackDirPrefix + uuid.NewString()[:8]
	}
	return dir
}

// Run downloads every song with a link, bucket by bucket. Failed downloads are
// counted and left out of the playlist files. Run stops between songs when ctx
// is cancelled and returns the partial summary with the context error.
func (p *Processor) Run(ctx context.Context, list *domain.SongList) (Summary, error) {
	var summary Summary
	bar := p.newProgressBar(countLinked(list))
	defer bar.Finish()

	p.logger.Info("Starting download", "output", p.opts.OutputDir)
	for _, playlist := range list.Playlists() {
		dirName := PlaylistDir(playlist)
		dir := filepath.Join(p.opts.OutputDir, dirName)

		var paths []string
		for _, song := range list.Songs(playlist) {
			if !song.HasLink() {
				logging.Trace(p.logger, "Skipping song with no download link",
					"title", song.Title, "artists", song.Artists, "album", song.Album)
				continue
			}
			if err := ctx.Err(); err != nil {
				return summary, err
			}

			summary.Attempted++
			path, err := p.downloadSong(ctx, song, dir)
			bar.Add(1)
			if err != nil {
				summary.Failed++
				if ctxErr := ctx.Err(); ctxErr != nil {
					return summary, ctxErr
				}
				p.logger.Error("An error occurred downloading song",
					"title", song.Title, "artists", song.Artists, "album", song.Album, "link", song.Link, "error", err)
				continue
			}
			paths = append(paths, filepath.Base(path))
		}

		if p.opts.PlaylistFiles && p.playlists != nil {
			file, err := p.playlists.Write(dir, dirName, songlist.UnescapeQuotes(playlist), paths)
			if err != nil {
				p.logger.Error("Playlist file could not be written", "playlist", playlist, "error", err)
				continue
			}
			if file != "" {
				summary.PlaylistFiles = append(summary.PlaylistFiles, file)
			}
		}
	}

	return summary, nil
}

func (p *Processor) downloadSong(ctx context.Context, song domain.Song, dir string) (string, error) {
	p.logger.Debug("Downloading song",
		"playlist", song.Playlist, "title", song.Title, "artists", song.Artists, "album", song.Album, "link", song.Link)

	path, err := p.downloader.Download(ctx, downloader.Request{
		Song:     song,
		Dir:      dir,
		FileName: downloader.OutputFileName(p.opts.Template, song),
	})
	if err != nil {
		return "", err
	}
	p.logger.Info("File stored", "path", path)

	if p.opts.WriteTags && p.tagger != nil {
		err := p.tagger.Tag(ctx, path, song)
		switch {
		case errors.Is(err, metadata.ErrUnsupportedFormat):
			p.logger.Debug("Not tagging file", "path", path, "reason", err)
		case err != nil:
			p.logger.Warn("Failed to tag file", "path", path, "error", err)
		}
	}
	return path, nil
}

func (p *Processor) newProgressBar(total int) *progressbar.ProgressBar {
	w := p.opts.Progress
	if w == nil {
		w = io.Discard
	}
	return progressbar.NewOptions(
		total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetTheme(progressbar.ThemeASCII),
		progressbar.OptionFullWidth(),
		progressbar.OptionShowCount(),
		progressbar.OptionSetDescription("[cyan]Downloading songs...[reset]"),
	)
}

func countLinked(list *domain.SongList) int {
	n := 0
	for _, s := range list.All() {
		if s.HasLink() {
			n++
		}
	}
	return n
}
