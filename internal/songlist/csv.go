package songlist

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/jaki95/playlist-downloader/internal/domain"
	"github.com/jaki95/playlist-downloader/internal/logging"
)

// CSVHeader is the fixed column layout of the tabular format.
var CSVHeader = []string{"playlist", "title", "artists", "album", "link"}

const (
	colPlaylist = iota
	colTitle
	colArtists
	colAlbum
	colLink
)

// ReadCSV parses the tabular format. The first row is a header and is always
// discarded. SKIP blocks do not exist in this format, so SkippedSkipBlock
// stays zero.
func ReadCSV(r io.Reader, cfg FilterConfig, logger *slog.Logger) (*domain.SongList, Stats, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	// Hand-edited files carry bare quotes inside unquoted fields, e.g. 12" Mix.
	reader.LazyQuotes = true

	songs := domain.NewSongList()
	var stats Stats

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		logger.Debug("CSV input is empty")
		return songs, stats, nil
	}
	if err != nil {
		return nil, stats, fmt.Errorf("failed to read CSV header: %w", err)
	}
	logging.Trace(logger, "Header row", "header", header)

	dupes := NewDuplicateTracker()
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, stats, fmt.Errorf("failed to read CSV record: %w", err)
		}

		song := songFromRecord(record)
		f := Fields{Title: song.Title, Artists: song.Artists, Album: song.Album, Link: song.Link}
		v := cfg.evaluate(song.Playlist, f, false, dupes)
		stats.record(v, song.HasLink())
		logVerdict(logger, v)

		if v.skip() {
			logging.Trace(logger, "Skipping song", songAttrs(song)...)
			continue
		}
		songs.Add(song)
	}

	return songs, stats, nil
}

// songFromRecord maps a CSV record onto a song, defaulting missing columns.
func songFromRecord(record []string) domain.Song {
	col := func(i int) string {
		if i < len(record) {
			return record[i]
		}
		return ""
	}
	return domain.Song{
		Playlist: col(colPlaylist),
		Title:    col(colTitle),
		Artists:  col(colArtists),
		Album:    col(colAlbum),
		Link:     col(colLink),
	}
}

// WriteCSV writes the header row and one row per song in bucket order.
func WriteCSV(w io.Writer, list *domain.SongList) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(CSVHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, s := range list.All() {
		if err := writer.Write([]string{s.Playlist, s.Title, s.Artists, s.Album, s.Link}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}
