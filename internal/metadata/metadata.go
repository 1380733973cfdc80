// Package metadata writes song tags into downloaded audio files.
package metadata

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2/v2"

	"github.com/jaki95/playlist-downloader/internal/domain"
	"github.com/jaki95/playlist-downloader/internal/songlist"
)

// ErrUnsupportedFormat is returned for files the tagger cannot write.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// Tagger writes song metadata into an audio file.
type Tagger interface {
	Tag(ctx context.Context, path string, song domain.Song) error
}

// ID3Tagger writes ID3v2 tags into .mp3 files.
type ID3Tagger struct {
	logger *slog.Logger
}

func NewID3Tagger(logger *slog.Logger) *ID3Tagger {
	return &ID3Tagger{logger: logger}
}

// Supports reports whether path has a format the tagger can write.
func (t *ID3Tagger) Supports(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".mp3")
}

// Tag sets title, artist and album on the file at path. Existing frames are
// kept.
func (t *ID3Tagger) Tag(ctx context.Context, path string, song domain.Song) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !t.Supports(path) {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer tag.Close()

	tag.SetDefaultEncoding(id3v2.EncodingUTF8)
	tag.SetTitle(songlist.UnescapeQuotes(song.Title))
	tag.SetArtist(songlist.UnescapeQuotes(song.Artists))
	if song.Album != "" {
		tag.SetAlbum(songlist.UnescapeQuotes(song.Album))
	}

	if err := tag.Save(); err != nil {
		return fmt.Errorf("failed to save tags of %s: %w", path, err)
	}
	t.logger.Debug("Tagged file", "path", path, "title", song.Title)
	return nil
}
