// Package playlistfile writes .m3u8 playlist files next to downloaded songs.
package playlistfile

import (
	"bufio"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/jaki95/playlist-downloader/internal/storage"
)

const (
	// UnlistedName is the file name used for songs outside of any playlist.
	UnlistedName = "unlisted"
	Extension    = ".m3u8"
)

type Writer struct {
	store  storage.Storage
	logger *slog.Logger
}

func NewWriter(store storage.Storage, logger *slog.Logger) *Writer {
	return &Writer{store: store, logger: logger}
}

// Write stores <dir>/<fileName>.m3u8 listing paths under the given title and
// returns the file path. An empty fileName means the unlisted playlist.
// Nothing is written when paths is empty.
func (w *Writer) Write(dir, fileName, title string, paths []string) (string, error) {
	if len(paths) == 0 {
		return "", nil
	}
	if fileName == UnlistedName {
		w.logger.Warn("A playlist is called \"unlisted\", its playlist file is shared with the unlisted songs and may be overwritten", "title", title)
	}
	if fileName == "" {
		fileName = UnlistedName
	}

	path := filepath.Join(dir, fileName+Extension)
	w.logger.Debug("Creating playlist file", "path", path, "songs", len(paths))

	out, err := w.store.GetWriter(path)
	if err != nil {
		return "", fmt.Errorf("failed to open playlist file %s: %w", path, err)
	}

	bw := bufio.NewWriter(out)
	fmt.Fprintf(bw, "#EXTM3U\n#EXTENC:UTF-8\n#PLAYLIST:%s\n", title)
	for _, p := range paths {
		fmt.Fprintln(bw, p)
	}
	if err := bw.Flush(); err != nil {
		out.Close()
		return "", fmt.Errorf("failed to write playlist file %s: %w", path, err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("failed to close playlist file %s: %w", path, err)
	}

	w.logger.Info("Playlist file stored", "path", path)
	return path, nil
}
