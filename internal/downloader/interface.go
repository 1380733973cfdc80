package downloader

import (
	"context"

	"github.com/jaki95/playlist-downloader/internal/domain"
)

// Request describes one song download.
type Request struct {
	Song domain.Song
	// Dir is the directory the file is stored in.
	Dir string
	// FileName is the sanitised output name, without extension.
	FileName string
}

// Downloader fetches a single song.
type Downloader interface {
	// Download stores the song described by req and returns the path of the
	// final file.
	Download(ctx context.Context, req Request) (string, error)
}
