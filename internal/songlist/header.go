package songlist

import (
	"log/slog"
	"strings"

	"github.com/jaki95/playlist-downloader/internal/logging"
)

// Header markers of the txt format.
const (
	markerIndexStart = "INDEX PLAYLISTS"
	markerIndexEnd   = "END INDEX"
	markerHeaderEnd  = "END HEADER"
	indexEntryPrefix = "- "
)

// PlaylistIndex is the ordered list of playlist names declared in the header.
type PlaylistIndex []string

// ParseHeader reads the header block and returns the playlist index together
// with the offset of the first line after END HEADER. Without END HEADER the
// whole input is consumed and the offset equals len(lines).
func ParseHeader(lines []string, logger *slog.Logger) (PlaylistIndex, int) {
	index := PlaylistIndex{}
	readingIndex := false

	i := 0
	for i < len(lines) {
		line := strings.TrimSpace(lines[i])
		i++

		if isIgnorable(line) {
			continue
		}

		switch {
		case line == markerIndexStart:
			readingIndex = true
		case readingIndex && strings.HasPrefix(line, indexEntryPrefix):
			index = append(index, EscapeQuotes(line[len(indexEntryPrefix):]))
		case line == markerIndexEnd:
			readingIndex = false
		case line == markerHeaderEnd:
			if readingIndex {
				logging.Trace(logger, "End of header encountered before end of index, stopping reading playlist index")
			}
			logIndex(logger, index)
			return index, i
		}
	}

	logger.Debug("No END HEADER marker found, no songs will be parsed")
	logIndex(logger, index)
	return index, i
}

func logIndex(logger *slog.Logger, index PlaylistIndex) {
	logger.Debug("Playlists found in header", "count", len(index))
	for i, name := range index {
		logger.Debug("Playlist", "index", i, "name", name)
	}
}

// isIgnorable reports whether a trimmed line is blank or a comment.
func isIgnorable(line string) bool {
	return line == "" || line[0] == '#'
}
