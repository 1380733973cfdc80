package songlist

import (
	"log/slog"
	"strings"

	"github.com/jaki95/playlist-downloader/internal/domain"
	"github.com/jaki95/playlist-downloader/internal/logging"
)

// Song section markers of the txt format.
const (
	markerPlaylist = "PLAYLIST"
	markerSkip     = "SKIP"
	markerSkipEnd  = "END SKIP"
	playlistPrefix = markerPlaylist + " "
)

// Result is the outcome of parsing a playlist file.
type Result struct {
	Index  PlaylistIndex
	Songs  *domain.SongList
	Stats  Stats
	Filter FilterConfig
}

// Parse reads the header and the song section of a txt playlist file.
// Playlist indices in opts refer to the header read from lines.
func Parse(lines []string, opts Options, logger *slog.Logger) (Result, error) {
	index, start := ParseHeader(lines, logger)
	cfg, err := opts.resolve(index, logger)
	if err != nil {
		return Result{}, err
	}
	songs, stats := ParseSongs(lines, start, cfg, logger)
	return Result{Index: index, Songs: songs, Stats: stats, Filter: cfg}, nil
}

// parserState is the mutable state of one pass over the song section.
type parserState struct {
	playlist string
	skipping bool
	dupes    *DuplicateTracker
}

// ParseSongs walks the song section starting at lines[start] and returns the
// kept songs grouped by playlist together with the parse statistics.
func ParseSongs(lines []string, start int, cfg FilterConfig, logger *slog.Logger) (*domain.SongList, Stats) {
	songs := domain.NewSongList()
	var stats Stats
	state := parserState{
		playlist: domain.UnlistedPlaylist,
		dupes:    NewDuplicateTracker(),
	}

	for i := start; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])

		if name, ok := playlistName(line); ok {
			logging.Trace(logger, "Playlist", "name", name)
			state.playlist = EscapeQuotes(name)
			state.skipping = false
			state.dupes.Reset(state.playlist)
			if state.playlist != domain.UnlistedPlaylist {
				songs.AddPlaylist(state.playlist)
			}
			continue
		}

		switch {
		case line == markerSkip:
			state.skipping = true
			continue
		case line == markerSkipEnd:
			state.skipping = false
			continue
		case isIgnorable(line):
			continue
		}

		f := SplitFields(line)
		v := cfg.evaluate(state.playlist, f, state.skipping, state.dupes)
		stats.record(v, f.Link != "")
		logVerdict(logger, v)

		song := domain.Song{
			Title:    f.Title,
			Artists:  f.Artists,
			Album:    f.Album,
			Playlist: state.playlist,
			Link:     f.Link,
		}
		if v.skip() {
			logging.Trace(logger, "Skipping song", songAttrs(song)...)
			continue
		}
		logging.Trace(logger, "Song", songAttrs(song)...)
		songs.Add(song)
	}

	return songs, stats
}

// playlistName extracts the name of a PLAYLIST marker line.
func playlistName(line string) (string, bool) {
	if line == markerPlaylist {
		return domain.UnlistedPlaylist, true
	}
	if strings.HasPrefix(line, playlistPrefix) {
		return strings.TrimSpace(line[len(playlistPrefix):]), true
	}
	return "", false
}

func logVerdict(logger *slog.Logger, v verdict) {
	if v.skipBlock {
		logging.Trace(logger, "Skipping song because SKIP keyword was encountered")
	}
	if v.unlisted {
		logging.Trace(logger, "Skipping song with no playlist")
	}
	if v.notAllowed {
		logging.Trace(logger, "Skipping song that is not in allowed playlists")
	}
	if v.duplicate {
		logging.Trace(logger, "Song with same title and artists already found, skipping duplicate song in playlist")
	}
}

func songAttrs(s domain.Song) []any {
	return []any{
		"playlist", s.Playlist,
		"title", s.Title,
		"artists", s.Artists,
		"album", s.Album,
		"link", s.Link,
	}
}
