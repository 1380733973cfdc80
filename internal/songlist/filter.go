package songlist

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/jaki95/playlist-downloader/internal/domain"
)

// ErrInvalidPlaylistIndex is returned when a playlist filter entry is not an integer.
var ErrInvalidPlaylistIndex = errors.New("invalid playlist index")

// FilterConfig selects which parsed songs are kept. It is read-only during a parse.
type FilterConfig struct {
	// AllowedPlaylists restricts listed songs to these playlists. Nil disables the filter.
	AllowedPlaylists *PlaylistSet
	// IgnoreUnlisted drops songs that are not in a playlist.
	IgnoreUnlisted bool
	// SkipDuplicates drops repeated title+artists pairs within a playlist.
	SkipDuplicates bool
}

// PlaylistSet is a set of playlist names, compared case-sensitively.
type PlaylistSet struct {
	names map[string]struct{}
}

// NewPlaylistSet builds a set from already escaped playlist names.
func NewPlaylistSet(names ...string) *PlaylistSet {
	s := &PlaylistSet{names: make(map[string]struct{}, len(names))}
	for _, n := range names {
		s.names[n] = struct{}{}
	}
	return s
}

// Contains reports whether name is in the set. A nil set contains nothing.
func (s *PlaylistSet) Contains(name string) bool {
	if s == nil {
		return false
	}
	_, ok := s.names[name]
	return ok
}

// Names returns the names in the set, sorted.
func (s *PlaylistSet) Names() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.names))
	for n := range s.names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// SplitPlaylistFilter splits a comma separated filter argument into trimmed,
// non-empty entries.
func SplitPlaylistFilter(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// PlaylistSetFromNames builds the allowed set from user supplied names,
// escaping them the way parsed playlist names are escaped.
func PlaylistSetFromNames(names []string) *PlaylistSet {
	escaped := make([]string, len(names))
	for i, n := range names {
		escaped[i] = EscapeQuotes(n)
	}
	return NewPlaylistSet(escaped...)
}

// ResolvePlaylistIndices maps zero-based indices onto the header index.
// Indices outside the index (negative ones included) match no playlist.
func ResolvePlaylistIndices(index PlaylistIndex, entries []string) (*PlaylistSet, error) {
	set := NewPlaylistSet()
	for _, entry := range entries {
		i, err := strconv.Atoi(entry)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPlaylistIndex, entry)
		}
		if i < 0 || i >= len(index) {
			continue
		}
		set.names[index[i]] = struct{}{}
	}
	return set, nil
}

// IsPlaylistAllowed reports whether a listed playlist passes the allowed set.
// Unlisted songs and a nil set always pass.
func IsPlaylistAllowed(playlist string, allowed *PlaylistSet) bool {
	if playlist == domain.UnlistedPlaylist || allowed == nil {
		return true
	}
	return allowed.Contains(playlist)
}

// IsUnlistedAndIgnored reports whether an unlisted song must be dropped.
func IsUnlistedAndIgnored(playlist string, ignore bool) bool {
	return ignore && playlist == domain.UnlistedPlaylist
}

// DuplicateKey is the raw concatenation used to detect repeated songs.
func DuplicateKey(title, artists string) string {
	return title + artists
}

// KeySet holds the duplicate keys seen in one playlist.
type KeySet map[string]struct{}

// IsDuplicate reports whether key was already seen.
func IsDuplicate(key string, seen KeySet) bool {
	_, ok := seen[key]
	return ok
}

// DuplicateTracker keeps one KeySet per playlist.
type DuplicateTracker struct {
	seen map[string]KeySet
}

// NewDuplicateTracker returns an empty tracker.
func NewDuplicateTracker() *DuplicateTracker {
	return &DuplicateTracker{seen: make(map[string]KeySet)}
}

// Reset forgets every key seen in playlist.
func (d *DuplicateTracker) Reset(playlist string) {
	d.seen[playlist] = make(KeySet)
}

// Check reports whether key was seen in playlist and records it when it was not.
func (d *DuplicateTracker) Check(playlist, key string) bool {
	set, ok := d.seen[playlist]
	if !ok {
		set = make(KeySet)
		d.seen[playlist] = set
	}
	if IsDuplicate(key, set) {
		return true
	}
	set[key] = struct{}{}
	return false
}

// verdict records every reason a song was marked for skipping.
type verdict struct {
	skipBlock  bool
	unlisted   bool
	notAllowed bool
	duplicate  bool
}

func (v verdict) skip() bool {
	return v.skipBlock || v.unlisted || v.notAllowed || v.duplicate
}

// evaluate applies the filters in their fixed order. Every filter is checked
// even when an earlier one already marked the song.
func (cfg FilterConfig) evaluate(playlist string, f Fields, inSkipBlock bool, dupes *DuplicateTracker) verdict {
	v := verdict{
		skipBlock:  inSkipBlock,
		unlisted:   IsUnlistedAndIgnored(playlist, cfg.IgnoreUnlisted),
		notAllowed: !IsPlaylistAllowed(playlist, cfg.AllowedPlaylists),
	}
	if cfg.SkipDuplicates {
		v.duplicate = dupes.Check(playlist, DuplicateKey(f.Title, f.Artists))
	}
	return v
}
