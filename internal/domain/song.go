package domain

// UnlistedPlaylist is the reserved playlist key for songs that do not belong
// to any playlist. Real playlist names are never empty, so it cannot collide
// with one.
const UnlistedPlaylist = ""

// Song represents a single entry of a playlist file.
type Song struct {
	Title    string `json:"title"`
	Artists  string `json:"artists"`
	Album    string `json:"album"`
	Playlist string `json:"playlist"`
	Link     string `json:"link,omitempty"`
}

// HasLink reports whether the song has a download target.
func (s Song) HasLink() bool {
	return s.Link != ""
}

// SongList groups songs by playlist, keeping the order in which playlists
// were first seen. The unlisted bucket always exists and always comes first.
type SongList struct {
	order   []string
	buckets map[string][]Song
}

// NewSongList creates an empty song list holding only the unlisted bucket.
func NewSongList() *SongList {
	return &SongList{
		order:   []string{UnlistedPlaylist},
		buckets: map[string][]Song{UnlistedPlaylist: nil},
	}
}

// AddPlaylist registers a playlist bucket. Registering an existing playlist
// is a no-op, so songs added earlier are kept.
func (l *SongList) AddPlaylist(name string) {
	if _, ok := l.buckets[name]; ok {
		return
	}
	l.order = append(l.order, name)
	l.buckets[name] = nil
}

// Add appends a song to the bucket of its playlist.
func (l *SongList) Add(song Song) {
	l.AddPlaylist(song.Playlist)
	l.buckets[song.Playlist] = append(l.buckets[song.Playlist], song)
}

// Playlists returns the playlist keys in insertion order, unlisted first.
func (l *SongList) Playlists() []string {
	out := make([]string, len(l.order))
	copy(out, l.order)
	return out
}

// Songs returns the songs of one playlist in insertion order.
func (l *SongList) Songs(playlist string) []Song {
	songs := l.buckets[playlist]
	out := make([]Song, len(songs))
	copy(out, songs)
	return out
}

// All returns every song, bucket by bucket.
func (l *SongList) All() []Song {
	out := make([]Song, 0, l.Len())
	for _, name := range l.order {
		out = append(out, l.buckets[name]...)
	}
	return out
}

// Len returns the total number of songs.
func (l *SongList) Len() int {
	n := 0
	for _, songs := range l.buckets {
		n += len(songs)
	}
	return n
}
