package songlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePlaylistIndices(t *testing.T) {
	index := PlaylistIndex{"Zero", "One", "Two"}

	tests := []struct {
		name     string
		entries  []string
		expected []string
		wantErr  bool
	}{
		{name: "single index", entries: []string{"1"}, expected: []string{"One"}},
		{name: "several indices", entries: []string{"0", "2"}, expected: []string{"Two", "Zero"}},
		{name: "out of range matches nothing", entries: []string{"3"}, expected: []string{}},
		{name: "negative matches nothing", entries: []string{"-1"}, expected: []string{}},
		{name: "not a number", entries: []string{"one"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := ResolvePlaylistIndices(index, tt.entries)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPlaylistIndex)
				assert.Nil(t, set)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, set)
			assert.Equal(t, tt.expected, set.Names())
		})
	}
}

func TestOutOfRangeIndexStillFilters(t *testing.T) {
	set, err := ResolvePlaylistIndices(PlaylistIndex{"A"}, []string{"7"})
	require.NoError(t, err)

	assert.False(t, IsPlaylistAllowed("A", set))
	assert.True(t, IsPlaylistAllowed("", set))
}

func TestSplitPlaylistFilter(t *testing.T) {
	assert.Equal(t, []string{"FOO", "BAR"}, SplitPlaylistFilter("FOO,BAR"))
	assert.Equal(t, []string{"Road Trip", "Chill"}, SplitPlaylistFilter(" Road Trip , Chill ,"))
	assert.Nil(t, SplitPlaylistFilter(" , "))
}

func TestPlaylistSetFromNamesEscapesQuotes(t *testing.T) {
	set := PlaylistSetFromNames([]string{`The "Best"`})
	assert.True(t, set.Contains(`The ""Best""`))
	assert.False(t, set.Contains(`The "Best"`))
}

func TestIsPlaylistAllowed(t *testing.T) {
	allowed := NewPlaylistSet("A")

	assert.True(t, IsPlaylistAllowed("A", allowed))
	assert.False(t, IsPlaylistAllowed("a", allowed), "names are case sensitive")
	assert.False(t, IsPlaylistAllowed("B", allowed))
	assert.True(t, IsPlaylistAllowed("", allowed))
	assert.True(t, IsPlaylistAllowed("B", nil))
}

func TestIsUnlistedAndIgnored(t *testing.T) {
	assert.True(t, IsUnlistedAndIgnored("", true))
	assert.False(t, IsUnlistedAndIgnored("", false))
	assert.False(t, IsUnlistedAndIgnored("A", true))
}

func TestDuplicateTracker(t *testing.T) {
	d := NewDuplicateTracker()
	key := DuplicateKey("title", "artist")

	assert.False(t, d.Check("A", key))
	assert.True(t, d.Check("A", key))
	assert.False(t, d.Check("B", key))

	d.Reset("A")
	assert.False(t, d.Check("A", key))
}

func TestIsDuplicate(t *testing.T) {
	seen := KeySet{"ab": {}}
	assert.True(t, IsDuplicate("ab", seen))
	assert.False(t, IsDuplicate("ba", seen))
}
