package songlist

import (
	"regexp"
	"strings"
)

// fieldDelimiter separates the fields of a song line: three or more spaces.
var fieldDelimiter = regexp.MustCompile(` {3,}`)

// Fields holds the positional values of one song line.
type Fields struct {
	Title   string
	Artists string
	Album   string
	Link    string
}

// SplitFields splits a song line into title, artists, album and link.
// Quotes are escaped first. Empty tokens are dropped before the positional
// assignment, tokens past the fourth are ignored and missing ones are empty.
func SplitFields(line string) Fields {
	var tokens []string
	for _, tok := range fieldDelimiter.Split(EscapeQuotes(line), -1) {
		if tok = strings.TrimSpace(tok); tok != "" {
			tokens = append(tokens, tok)
		}
	}

	var f Fields
	targets := []*string{&f.Title, &f.Artists, &f.Album, &f.Link}
	for i, tok := range tokens {
		if i >= len(targets) {
			break
		}
		*targets[i] = tok
	}
	return f
}
