package songlist

import "strings"

// EscapeQuotes doubles every double quote in s. It is not idempotent:
// escaping an already escaped value doubles the quotes again, so it must be
// applied exactly once, when text enters the song model.
func EscapeQuotes(s string) string {
	return strings.ReplaceAll(s, `"`, `""`)
}

// UnescapeQuotes reverses EscapeQuotes.
func UnescapeQuotes(s string) string {
	return strings.ReplaceAll(s, `""`, `"`)
}
