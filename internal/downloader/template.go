package downloader

import (
	"regexp"
	"strings"

	"github.com/jaki95/playlist-downloader/internal/domain"
)

// DefaultTemplate is used when no output template is configured.
const DefaultTemplate = "%(artists) -- %(title)"

var (
	strippedChars   = regexp.MustCompile(`["?*<>]`)
	separatorChars  = regexp.MustCompile(`[\\|/]`)
	separatorString = " - "
)

// SanitizeFileName removes characters that are not allowed in file names.
// `"?*<>` are dropped, `\|/` become " - " and the result is trimmed.
func SanitizeFileName(name string) string {
	name = strippedChars.ReplaceAllString(name, "")
	name = separatorChars.ReplaceAllString(name, separatorString)
	return strings.TrimSpace(name)
}

// ExpandTemplate replaces the %(field) tokens of template with the song values.
// %(artist) is an alias of %(artists).
func ExpandTemplate(template string, s domain.Song) string {
	if template == "" {
		template = DefaultTemplate
	}
	r := strings.NewReplacer(
		"%(title)", s.Title,
		"%(artists)", s.Artists,
		"%(artist)", s.Artists,
		"%(album)", s.Album,
		"%(link)", s.Link,
		"%(playlist)", s.Playlist,
	)
	return r.Replace(template)
}

// OutputFileName expands template for s and sanitises the result.
func OutputFileName(template string, s domain.Song) string {
	return SanitizeFileName(ExpandTemplate(template, s))
}
