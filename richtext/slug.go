package richtext

import (
	"regexp"
	"strings"
)

// Heading slugs double as dataset key hints, so both pipeline stages must
// normalize text identically. Keep this in sync with nothing - everything
// goes through here.
var (
	slugStrip    = regexp.MustCompile(`[^a-z0-9\s]`)
	slugCollapse = regexp.MustCompile(`\s+`)
)

// Slugify lower-cases the text, strips everything outside [a-z0-9] and
// whitespace, and collapses whitespace runs into single hyphens.
//
//	"Food Assistance Programs!" -> "food-assistance-programs"
func Slugify(s string) string {
	s = strings.ToLower(s)
	s = slugStrip.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	return slugCollapse.ReplaceAllString(s, "-")
}
