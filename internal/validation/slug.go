package validation

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	nonSlugChars = regexp.MustCompile(`[^\w-]+`)
	hyphenRuns   = regexp.MustCompile(`-{2,}`)
)

// Slugify lower-cases and trims title, joins whitespace runs with a hyphen, drops everything
// that is not [A-Za-z0-9_-], collapses hyphen runs and trims hyphens from both ends.
// Accented letters are decomposed first so "Café" keeps its "e" and becomes "cafe". Without that
// step the accented letter would be dropped whole ("caf"), so titles with diacritics get different
// slugs than a plain character filter would give.
//
// Titles that differ only in case or whitespace share a slug.
func Slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = norm.NFD.String(s)
	s = strings.Join(strings.Fields(s), "-")
	s = nonSlugChars.ReplaceAllString(s, "")
	s = hyphenRuns.ReplaceAllString(s, "-")

	return strings.Trim(s, "-")
}
