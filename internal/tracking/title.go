package tracking

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DisplayTitle derives a human-readable title from a version name like
// "sq010_comp_v003": separators become spaces and each word is title-cased.
func DisplayTitle(versionName string) string {
	cleaned := strings.Builder{}
	prevSpace := false
	for _, r := range versionName {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			cleaned.WriteRune(r)
			prevSpace = false
		case unicode.IsSpace(r) || r == '-' || r == '_' || r == '.':
			if !prevSpace {
				cleaned.WriteRune(' ')
				prevSpace = true
			}
		}
	}
	title := strings.TrimSpace(cleaned.String())
	if title == "" {
		return "Untitled Version"
	}
	return cases.Title(language.Und).String(title)
}
