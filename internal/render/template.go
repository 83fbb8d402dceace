package render

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"dailies/internal/services"
)

// tokenPattern matches {token} placeholders in slate and script templates.
var tokenPattern = regexp.MustCompile(`\{([a-z_][a-z0-9_]*)\}`)

// SubstituteTokens replaces every {token} placeholder in text with the value
// from tokens. A placeholder with no corresponding value is rejected before
// any external process runs; the placeholder set is fixed, not discovered
// lazily from the template.
func SubstituteTokens(text string, tokens map[string]string) (string, error) {
	var unknown []string
	seen := map[string]struct{}{}
	result := tokenPattern.ReplaceAllStringFunc(text, func(match string) string {
		name := match[1 : len(match)-1]
		value, ok := tokens[name]
		if !ok {
			if _, dup := seen[name]; !dup {
				seen[name] = struct{}{}
				unknown = append(unknown, name)
			}
			return match
		}
		return value
	})
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return "", services.Wrap(services.ErrTemplateFieldMissing, "template", "substitute",
			fmt.Sprintf("unrecognized tokens: %s", strings.Join(unknown, ", ")), nil)
	}
	return result, nil
}
