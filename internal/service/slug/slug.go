package slug

import (
	"strings"
	"unicode"

	"github.com/shurcooL/sanitized_anchor_name"
)

// Make transform the text into an identifier used by heading anchors and page slugs.
//
// The text is lower-cased and trimmed, every character outside letters, digits, underscore, whitespace and hyphen
// is dropped and the runs of whitespace, underscores and hyphens collapse into a single hyphen. Leading and trailing
// hyphens are removed. Equal texts produce equal identifiers, there is no deduplication.
func Make(text string) string {
	text = strings.TrimSpace(strings.ToLower(text))

	var (
		b       strings.Builder
		pending bool
	)
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case isWord(r):
			if pending && b.Len() > 0 {
				b.WriteByte('-')
			}
			pending = false
			b.WriteRune(r)
		case r == '_' || r == '-' || unicode.IsSpace(r):
			pending = true
		}
	}
	return b.String()
}

// AnchorID returns an identifier safe to be used as an HTML id attribute for arbitrary values like block ids.
func AnchorID(value string) string {
	return sanitized_anchor_name.Create(value)
}

func isWord(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
