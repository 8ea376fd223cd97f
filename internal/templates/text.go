package templates

import (
	"strings"
	"unicode"
)

// clean prepares user text for layout: tabs become spaces, other control
// characters are dropped and surrounding whitespace is trimmed. Newlines are
// kept as forced line breaks.
func clean(text string) string {
	if text == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r == '\n':
			b.WriteRune(r)
		case r == '\t':
			b.WriteRune(' ')
		case r == '\r', unicode.IsControl(r), r == unicode.ReplacementChar:
			continue
		default:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// join concatenates the non-empty cleaned parts with sep.
func join(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = clean(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
