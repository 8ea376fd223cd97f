package layout

import (
	"strings"
	"unicode"
)

// Measurer reports the advance width of text in points for a style. Layout is
// only as faithful as the measurer matches the font a backend draws with.
type Measurer interface {
	TextWidth(text string, style Style) float64
}

func hasText(s string) bool {
	return strings.TrimFunc(s, unicode.IsSpace) != ""
}

type wrappedLine struct {
	text  string
	width float64
}

// wrap breaks text into lines no wider than maxWidth. Words move to the next
// line as a whole; a word wider than the line is broken between characters.
// ok is false when a single character is wider than maxWidth.
func wrap(m Measurer, text string, style Style, maxWidth float64) (lines []wrappedLine, ok bool) {
	ok = true
	for _, para := range strings.Split(text, "\n") {
		var cur string
		var curW float64

		flush := func() {
			if cur != "" {
				lines = append(lines, wrappedLine{text: cur, width: curW})
			}
			cur, curW = "", 0
		}

		for _, word := range strings.Fields(para) {
			candidate := word
			if cur != "" {
				candidate = cur + " " + word
			}
			if w := m.TextWidth(candidate, style); w <= maxWidth {
				cur, curW = candidate, w
				continue
			}
			flush()

			if w := m.TextWidth(word, style); w <= maxWidth {
				cur, curW = word, w
				continue
			}

			// Character-level fallback for words longer than the line.
			for _, r := range word {
				candidate := cur + string(r)
				if w := m.TextWidth(candidate, style); w <= maxWidth {
					cur, curW = candidate, w
					continue
				}
				flush()
				w := m.TextWidth(string(r), style)
				if w > maxWidth {
					ok = false
				}
				cur, curW = string(r), w
			}
		}
		flush()
	}
	return lines, ok
}
