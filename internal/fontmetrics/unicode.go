package fontmetrics

import (
	"fmt"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/jonathan/cv-builder/internal/layout"
	"github.com/jung-kurt/gofpdf"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/text/encoding/charmap"
)

// Embedded families that stand in for the core fonts when a line holds text
// outside cp1252.
const (
	GoSans = "GoSans"
	GoMono = "GoMono"
)

type fontKey struct {
	family string
	style  string
}

var goTTF = map[fontKey][]byte{
	{GoSans, ""}:   goregular.TTF,
	{GoSans, "B"}:  gobold.TTF,
	{GoSans, "I"}:  goitalic.TTF,
	{GoSans, "BI"}: gobolditalic.TTF,
	{GoMono, ""}:   gomono.TTF,
	{GoMono, "B"}:  gomonobold.TTF,
	{GoMono, "I"}:  gomonoitalic.TTF,
	{GoMono, "BI"}: gomonobolditalic.TTF,
}

var (
	parsedMu sync.Mutex
	parsed   = map[fontKey]*opentype.Font{}
)

// Encodable reports whether every rune of text has a cp1252 code, which is
// what the core fonts can draw.
func Encodable(text string) bool {
	for _, r := range text {
		if r < utf8.RuneSelf {
			continue
		}
		if _, ok := charmap.Windows1252.EncodeRune(r); !ok {
			return false
		}
	}
	return true
}

// UnicodeFamily returns the embedded family used in place of style's core font.
func UnicodeFamily(style layout.Style) string {
	if Family(style.Font) == "Courier" {
		return GoMono
	}
	return GoSans
}

// GoFont returns the parsed embedded font for a family and gofpdf style string.
func GoFont(family, style string) (*opentype.Font, error) {
	key := fontKey{family: family, style: style}
	ttf, ok := goTTF[key]
	if !ok {
		return nil, fmt.Errorf("no embedded font %s %q", family, style)
	}

	parsedMu.Lock()
	defer parsedMu.Unlock()
	if f, ok := parsed[key]; ok {
		return f, nil
	}
	f, err := opentype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("parse font %s %q: %w", family, style, err)
	}
	parsed[key] = f
	return f, nil
}

// MissingGlyph returns the first rune of text that the embedded font for
// style cannot draw. ok is false when every rune is covered.
func MissingGlyph(text string, style layout.Style) (r rune, ok bool, err error) {
	f, err := GoFont(UnicodeFamily(style), StyleString(style))
	if err != nil {
		return 0, false, err
	}
	var buf sfnt.Buffer
	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		// gofpdf maps characters through a 16-bit CID table.
		if r > 0xFFFF {
			return r, true, nil
		}
		idx, err := f.GlyphIndex(&buf, r)
		if err != nil {
			return 0, false, err
		}
		if idx == 0 {
			return r, true, nil
		}
	}
	return 0, false, nil
}

// SetUnicodeFont registers the embedded font for style with pdf on first use
// and selects it.
func SetUnicodeFont(pdf *gofpdf.Fpdf, style layout.Style) {
	family, st := UnicodeFamily(style), StyleString(style)
	pdf.AddUTF8FontFromBytes(family, st, goTTF[fontKey{family: family, style: st}])
	pdf.SetFont(family, st, style.Size)
}

// bmpOnly replaces characters outside the basic multilingual plane, which the
// gofpdf width table cannot index.
func bmpOnly(text string) string {
	return strings.Map(func(r rune) rune {
		if r > 0xFFFF {
			return unicode.ReplacementChar
		}
		return r
	}, text)
}
