// Package fontmetrics measures text with the same width tables the PDF
// backend draws with, so lines wrapped during layout still fit when drawn.
package fontmetrics

import (
	"strings"
	"sync"

	"github.com/jonathan/cv-builder/internal/layout"
	"github.com/jung-kurt/gofpdf"
)

// Family normalizes a style font name to a PDF core family.
// Unknown names fall back to Helvetica.
func Family(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "times", "times new roman", "serif":
		return "Times"
	case "courier", "courier new", "monospace":
		return "Courier"
	default:
		return "Helvetica"
	}
}

// StyleString returns the gofpdf style flags ("", "B", "I" or "BI") for s.
func StyleString(s layout.Style) string {
	var b strings.Builder
	if s.Bold {
		b.WriteString("B")
	}
	if s.Italic {
		b.WriteString("I")
	}
	return b.String()
}

// Core measures text against the PDF core fonts in cp1252 encoding. Text the
// core fonts cannot encode is measured with the embedded Go fonts instead.
type Core struct {
	mu  sync.Mutex
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

// NewCore creates a measurer in point units.
func NewCore() *Core {
	pdf := gofpdf.New("P", "pt", "A4", "")
	return &Core{
		pdf: pdf,
		tr:  pdf.UnicodeTranslatorFromDescriptor(""),
	}
}

// TextWidth implements layout.Measurer.
func (c *Core) TextWidth(text string, style layout.Style) float64 {
	if text == "" || style.Size <= 0 {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if Encodable(text) {
		c.pdf.SetFont(Family(style.Font), StyleString(style), style.Size)
		text = c.tr(text)
	} else {
		SetUnicodeFont(c.pdf, style)
		text = bmpOnly(text)
	}
	w := c.pdf.GetStringWidth(text)
	if c.pdf.Err() {
		c.pdf.ClearError()
		return 0
	}
	return w
}
