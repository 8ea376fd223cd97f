// Package pdfinfo reads finished PDFs back: page count and extracted text.
package pdfinfo

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Info summarizes a PDF.
type Info struct {
	Pages int      `json:"pages"`
	Text  []string `json:"text"`
	Bytes int      `json:"bytes"`
}

// Inspect parses data and extracts the plain text of every page. Image-only
// pages yield empty text.
func Inspect(data []byte) (*Info, error) {
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return nil, fmt.Errorf("not a PDF document")
	}
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse PDF: %w", err)
	}

	info := &Info{Pages: r.NumPage(), Bytes: len(data)}
	info.Text = make([]string, 0, info.Pages)
	for i := 1; i <= info.Pages; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			info.Text = append(info.Text, "")
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to extract text of page %d: %w", i, err)
		}
		info.Text = append(info.Text, text)
	}
	return info, nil
}

// Contains reports whether any page's text contains s.
func (i *Info) Contains(s string) bool {
	for _, t := range i.Text {
		if strings.Contains(t, s) {
			return true
		}
	}
	return false
}

// PageOf returns the 1-based page whose text contains s, or 0.
func (i *Info) PageOf(s string) int {
	for n, t := range i.Text {
		if strings.Contains(t, s) {
			return n + 1
		}
	}
	return 0
}
