// Package layout paginates template sections into fixed-size pages of positioned blocks.
// All measurements are PDF points (1/72 inch) with the origin at the top-left corner of the page.
package layout

import "fmt"

// A4 page size in points.
const (
	A4Width  = 595.28
	A4Height = 841.89
)

// Margins are page margins in points.
type Margins struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// PageSpec is the fixed page geometry every page of a document shares.
type PageSpec struct {
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Margins Margins `json:"margins"`
}

// A4 returns an A4 portrait page with the same margin on every side.
func A4(margin float64) PageSpec {
	return PageSpec{
		Width:   A4Width,
		Height:  A4Height,
		Margins: Margins{Top: margin, Right: margin, Bottom: margin, Left: margin},
	}
}

// ContentWidth is the usable width between the left and right margins.
func (p PageSpec) ContentWidth() float64 {
	return p.Width - p.Margins.Left - p.Margins.Right
}

// ContentHeight is the vertical budget of one page.
func (p PageSpec) ContentHeight() float64 {
	return p.Height - p.Margins.Top - p.Margins.Bottom
}

// Validate rejects pages that leave no room for content.
func (p PageSpec) Validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("page size must be positive, got %.2fx%.2f", p.Width, p.Height)
	}
	if p.ContentWidth() <= 0 || p.ContentHeight() <= 0 {
		return fmt.Errorf("margins leave no content area on a %.2fx%.2f page", p.Width, p.Height)
	}
	return nil
}

// Style describes how a run of text is drawn. Font is a PDF core family
// (Helvetica, Times or Courier); Color is a "#rrggbb" hex string.
type Style struct {
	Font       string  `json:"font"`
	Bold       bool    `json:"bold,omitempty"`
	Italic     bool    `json:"italic,omitempty"`
	Size       float64 `json:"size"`
	Color      string  `json:"color,omitempty"`
	LineHeight float64 `json:"line_height,omitempty"`
}

// DefaultLineHeight is the leading multiplier used when a style leaves it unset.
const DefaultLineHeight = 1.25

// Leading is the vertical advance of one line in this style.
func (s Style) Leading() float64 {
	lh := s.LineHeight
	if lh <= 0 {
		lh = DefaultLineHeight
	}
	return s.Size * lh
}

// baseline is the offset from the top of a line box to the text baseline.
func (s Style) baseline() float64 {
	return (s.Leading()-s.Size)/2 + s.Size*0.8
}

// Theme is the typography and spacing the engine applies to section headings,
// entries and bullets. Paragraph text carries its own style.
type Theme struct {
	Heading           Style   `json:"heading"`
	Body              Style   `json:"body"`
	Title             Style   `json:"title"`
	Meta              Style   `json:"meta"`
	Accent            string  `json:"accent"`
	HeadingRule       bool    `json:"heading_rule"`
	UppercaseHeadings bool    `json:"uppercase_headings"`
	SectionGap        float64 `json:"section_gap"`
	HeadingGap        float64 `json:"heading_gap"`
	EntryGap          float64 `json:"entry_gap"`
	ParagraphGap      float64 `json:"paragraph_gap"`
	BulletGap         float64 `json:"bullet_gap"`
	BulletIndent      float64 `json:"bullet_indent"`
}

// DefaultTheme is a plain Helvetica theme.
func DefaultTheme() Theme {
	return Theme{
		Heading:      Style{Font: "Helvetica", Bold: true, Size: 12, Color: "#1f2937"},
		Body:         Style{Font: "Helvetica", Size: 10, Color: "#374151"},
		Title:        Style{Font: "Helvetica", Bold: true, Size: 10.5, Color: "#111827"},
		Meta:         Style{Font: "Helvetica", Italic: true, Size: 9, Color: "#6b7280"},
		Accent:       "#1f2937",
		HeadingRule:  true,
		SectionGap:   14,
		HeadingGap:   6,
		EntryGap:     8,
		ParagraphGap: 4,
		BulletGap:    2,
		BulletIndent: 12,
	}
}

// BlockKind classifies a positioned block.
type BlockKind string

const (
	BlockHeading     BlockKind = "heading"
	BlockLine        BlockKind = "line"
	BlockBullet      BlockKind = "bullet"
	BlockEntryHeader BlockKind = "entry-header"
	BlockImage       BlockKind = "image"
)

// Line is one wrapped line of text. Y is the top of the line box, Baseline the
// y coordinate backends pass to their text drawing call.
type Line struct {
	Text     string  `json:"text"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Baseline float64 `json:"baseline"`
	Width    float64 `json:"width"`
	Style    Style   `json:"style"`
}

// ImageBox is an image placed on the page. Source is a data URI.
type ImageBox struct {
	Source string  `json:"source"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Rule is a horizontal line, drawn under headings.
type Rule struct {
	X1        float64 `json:"x1"`
	X2        float64 `json:"x2"`
	Y         float64 `json:"y"`
	Thickness float64 `json:"thickness"`
	Color     string  `json:"color"`
}

// Marker is the filled disc in front of a bullet.
type Marker struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
	Color  string  `json:"color"`
}

// Block is one placed unit of content. Index is global across the document and
// follows reading order. Entry is the entry index within an entry list, or -1.
// A line block holds a single line, or a whole paragraph when it carries an aside image.
type Block struct {
	Index       int       `json:"index"`
	Kind        BlockKind `json:"kind"`
	Section     int       `json:"section"`
	SectionKind string    `json:"section_kind"`
	Entry       int       `json:"entry"`
	X           float64   `json:"x"`
	Y           float64   `json:"y"`
	Width       float64   `json:"width"`
	Height      float64   `json:"height"`
	Lines       []Line    `json:"lines,omitempty"`
	Image       *ImageBox `json:"image,omitempty"`
	Rule        *Rule     `json:"rule,omitempty"`
	Marker      *Marker   `json:"marker,omitempty"`
	Continued   bool      `json:"continued,omitempty"`
}

// Page is one fixed-size page. Number starts at 1.
type Page struct {
	Number int     `json:"number"`
	Blocks []Block `json:"blocks"`
}
