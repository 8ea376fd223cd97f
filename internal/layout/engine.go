package layout

import (
	"fmt"
	"strings"
)

// epsilon absorbs float drift when comparing accumulated heights.
const epsilon = 1e-6

// asideGap separates paragraph text from its aside image.
const asideGap = 12

// Engine paginates sections. It holds no mutable state once built, so one
// Engine can lay out any number of documents concurrently.
type Engine struct {
	page    PageSpec
	theme   Theme
	measure Measurer
}

// Option configures an Engine.
type Option func(*Engine)

// WithPage sets the page geometry.
func WithPage(p PageSpec) Option {
	return func(e *Engine) {
		e.page = p
	}
}

// WithTheme sets heading, entry and bullet typography.
func WithTheme(t Theme) Option {
	return func(e *Engine) {
		e.theme = t
	}
}

// NewEngine creates an engine measuring text with m. Defaults to an A4 page
// with 42pt margins and DefaultTheme.
func NewEngine(m Measurer, opts ...Option) *Engine {
	e := &Engine{
		page:    A4(42),
		theme:   DefaultTheme(),
		measure: m,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Page returns the page geometry the engine lays out onto.
func (e *Engine) Page() PageSpec {
	return e.page
}

// unit is a block before placement. Geometry inside is relative to the unit top.
type unit struct {
	kind   BlockKind
	entry  int
	gap    float64
	height float64
	lines  []Line
	image  *ImageBox
	rule   *Rule
	marker *Marker
	err    string
}

// chunk is a run of units kept on one page whenever it fits an empty page.
// When it does not, only the first lead units stay together.
type chunk struct {
	units []unit
	lead  int
}

// Layout places sections in order onto as few pages as the keep-together
// rules allow. A section heading always shares its page with the section's
// first content, and an entry stays whole unless it is taller than a page.
func (e *Engine) Layout(sections []Section) (*Document, error) {
	if err := e.page.Validate(); err != nil {
		return nil, &LayoutError{BlockIndex: -1, Section: -1, Reason: err.Error()}
	}

	doc := &Document{Page: e.page}
	p := newPager(doc)

	for si, s := range sections {
		chunks := e.sectionChunks(s)
		if len(chunks) == 0 {
			continue
		}
		p.beginSection(si, s.Kind)

		if !hasText(s.Heading) {
			chunks[0].units[0].gap = e.theme.SectionGap
			for _, c := range chunks {
				if err := p.placeChunk(c); err != nil {
					return nil, err
				}
			}
			continue
		}

		heading := e.headingUnit(s.Heading)
		heading.gap = e.theme.SectionGap
		first := chunks[0]
		first.units[0].gap = e.theme.HeadingGap

		whole := append([]unit{heading}, first.units...)
		if stackHeight(whole, true) <= p.contentHeight+epsilon {
			if err := p.place(whole); err != nil {
				return nil, err
			}
		} else {
			if err := p.place(append([]unit{heading}, first.units[:first.lead]...)); err != nil {
				return nil, err
			}
			for _, u := range first.units[first.lead:] {
				if err := p.place([]unit{u}); err != nil {
					return nil, err
				}
			}
		}

		for _, c := range chunks[1:] {
			if err := p.placeChunk(c); err != nil {
				return nil, err
			}
		}
	}
	return doc, nil
}

func (e *Engine) sectionChunks(s Section) []chunk {
	if s.IsEmpty() {
		return nil
	}
	switch c := s.Content.(type) {
	case Paragraph:
		return e.paragraphChunks(c)
	case BulletList:
		return e.bulletChunks(c)
	case EntryList:
		return e.entryChunks(c)
	case Image:
		return []chunk{{units: []unit{e.imageUnit(c)}, lead: 1}}
	default:
		return nil
	}
}

func (e *Engine) headingUnit(text string) unit {
	st := e.theme.Heading
	if e.theme.UppercaseHeadings {
		text = strings.ToUpper(text)
	}
	u := unit{kind: BlockHeading, entry: -1}
	u.lines, u.height, u.err = e.textLines(text, st, AlignLeft, e.page.Margins.Left, e.page.ContentWidth(), 0)
	if e.theme.HeadingRule {
		u.rule = &Rule{
			X1:        e.page.Margins.Left,
			X2:        e.page.Margins.Left + e.page.ContentWidth(),
			Y:         u.height + 2,
			Thickness: 0.8,
			Color:     e.theme.Accent,
		}
		u.height += 4
	}
	return u
}

// textLines wraps text and stacks the lines from y. It returns the lines, the
// height they occupy and a failure reason when a glyph is wider than width.
func (e *Engine) textLines(text string, st Style, align Align, x, width, y float64) ([]Line, float64, string) {
	wrapped, ok := wrap(e.measure, text, st, width)
	lines := make([]Line, 0, len(wrapped))
	top := y
	for _, wl := range wrapped {
		lines = append(lines, placeLine(wl, st, align, x, width, y))
		y += st.Leading()
	}
	if !ok {
		return lines, y - top, fmt.Sprintf("text %q is wider than the %.1fpt content width", abbreviate(text), width)
	}
	return lines, y - top, ""
}

func placeLine(wl wrappedLine, st Style, align Align, x, width, y float64) Line {
	lx := x
	switch align {
	case AlignCenter:
		lx = x + (width-wl.width)/2
	case AlignRight:
		lx = x + width - wl.width
	}
	return Line{Text: wl.text, X: lx, Y: y, Baseline: y + st.baseline(), Width: wl.width, Style: st}
}

func (e *Engine) paragraphChunks(p Paragraph) []chunk {
	if p.Aside != nil {
		return []chunk{{units: []unit{e.asideUnit(p)}, lead: 1}}
	}

	left, width := e.page.Margins.Left, e.page.ContentWidth()
	var chunks []chunk
	for _, t := range p.Texts {
		if !hasText(t.Value) {
			continue
		}
		wrapped, ok := wrap(e.measure, t.Value, t.Style, width)
		for li, wl := range wrapped {
			u := unit{
				kind:   BlockLine,
				entry:  -1,
				height: t.Style.Leading(),
				lines:  []Line{placeLine(wl, t.Style, t.Align, left, width, 0)},
			}
			if li == 0 {
				if len(chunks) > 0 {
					u.gap = e.theme.ParagraphGap
				}
				if !ok {
					u.err = fmt.Sprintf("text %q is wider than the %.1fpt content width", abbreviate(t.Value), width)
				}
			}
			chunks = append(chunks, chunk{units: []unit{u}, lead: 1})
		}
	}
	return chunks
}

func (e *Engine) asideUnit(p Paragraph) unit {
	left, width := e.page.Margins.Left, e.page.ContentWidth()
	img := *p.Aside
	u := unit{kind: BlockLine, entry: -1}

	textWidth := width - img.Width - asideGap
	if textWidth <= 0 {
		u.err = fmt.Sprintf("aside image %.1fpt wide leaves no room for text", img.Width)
		return u
	}

	var y float64
	for _, t := range p.Texts {
		if !hasText(t.Value) {
			continue
		}
		if len(u.lines) > 0 {
			y += e.theme.ParagraphGap
		}
		lines, h, reason := e.textLines(t.Value, t.Style, t.Align, left, textWidth, y)
		if reason != "" && u.err == "" {
			u.err = reason
		}
		u.lines = append(u.lines, lines...)
		y += h
	}

	u.image = &ImageBox{Source: img.Source, X: left + width - img.Width, Y: 0, Width: img.Width, Height: img.Height}
	u.height = max(y, img.Height)
	return u
}

func (e *Engine) bulletUnit(item string, entry int) unit {
	st := e.theme.Body
	left, width := e.page.Margins.Left, e.page.ContentWidth()
	indent := e.theme.BulletIndent

	u := unit{kind: BlockBullet, entry: entry, gap: e.theme.BulletGap}
	u.lines, u.height, u.err = e.textLines(item, st, AlignLeft, left+indent, width-indent, 0)

	color := e.theme.Accent
	if color == "" {
		color = st.Color
	}
	u.marker = &Marker{X: left + indent*0.4, Y: st.Leading() / 2, Radius: st.Size * 0.16, Color: color}
	return u
}

func (e *Engine) bulletChunks(b BulletList) []chunk {
	var chunks []chunk
	for _, item := range b.Items {
		if !hasText(item) {
			continue
		}
		u := e.bulletUnit(item, -1)
		if len(chunks) == 0 {
			u.gap = 0
		}
		chunks = append(chunks, chunk{units: []unit{u}, lead: 1})
	}
	return chunks
}

func (e *Engine) entryHeader(en Entry, idx int) (unit, bool) {
	left, width := e.page.Margins.Left, e.page.ContentWidth()
	u := unit{kind: BlockEntryHeader, entry: idx}

	var y float64
	titleWidth := width
	var dates *Line
	if hasText(en.Dates) {
		dw := e.measure.TextWidth(en.Dates, e.theme.Meta)
		if hasText(en.Title) && dw < width/2 {
			// Dates share the first title row, right aligned.
			titleWidth = width - dw - 8
			dates = &Line{
				Text:     en.Dates,
				X:        left + width - dw,
				Baseline: e.theme.Title.baseline(),
				Width:    dw,
				Style:    e.theme.Meta,
			}
		} else {
			lines, h, reason := e.textLines(en.Dates, e.theme.Meta, AlignLeft, left, width, y)
			u.lines = append(u.lines, lines...)
			u.err = reason
			y += h
		}
	}
	if hasText(en.Title) {
		lines, h, reason := e.textLines(en.Title, e.theme.Title, AlignLeft, left, titleWidth, y)
		u.lines = append(u.lines, lines...)
		if u.err == "" {
			u.err = reason
		}
		y += h
	}
	if dates != nil {
		u.lines = append(u.lines, *dates)
	}
	if hasText(en.Subtitle) {
		lines, h, reason := e.textLines(en.Subtitle, e.theme.Meta, AlignLeft, left, width, y)
		u.lines = append(u.lines, lines...)
		if u.err == "" {
			u.err = reason
		}
		y += h
	}
	u.height = y
	return u, len(u.lines) > 0
}

func (e *Engine) entryChunks(list EntryList) []chunk {
	left, width := e.page.Margins.Left, e.page.ContentWidth()
	body := e.theme.Body

	chunks := make([]chunk, 0, len(list.Entries))
	for ei, en := range list.Entries {
		var units []unit
		header, ok := e.entryHeader(en, ei)
		if ok {
			units = append(units, header)
		}

		if hasText(en.Description) {
			wrapped, fits := wrap(e.measure, en.Description, body, width)
			for li, wl := range wrapped {
				u := unit{
					kind:   BlockLine,
					entry:  ei,
					height: body.Leading(),
					lines:  []Line{placeLine(wl, body, AlignLeft, left, width, 0)},
				}
				if li == 0 {
					u.gap = 2
					if !fits {
						u.err = fmt.Sprintf("text %q is wider than the %.1fpt content width", abbreviate(en.Description), width)
					}
				}
				units = append(units, u)
			}
		}

		firstBullet := true
		for _, item := range en.Bullets {
			if !hasText(item) {
				continue
			}
			u := e.bulletUnit(item, ei)
			if firstBullet {
				u.gap = e.theme.ParagraphGap
				firstBullet = false
			}
			units = append(units, u)
		}

		if len(units) == 0 {
			continue
		}
		units[0].gap = e.theme.EntryGap
		lead := 1
		if ok && len(units) > 1 {
			lead = 2
		}
		chunks = append(chunks, chunk{units: units, lead: lead})
	}
	if len(chunks) > 0 {
		chunks[0].units[0].gap = 0
	}
	return chunks
}

func (e *Engine) imageUnit(img Image) unit {
	left, width := e.page.Margins.Left, e.page.ContentWidth()
	u := unit{kind: BlockImage, entry: -1, height: img.Height}
	if img.Width > width+epsilon {
		u.err = fmt.Sprintf("image %.1fpt wide exceeds the %.1fpt content width", img.Width, width)
		return u
	}
	x := left
	switch img.Align {
	case AlignCenter:
		x = left + (width-img.Width)/2
	case AlignRight:
		x = left + width - img.Width
	}
	u.image = &ImageBox{Source: img.Source, X: x, Y: 0, Width: img.Width, Height: img.Height}
	return u
}

// stackHeight is the height of units stacked on one page. The gap of the
// first unit collapses at the top of a page.
func stackHeight(units []unit, atTop bool) float64 {
	var h float64
	for i, u := range units {
		if i > 0 || !atTop {
			h += u.gap
		}
		h += u.height
	}
	return h
}

func abbreviate(s string) string {
	const limit = 32
	r := []rune(strings.TrimSpace(s))
	if len(r) <= limit {
		return string(r)
	}
	return string(r[:limit]) + "..."
}
