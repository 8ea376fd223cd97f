package layout

import "fmt"

// pager tracks the running vertical offset while units are placed.
type pager struct {
	doc           *Document
	top           float64
	contentHeight float64
	cursor        float64
	next          int

	section     int
	sectionKind string
	sectionPage int
	lastPage    int
}

func newPager(doc *Document) *pager {
	p := &pager{
		doc:           doc,
		top:           doc.Page.Margins.Top,
		contentHeight: doc.Page.ContentHeight(),
	}
	p.newPage()
	return p
}

func (p *pager) newPage() {
	p.doc.Pages = append(p.doc.Pages, Page{Number: len(p.doc.Pages) + 1, Blocks: []Block{}})
	p.cursor = p.top
}

func (p *pager) current() *Page {
	return &p.doc.Pages[len(p.doc.Pages)-1]
}

func (p *pager) atTop() bool {
	return len(p.current().Blocks) == 0
}

func (p *pager) remaining() float64 {
	return p.top + p.contentHeight - p.cursor
}

func (p *pager) beginSection(idx int, kind string) {
	p.section = idx
	p.sectionKind = kind
	p.sectionPage = -1
	p.lastPage = -1
}

func (p *pager) fail(offset int, reason string) error {
	return &LayoutError{BlockIndex: p.next + offset, Section: p.section, SectionKind: p.sectionKind, Reason: reason}
}

// placeChunk keeps c on one page when an empty page can hold it, and
// otherwise places its lead units together and the rest one at a time.
func (p *pager) placeChunk(c chunk) error {
	if stackHeight(c.units, true) <= p.contentHeight+epsilon {
		return p.place(c.units)
	}
	if err := p.place(c.units[:c.lead]); err != nil {
		return err
	}
	for _, u := range c.units[c.lead:] {
		if err := p.place([]unit{u}); err != nil {
			return err
		}
	}
	return nil
}

// place puts units on the current page, opening a new page first when they
// do not fit the remaining space.
func (p *pager) place(units []unit) error {
	for i, u := range units {
		if u.err != "" {
			return p.fail(i, u.err)
		}
	}

	if stackHeight(units, p.atTop()) > p.remaining()+epsilon {
		if !p.atTop() {
			p.newPage()
		}
		if h := stackHeight(units, true); h > p.contentHeight+epsilon {
			return p.fail(0, fmt.Sprintf("content of height %.1fpt does not fit the %.1fpt page content height", h, p.contentHeight))
		}
	}

	for _, u := range units {
		if !p.atTop() {
			p.cursor += u.gap
		}
		p.put(u)
	}
	return nil
}

func (p *pager) put(u unit) {
	pageIdx := len(p.doc.Pages) - 1
	if p.sectionPage < 0 {
		p.sectionPage = pageIdx
	}
	continued := pageIdx != p.sectionPage && p.lastPage != pageIdx
	p.lastPage = pageIdx

	y := p.cursor
	b := Block{
		Index:       p.next,
		Kind:        u.kind,
		Section:     p.section,
		SectionKind: p.sectionKind,
		Entry:       u.entry,
		X:           p.doc.Page.Margins.Left,
		Y:           y,
		Width:       p.doc.Page.ContentWidth(),
		Height:      u.height,
		Continued:   continued,
	}
	if len(u.lines) > 0 {
		b.Lines = make([]Line, len(u.lines))
		for i, l := range u.lines {
			l.Y += y
			l.Baseline += y
			b.Lines[i] = l
		}
	}
	if u.image != nil {
		img := *u.image
		img.Y += y
		b.Image = &img
	}
	if u.rule != nil {
		r := *u.rule
		r.Y += y
		b.Rule = &r
	}
	if u.marker != nil {
		m := *u.marker
		m.Y += y
		b.Marker = &m
	}

	page := p.current()
	page.Blocks = append(page.Blocks, b)
	p.cursor += u.height
	p.next++
}
