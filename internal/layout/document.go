package layout

import (
	"fmt"
	"sort"
	"strings"
)

// Document is the paginated output of the engine. It is plain data: backends
// draw it, and it serializes to JSON for previews.
type Document struct {
	Page  PageSpec `json:"page"`
	Pages []Page   `json:"pages"`
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int {
	return len(d.Pages)
}

// Blocks returns every block in reading order.
func (d *Document) Blocks() []Block {
	var out []Block
	for _, p := range d.Pages {
		out = append(out, p.Blocks...)
	}
	return out
}

// Count returns the number of blocks of the given kind.
func (d *Document) Count(kind BlockKind) int {
	n := 0
	for _, p := range d.Pages {
		for _, b := range p.Blocks {
			if b.Kind == kind {
				n++
			}
		}
	}
	return n
}

// ContentUnits returns the number of line and bullet blocks. Each is one unit
// of content the pager may move to the next page on its own.
func (d *Document) ContentUnits() int {
	return d.Count(BlockLine) + d.Count(BlockBullet)
}

// Words returns the words of every line in block order.
func (d *Document) Words() []string {
	var out []string
	for _, p := range d.Pages {
		for _, b := range p.Blocks {
			for _, l := range b.Lines {
				out = append(out, strings.Fields(l.Text)...)
			}
		}
	}
	return out
}

// Sections returns the distinct section indexes present, in order.
func (d *Document) Sections() []int {
	seen := map[int]bool{}
	var out []int
	for _, b := range d.Blocks() {
		if !seen[b.Section] {
			seen[b.Section] = true
			out = append(out, b.Section)
		}
	}
	return out
}

// Summary is a one-line description such as "2 pages, 14 blocks (bullet=9 heading=3 line=2)".
func (d *Document) Summary() string {
	counts := map[BlockKind]int{}
	total := 0
	for _, b := range d.Blocks() {
		counts[b.Kind]++
		total++
	}
	kinds := make([]string, 0, len(counts))
	for k, n := range counts {
		kinds = append(kinds, fmt.Sprintf("%s=%d", k, n))
	}
	sort.Strings(kinds)

	noun := "pages"
	if len(d.Pages) == 1 {
		noun = "page"
	}
	return fmt.Sprintf("%d %s, %d blocks (%s)", len(d.Pages), noun, total, strings.Join(kinds, " "))
}
