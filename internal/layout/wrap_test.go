package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap(t *testing.T) {
	style := Style{Size: 10} // 5pt per rune with fixedMeasurer

	tests := []struct {
		name     string
		text     string
		maxWidth float64
		want     []string
		wantOK   bool
	}{
		{name: "fits", text: "hello world", maxWidth: 100, want: []string{"hello world"}, wantOK: true},
		{name: "word wrap", text: "hello brave new world", maxWidth: 60, want: []string{"hello brave", "new world"}, wantOK: true},
		{name: "collapses spaces", text: "  a   b  ", maxWidth: 100, want: []string{"a b"}, wantOK: true},
		{name: "hard breaks", text: "first\nsecond", maxWidth: 100, want: []string{"first", "second"}, wantOK: true},
		{name: "long word split", text: "abcdefghij", maxWidth: 20, want: []string{"abcd", "efgh", "ij"}, wantOK: true},
		{name: "long word after text", text: "ab abcdefgh", maxWidth: 20, want: []string{"ab", "abcd", "efgh"}, wantOK: true},
		{name: "glyph wider than line", text: "ab", maxWidth: 4, want: []string{"a", "b"}, wantOK: false},
		{name: "empty", text: "   ", maxWidth: 100, want: nil, wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines, ok := wrap(fixedMeasurer{}, tt.text, style, tt.maxWidth)
			var got []string
			for _, l := range lines {
				got = append(got, l.text)
				if tt.wantOK {
					assert.LessOrEqual(t, l.width, tt.maxWidth)
				}
			}
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestPageSpec(t *testing.T) {
	p := A4(40)
	assert.InDelta(t, A4Width-80, p.ContentWidth(), 1e-9)
	assert.InDelta(t, A4Height-80, p.ContentHeight(), 1e-9)
	assert.NoError(t, p.Validate())
	assert.Error(t, PageSpec{}.Validate())
	assert.Error(t, PageSpec{Width: 10, Height: 10, Margins: Margins{Top: 6, Bottom: 6}}.Validate())
}

func TestStyleLeading(t *testing.T) {
	assert.InDelta(t, 12.5, Style{Size: 10}.Leading(), 1e-9)
	assert.InDelta(t, 15, Style{Size: 10, LineHeight: 1.5}.Leading(), 1e-9)
}

func TestDocumentSummary(t *testing.T) {
	doc := &Document{Pages: []Page{{Number: 1, Blocks: []Block{{Kind: BlockHeading}, {Kind: BlockBullet}, {Kind: BlockBullet}}}}}
	assert.Equal(t, "1 page, 3 blocks (bullet=2 heading=1)", doc.Summary())
}
