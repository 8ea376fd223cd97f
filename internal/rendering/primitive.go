package rendering

import (
	"bytes"
	"context"
	"fmt"

	"github.com/jonathan/cv-builder/internal/fontmetrics"
	"github.com/jonathan/cv-builder/internal/layout"
	"github.com/jung-kurt/gofpdf"
)

// PrimitiveBackend draws every block as PDF text, line, disc and image
// operations at the positions the layout computed. Text stays selectable.
// Widths match fontmetrics.Core, so lines wrapped with that measurer fit.
// Lines outside cp1252 are drawn with the embedded Go fonts; a character
// those fonts lack fails the render with ErrUnsupportedGlyph.
type PrimitiveBackend struct {
	opts options
}

// NewPrimitiveBackend creates a primitive backend.
func NewPrimitiveBackend(opts ...Option) *PrimitiveBackend {
	return &PrimitiveBackend{opts: newOptions(opts)}
}

// Name implements Backend.
func (b *PrimitiveBackend) Name() string {
	return PrimitiveName
}

// Render implements Backend.
func (b *PrimitiveBackend) Render(ctx context.Context, doc *layout.Document) (*Output, error) {
	pdf := newPDF("pt", doc.Page.Width, doc.Page.Height, b.opts)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	d := &primitiveDrawer{pdf: pdf, tr: tr, cache: newImageCache(), names: map[string]string{}}

	for _, page := range doc.Pages {
		if err := ctx.Err(); err != nil {
			return nil, &BackendError{Backend: b.Name(), Message: "render cancelled", Cause: err}
		}
		pdf.AddPage()
		for _, block := range page.Blocks {
			if err := d.block(block); err != nil {
				return nil, &BackendError{Backend: b.Name(), Message: fmt.Sprintf("draw block %d", block.Index), Cause: err}
			}
		}
		if err := pdf.Error(); err != nil {
			return nil, &BackendError{Backend: b.Name(), Message: fmt.Sprintf("draw page %d", page.Number), Cause: err}
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, &BackendError{Backend: b.Name(), Message: "write pdf", Cause: err}
	}
	return &Output{PDF: buf.Bytes(), Pages: len(doc.Pages)}, nil
}

type primitiveDrawer struct {
	pdf   *gofpdf.Fpdf
	tr    func(string) string
	cache *imageCache
	names map[string]string
}

func (d *primitiveDrawer) block(b layout.Block) error {
	if b.Rule != nil {
		c := parseColor(b.Rule.Color)
		d.pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
		d.pdf.SetLineWidth(b.Rule.Thickness)
		d.pdf.Line(b.Rule.X1, b.Rule.Y, b.Rule.X2, b.Rule.Y)
	}
	if b.Marker != nil {
		c := parseColor(b.Marker.Color)
		d.pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
		d.pdf.Circle(b.Marker.X, b.Marker.Y, b.Marker.Radius, "F")
	}
	for _, l := range b.Lines {
		text := l.Text
		if fontmetrics.Encodable(text) {
			d.pdf.SetFont(fontmetrics.Family(l.Style.Font), fontmetrics.StyleString(l.Style), l.Style.Size)
			text = d.tr(text)
		} else {
			if err := checkGlyphs(text, l.Style); err != nil {
				return err
			}
			fontmetrics.SetUnicodeFont(d.pdf, l.Style)
		}
		c := parseColor(l.Style.Color)
		d.pdf.SetTextColor(int(c.R), int(c.G), int(c.B))
		d.pdf.Text(l.X, l.Baseline, text)
	}
	if b.Image != nil {
		return d.image(*b.Image)
	}
	return nil
}

func (d *primitiveDrawer) image(box layout.ImageBox) error {
	name, ok := d.names[box.Source]
	if !ok {
		img, err := d.cache.get(box.Source)
		if err != nil {
			return err
		}
		data, err := encodePNG(img)
		if err != nil {
			return err
		}
		name = fmt.Sprintf("img%d", len(d.names))
		d.pdf.RegisterImageOptionsReader(name, gofpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(data))
		if err := d.pdf.Error(); err != nil {
			return err
		}
		d.names[box.Source] = name
	}
	d.pdf.ImageOptions(name, box.X, box.Y, box.Width, box.Height, false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	return nil
}
