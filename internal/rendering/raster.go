package rendering

import (
	"bytes"
	"context"
	"fmt"
	"image"

	"github.com/jonathan/cv-builder/internal/layout"
	"github.com/jung-kurt/gofpdf"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"
)

// DefaultDPI is the raster resolution used when none is configured.
const DefaultDPI = 150

// Rasterizer paints a whole document onto one tall canvas: pages are stacked
// top to bottom, each exactly page-height pixels at the requested DPI.
type Rasterizer interface {
	Name() string
	Rasterize(ctx context.Context, doc *layout.Document, dpi float64) (image.Image, error)
}

// RasterBackend rasterizes the document, slices the canvas into pages and
// embeds each slice in a PDF page at 1:1 physical scale. Text is not selectable.
type RasterBackend struct {
	rasterizer Rasterizer
	dpi        float64
	workers    int
	opts       options
}

// RasterOption configures a RasterBackend.
type RasterOption func(*RasterBackend)

// WithDPI sets the rasterization resolution.
func WithDPI(dpi float64) RasterOption {
	return func(b *RasterBackend) {
		if dpi > 0 {
			b.dpi = dpi
		}
	}
}

// WithEncodeWorkers bounds how many page slices are PNG-encoded at once.
func WithEncodeWorkers(n int) RasterOption {
	return func(b *RasterBackend) {
		if n > 0 {
			b.workers = n
		}
	}
}

// WithPDFOptions applies shared PDF options such as Deterministic.
func WithPDFOptions(opts ...Option) RasterOption {
	return func(b *RasterBackend) {
		b.opts = newOptions(opts)
	}
}

// NewRasterBackend creates a raster backend painting with r.
func NewRasterBackend(r Rasterizer, opts ...RasterOption) *RasterBackend {
	b := &RasterBackend{rasterizer: r, dpi: DefaultDPI, workers: 4, opts: newOptions(nil)}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Name implements Backend.
func (b *RasterBackend) Name() string {
	return RasterName
}

// Render implements Backend.
func (b *RasterBackend) Render(ctx context.Context, doc *layout.Document) (*Output, error) {
	canvas, err := b.rasterizer.Rasterize(ctx, doc, b.dpi)
	if err != nil {
		return nil, &BackendError{Backend: b.Name(), Message: b.rasterizer.Name() + " rasterizer failed", Cause: err}
	}

	slices, err := b.encodeSlices(ctx, canvas, len(doc.Pages), pagePixels(doc.Page.Height, b.dpi))
	if err != nil {
		return nil, &BackendError{Backend: b.Name(), Message: "encode page images", Cause: err}
	}

	wmm, hmm := ptToMM(doc.Page.Width), ptToMM(doc.Page.Height)
	pdf := newPDF("mm", wmm, hmm, b.opts)
	opt := gofpdf.ImageOptions{ImageType: "PNG"}
	for i, data := range slices {
		if err := ctx.Err(); err != nil {
			return nil, &BackendError{Backend: b.Name(), Message: "render cancelled", Cause: err}
		}
		name := fmt.Sprintf("page%d", i+1)
		pdf.AddPage()
		pdf.RegisterImageOptionsReader(name, opt, bytes.NewReader(data))
		pdf.ImageOptions(name, 0, 0, wmm, hmm, false, opt, 0, "")
		if err := pdf.Error(); err != nil {
			return nil, &BackendError{Backend: b.Name(), Message: fmt.Sprintf("embed page %d", i+1), Cause: err}
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, &BackendError{Backend: b.Name(), Message: "write pdf", Cause: err}
	}
	return &Output{PDF: buf.Bytes(), Pages: len(slices)}, nil
}

// encodeSlices cuts the canvas into page-height slices and encodes them concurrently.
func (b *RasterBackend) encodeSlices(ctx context.Context, canvas image.Image, pages, pageH int) ([][]byte, error) {
	bounds := canvas.Bounds()
	if pages == 0 || pageH <= 0 {
		return nil, fmt.Errorf("nothing to slice")
	}
	if bounds.Dy() < pages*pageH {
		return nil, fmt.Errorf("canvas is %dpx tall, %d pages need %dpx", bounds.Dy(), pages, pages*pageH)
	}

	out := make([][]byte, pages)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)
	for i := 0; i < pages; i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rect := image.Rect(bounds.Min.X, bounds.Min.Y+i*pageH, bounds.Max.X, bounds.Min.Y+(i+1)*pageH)
			data, err := encodePNG(slice(canvas, rect))
			if err != nil {
				return fmt.Errorf("page %d: %w", i+1, err)
			}
			out[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

func slice(img image.Image, rect image.Rectangle) image.Image {
	if s, ok := img.(subImager); ok {
		return s.SubImage(rect)
	}
	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	xdraw.Draw(dst, dst.Bounds(), img, rect.Min, xdraw.Src)
	return dst
}
