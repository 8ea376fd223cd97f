package rendering

import (
	"context"
	"image/color"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/cv-builder/internal/layout"
	"github.com/jung-kurt/gofpdf"
)

// Backend names.
const (
	PrimitiveName = "primitive"
	RasterName    = "raster"
)

// Output is a finished PDF.
type Output struct {
	PDF   []byte
	Pages int
}

// Backend materializes a laid-out document. Implementations never return
// partial output: on error the Output is nil.
type Backend interface {
	Name() string
	Render(ctx context.Context, doc *layout.Document) (*Output, error)
}

type options struct {
	title        string
	creator      string
	creationDate time.Time
}

// Option configures a backend.
type Option func(*options)

// WithTitle sets the PDF document title.
func WithTitle(title string) Option {
	return func(o *options) {
		o.title = title
	}
}

// WithCreator sets the PDF creator field.
func WithCreator(creator string) Option {
	return func(o *options) {
		o.creator = creator
	}
}

// Deterministic pins the PDF creation date so identical layouts produce identical bytes.
func Deterministic() Option {
	return func(o *options) {
		o.creationDate = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)
	}
}

func newOptions(opts []Option) options {
	o := options{creator: "cv-builder"}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// newPDF creates a document with no margins or automatic breaks: every
// position comes from the layout.
func newPDF(unit string, width, height float64, o options) *gofpdf.Fpdf {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        unit,
		Size:           gofpdf.SizeType{Wd: width, Ht: height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator(o.creator, true)
	if o.title != "" {
		pdf.SetTitle(o.title, true)
	}
	if !o.creationDate.IsZero() {
		pdf.SetCreationDate(o.creationDate)
	}
	return pdf
}

// parseColor reads "#rrggbb" or "#rgb". Anything else is black.
func parseColor(hex string) color.RGBA {
	black := color.RGBA{A: 0xff}
	s := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return black
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return black
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}

// ptToMM converts PDF points to millimetres.
func ptToMM(pt float64) float64 {
	return pt * 25.4 / 72
}
