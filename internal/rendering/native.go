package rendering

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/jonathan/cv-builder/internal/fontmetrics"
	"github.com/jonathan/cv-builder/internal/layout"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	xdraw "golang.org/x/image/draw"
)

// NativeRasterizer paints layouts in-process with the Go fonts. It needs no
// external browser; glyph shapes differ slightly from the PDF core fonts but
// every line sits at the position the layout computed.
type NativeRasterizer struct{}

// Name implements Rasterizer.
func (NativeRasterizer) Name() string {
	return "native"
}

// Rasterize implements Rasterizer.
func (NativeRasterizer) Rasterize(ctx context.Context, doc *layout.Document, dpi float64) (image.Image, error) {
	scale := dpi / 72
	pageH := pagePixels(doc.Page.Height, dpi)
	width := pagePixels(doc.Page.Width, dpi)
	canvas := image.NewRGBA(image.Rect(0, 0, width, pageH*len(doc.Pages)))
	xdraw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, xdraw.Src)

	p := &painter{
		canvas: canvas,
		scale:  scale,
		faces:  make(map[faceKey]font.Face),
		images: newImageCache(),
	}
	defer p.close()

	for i, page := range doc.Pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p.offset = float64(i * pageH)
		for _, b := range page.Blocks {
			if err := p.block(b); err != nil {
				return nil, fmt.Errorf("block %d: %w", b.Index, err)
			}
		}
	}
	return canvas, nil
}

// pagePixels converts a length in points to whole pixels at dpi.
func pagePixels(pt, dpi float64) int {
	return int(math.Round(pt * dpi / 72))
}

type faceKey struct {
	family string
	style  string
	size   float64
}

type painter struct {
	canvas *image.RGBA
	scale  float64
	offset float64
	faces  map[faceKey]font.Face
	images *imageCache
}

func (p *painter) close() {
	for _, f := range p.faces {
		f.Close()
	}
}

func (p *painter) face(st layout.Style) (font.Face, error) {
	key := faceKey{family: fontmetrics.UnicodeFamily(st), style: fontmetrics.StyleString(st), size: st.Size}
	if f, ok := p.faces[key]; ok {
		return f, nil
	}
	otf, err := fontmetrics.GoFont(key.family, key.style)
	if err != nil {
		return nil, err
	}
	f, err := opentype.NewFace(otf, &opentype.FaceOptions{
		Size:    st.Size * p.scale,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, err
	}
	p.faces[key] = f
	return f, nil
}

func (p *painter) px(v float64) int {
	return int(math.Round(v * p.scale))
}

func (p *painter) y(v float64) int {
	return int(math.Round(v*p.scale + p.offset))
}

func (p *painter) block(b layout.Block) error {
	if r := b.Rule; r != nil {
		half := max(r.Thickness*p.scale/2, 0.5)
		rect := image.Rect(p.px(r.X1), int(math.Floor(float64(p.y(r.Y))-half)), p.px(r.X2), int(math.Ceil(float64(p.y(r.Y))+half)))
		xdraw.Draw(p.canvas, rect, image.NewUniform(parseColor(r.Color)), image.Point{}, xdraw.Src)
	}
	if m := b.Marker; m != nil {
		p.disc(m.X*p.scale, m.Y*p.scale+p.offset, m.Radius*p.scale, parseColor(m.Color))
	}
	for _, l := range b.Lines {
		if err := checkGlyphs(l.Text, l.Style); err != nil {
			return err
		}
		face, err := p.face(l.Style)
		if err != nil {
			return err
		}
		d := font.Drawer{
			Dst:  p.canvas,
			Src:  image.NewUniform(parseColor(l.Style.Color)),
			Face: face,
			Dot:  fixed.P(p.px(l.X), p.y(l.Baseline)),
		}
		d.DrawString(l.Text)
	}
	if box := b.Image; box != nil {
		img, err := p.images.get(box.Source)
		if err != nil {
			return err
		}
		dst := image.Rect(p.px(box.X), p.y(box.Y), p.px(box.X+box.Width), p.y(box.Y+box.Height))
		xdraw.CatmullRom.Scale(p.canvas, dst, img, img.Bounds(), xdraw.Over, nil)
	}
	return nil
}

// disc fills a circle centred on (cx, cy) in canvas pixels.
func (p *painter) disc(cx, cy, r float64, c color.RGBA) {
	r = max(r, 1)
	for y := int(math.Floor(cy - r)); y <= int(math.Ceil(cy+r)); y++ {
		for x := int(math.Floor(cx - r)); x <= int(math.Ceil(cx+r)); x++ {
			dx, dy := float64(x)+0.5-cx, float64(y)+0.5-cy
			if dx*dx+dy*dy <= r*r {
				p.canvas.SetRGBA(x, y, c)
			}
		}
	}
}
