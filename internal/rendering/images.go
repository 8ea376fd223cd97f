package rendering

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // register JPEG for image.Decode
	"image/png"

	"github.com/jonathan/cv-builder/internal/types"
	xdraw "golang.org/x/image/draw"
)

// imageCache decodes each distinct data URI once per render.
type imageCache struct {
	decoded map[string]image.Image
}

func newImageCache() *imageCache {
	return &imageCache{decoded: make(map[string]image.Image)}
}

func (c *imageCache) get(source string) (image.Image, error) {
	if img, ok := c.decoded[source]; ok {
		return img, nil
	}
	data, err := types.DecodeImage(source)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data.Data))
	if err != nil {
		return nil, fmt.Errorf("decode %s image: %w", data.Format, err)
	}
	c.decoded[source] = img
	return img, nil
}

// encodePNG re-encodes img as an 8-bit non-interlaced RGBA PNG, the only
// PNG flavour every PDF writer embeds without conversion.
func encodePNG(img image.Image) ([]byte, error) {
	switch img.(type) {
	case *image.NRGBA, *image.RGBA:
	default:
		b := img.Bounds()
		dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		xdraw.Draw(dst, dst.Bounds(), img, b.Min, xdraw.Src)
		img = dst
	}
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
