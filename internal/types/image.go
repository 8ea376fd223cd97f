package types

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/jpeg" // register JPEG for DecodeConfig
	_ "image/png"  // register PNG for DecodeConfig
	"strings"
)

// MaxImagePixels bounds the decoded size of photos and signatures (4096x4096).
const MaxImagePixels = 4096 * 4096

// ImageData is a decoded inline image with its intrinsic pixel size.
type ImageData struct {
	Format string // "png" or "jpeg"
	Data   []byte
	Width  int
	Height int
}

// DecodeImage parses a "data:image/png;base64,..." or "data:image/jpeg;base64,..." reference.
// Remote URLs are not accepted: rendering never performs network I/O. Only the
// header is read, so images above MaxImagePixels are rejected before decoding.
func DecodeImage(ref string) (*ImageData, error) {
	if !strings.HasPrefix(ref, "data:") {
		return nil, fmt.Errorf("must be a data URI")
	}
	header, payload, ok := strings.Cut(strings.TrimPrefix(ref, "data:"), ",")
	if !ok {
		return nil, fmt.Errorf("malformed data URI")
	}
	mediaType, encoding, _ := strings.Cut(header, ";")
	if encoding != "base64" {
		return nil, fmt.Errorf("data URI must be base64 encoded")
	}

	var format string
	switch mediaType {
	case "image/png":
		format = "png"
	case "image/jpeg", "image/jpg":
		format = "jpeg"
	default:
		return nil, fmt.Errorf("unsupported image type %q", mediaType)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 payload: %w", err)
	}
	cfg, decoded, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("unreadable image: %w", err)
	}
	if decoded != format {
		return nil, fmt.Errorf("declared %s but found %s", format, decoded)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return nil, fmt.Errorf("image has no pixels")
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxImagePixels {
		return nil, fmt.Errorf("image is %dx%d pixels, above the %d pixel limit", cfg.Width, cfg.Height, MaxImagePixels)
	}

	return &ImageData{Format: format, Data: data, Width: cfg.Width, Height: cfg.Height}, nil
}
