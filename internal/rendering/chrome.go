package rendering

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"log"
	"math"
	"os"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/jonathan/cv-builder/internal/layout"
	xdraw "golang.org/x/image/draw"
)

// ChromeRasterizer screenshots PageHTML in headless Chrome. It reproduces the
// browser preview exactly but needs Chrome or Chromium installed.
type ChromeRasterizer struct {
	// ExecPath overrides the browser binary; CHROME_PATH is used when empty.
	ExecPath string
	Timeout  time.Duration
	Verbose  bool
}

// Name implements Rasterizer.
func (c *ChromeRasterizer) Name() string {
	return "chrome"
}

// Rasterize implements Rasterizer.
func (c *ChromeRasterizer) Rasterize(ctx context.Context, doc *layout.Document, dpi float64) (image.Image, error) {
	html, err := PageHTML(doc)
	if err != nil {
		return nil, err
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("hide-scrollbars", true),
	)
	execPath := c.ExecPath
	if execPath == "" {
		execPath = os.Getenv("CHROME_PATH")
	}
	if execPath != "" {
		opts = append(opts, chromedp.ExecPath(execPath))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	browserCtx, cancel = context.WithTimeout(browserCtx, timeout)
	defer cancel()

	// Layout points are 4/3 CSS pixels; the device scale brings them to dpi.
	viewW := int64(math.Ceil(doc.Page.Width * 96 / 72))
	viewH := int64(math.Ceil(doc.Page.Height * 96 / 72))

	if c.Verbose {
		log.Printf("[RASTER] Chrome screenshot of %d pages at %.0f dpi", len(doc.Pages), dpi)
	}

	var shot []byte
	err = chromedp.Run(browserCtx,
		chromedp.EmulateViewport(viewW, viewH, chromedp.EmulateScale(dpi/96)),
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body"),
		chromedp.FullScreenshot(&shot, 100),
	)
	if err != nil {
		return nil, fmt.Errorf("browser screenshot failed: %w", err)
	}

	img, err := png.Decode(bytes.NewReader(shot))
	if err != nil {
		return nil, fmt.Errorf("decode screenshot: %w", err)
	}

	// Browser rounding can leave the capture a pixel off; pin it to the page grid.
	want := image.Rect(0, 0, pagePixels(doc.Page.Width, dpi), pagePixels(doc.Page.Height, dpi)*len(doc.Pages))
	if img.Bounds().Size() == want.Size() {
		return img, nil
	}
	dst := image.NewRGBA(want)
	xdraw.ApproxBiLinear.Scale(dst, want, img, img.Bounds(), xdraw.Src, nil)
	return dst, nil
}
