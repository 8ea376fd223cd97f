package main

import (
	"time"

	"github.com/jonathan/cv-builder/internal/config"
	"github.com/jonathan/cv-builder/internal/pipeline"
	"github.com/jonathan/cv-builder/internal/rendering"
)

// cliDefaults fills what neither the config file nor the flags set.
var cliDefaults = config.Config{
	Backend:        rendering.PrimitiveName,
	Rasterizer:     config.RasterizerNative,
	DPI:            rendering.DefaultDPI,
	TimeoutSeconds: int(pipeline.DefaultTimeout / time.Second),
}

// rendererOptions describe how to build a pipeline.Renderer.
type rendererOptions struct {
	Backend       string
	Rasterizer    string
	ChromePath    string
	DPI           float64
	Timeout       time.Duration
	Verbose       bool
	Deterministic bool
}

// newRenderer builds a renderer whose raster backend uses the configured
// rasterizer and resolution.
func newRenderer(o rendererOptions) *pipeline.Renderer {
	var rasterizer rendering.Rasterizer = rendering.NativeRasterizer{}
	if o.Rasterizer == config.RasterizerChrome {
		rasterizer = &rendering.ChromeRasterizer{ExecPath: o.ChromePath, Timeout: o.Timeout, Verbose: o.Verbose}
	}

	var pdfOpts []rendering.Option
	if o.Deterministic {
		pdfOpts = append(pdfOpts, rendering.Deterministic())
	}

	rasterOpts := []rendering.RasterOption{rendering.WithPDFOptions(pdfOpts...)}
	if o.DPI > 0 {
		rasterOpts = append(rasterOpts, rendering.WithDPI(o.DPI))
	}

	opts := []pipeline.Option{
		pipeline.WithBackend(rendering.NewPrimitiveBackend(pdfOpts...)),
		pipeline.WithBackend(rendering.NewRasterBackend(rasterizer, rasterOpts...)),
	}
	if o.Backend != "" {
		opts = append(opts, pipeline.WithDefaultBackend(o.Backend))
	}
	if o.Timeout > 0 {
		opts = append(opts, pipeline.WithTimeout(o.Timeout))
	}
	return pipeline.New(opts...)
}

// fromConfig maps a merged CLI configuration onto renderer options.
func fromConfig(cfg config.Config, deterministic bool) rendererOptions {
	return rendererOptions{
		Backend:       cfg.Backend,
		Rasterizer:    cfg.Rasterizer,
		ChromePath:    cfg.ChromePath,
		DPI:           cfg.DPI,
		Timeout:       cfg.Timeout(),
		Verbose:       cfg.Verbose,
		Deterministic: deterministic,
	}
}
