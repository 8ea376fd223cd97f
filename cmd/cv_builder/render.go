package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/cv-builder/internal/config"
	"github.com/jonathan/cv-builder/internal/observability"
	"github.com/jonathan/cv-builder/internal/pipeline"
	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a CV or cover letter to PDF",
	Long: `Renders a CV or cover letter JSON file to PDF.

The document kind is detected from the file unless --kind is given. Settings
can be loaded from a JSON config file with --config; explicit flags override
config file values.`,
	RunE: runRender,
}

var (
	renderConfigFile    string
	renderInput         string
	renderOutput        string
	renderKind          string
	renderTemplate      string
	renderBackend       string
	renderRasterizer    string
	renderChromePath    string
	renderDPI           float64
	renderTimeout       int
	renderDeterministic bool
	renderVerbose       bool
)

func init() {
	renderCmd.Flags().StringVar(&renderConfigFile, "config", "", "Path to JSON config file")
	renderCmd.Flags().StringVarP(&renderInput, "in", "i", "", "Path to CV or cover letter JSON file (required)")
	renderCmd.Flags().StringVarP(&renderOutput, "out", "o", "", "Path to output PDF (default: input path with .pdf)")
	renderCmd.Flags().StringVar(&renderKind, "kind", "", "Document kind: cv or letter (default: detected)")
	renderCmd.Flags().StringVarP(&renderTemplate, "template", "t", "", "Template ID (default: the document's own template)")
	renderCmd.Flags().StringVarP(&renderBackend, "backend", "b", "", "Renderer backend: primitive or raster")
	renderCmd.Flags().StringVar(&renderRasterizer, "rasterizer", "", "Raster painter: native or chrome")
	renderCmd.Flags().StringVar(&renderChromePath, "chrome-path", "", "Browser executable for the chrome rasterizer")
	renderCmd.Flags().Float64Var(&renderDPI, "dpi", 0, "Raster resolution")
	renderCmd.Flags().IntVar(&renderTimeout, "timeout", 0, "Render timeout in seconds")
	renderCmd.Flags().BoolVar(&renderDeterministic, "deterministic", false, "Produce byte-identical PDFs for identical input")
	renderCmd.Flags().BoolVarP(&renderVerbose, "verbose", "v", false, "Print document, layout and result summaries")

	if err := renderCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}

	rootCmd.AddCommand(renderCmd)
}

// loadCLIConfig reads path when set and validates it; an empty path yields an
// empty config.
func loadCLIConfig(path string) (*config.Config, error) {
	if path == "" {
		return &config.Config{}, nil
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runRender(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadCLIConfig(renderConfigFile)
	if err != nil {
		return err
	}

	// Explicit flags override config file values
	if cmd.Flags().Changed("template") {
		fileCfg.Template = renderTemplate
	}
	if cmd.Flags().Changed("backend") {
		fileCfg.Backend = renderBackend
	}
	if cmd.Flags().Changed("rasterizer") {
		fileCfg.Rasterizer = renderRasterizer
	}
	if cmd.Flags().Changed("chrome-path") {
		fileCfg.ChromePath = renderChromePath
	}
	if cmd.Flags().Changed("dpi") {
		fileCfg.DPI = renderDPI
	}
	if cmd.Flags().Changed("timeout") {
		fileCfg.TimeoutSeconds = renderTimeout
	}
	if renderVerbose {
		fileCfg.Verbose = true
	}
	if err := fileCfg.Validate(); err != nil {
		return err
	}
	cfg := fileCfg.MergeWithDefaults(cliDefaults)

	job, err := readJob(renderInput, renderKind)
	if err != nil {
		return fmt.Errorf("invalid input: %w", err)
	}
	job.TemplateID = cfg.Template

	out := cmd.OutOrStdout()
	printer := observability.NewPrinter(out)
	if cfg.Verbose {
		printer.PrintDocument(job.Document)
	}

	renderer := newRenderer(fromConfig(cfg, renderDeterministic))
	res, err := renderer.Run(context.Background(), job)
	if err != nil {
		return fmt.Errorf("render failed (%s): %w", pipeline.Kind(err), err)
	}

	outputPath := renderOutput
	if outputPath == "" {
		outputPath = pdfPath(renderInput)
	}
	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(outputPath, res.PDF, 0644); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}

	if cfg.Verbose {
		printer.PrintLayout(res.Layout)
		printer.PrintResult(res)
	}
	_, _ = fmt.Fprintf(out, "Rendered %d page(s) with %s to %s\n", res.Pages, res.Backend, outputPath)
	return nil
}
