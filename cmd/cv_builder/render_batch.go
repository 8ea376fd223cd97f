package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/cv-builder/internal/observability"
	"github.com/jonathan/cv-builder/internal/pipeline"
	"github.com/spf13/cobra"
)

var renderBatchCmd = &cobra.Command{
	Use:   "render-batch [files...]",
	Short: "Render many documents in parallel",
	Long: `Renders every given CV or cover letter JSON file to a PDF in --out-dir.

Documents are independent: a failing document is reported and the others are
still rendered. The command fails when at least one document failed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRenderBatch,
}

var (
	batchConfigFile string
	batchOutDir     string
	batchTemplate   string
	batchBackend    string
	batchWorkers    int
	batchTimeout    int
)

func init() {
	renderBatchCmd.Flags().StringVar(&batchConfigFile, "config", "", "Path to JSON config file")
	renderBatchCmd.Flags().StringVarP(&batchOutDir, "out-dir", "o", "", "Directory for the rendered PDFs (required)")
	renderBatchCmd.Flags().StringVarP(&batchTemplate, "template", "t", "", "Template ID applied to every document")
	renderBatchCmd.Flags().StringVarP(&batchBackend, "backend", "b", "", "Renderer backend: primitive or raster")
	renderBatchCmd.Flags().IntVarP(&batchWorkers, "workers", "w", 0, "Number of documents rendered at once")
	renderBatchCmd.Flags().IntVar(&batchTimeout, "timeout", 0, "Per-document timeout in seconds")

	if err := renderBatchCmd.MarkFlagRequired("out-dir"); err != nil {
		panic(fmt.Sprintf("failed to mark out-dir flag as required: %v", err))
	}

	rootCmd.AddCommand(renderBatchCmd)
}

func runRenderBatch(cmd *cobra.Command, args []string) error {
	fileCfg, err := loadCLIConfig(batchConfigFile)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("template") {
		fileCfg.Template = batchTemplate
	}
	if cmd.Flags().Changed("backend") {
		fileCfg.Backend = batchBackend
	}
	if cmd.Flags().Changed("workers") {
		fileCfg.Workers = batchWorkers
	}
	if cmd.Flags().Changed("timeout") {
		fileCfg.TimeoutSeconds = batchTimeout
	}
	if err := fileCfg.Validate(); err != nil {
		return err
	}
	cfg := fileCfg.MergeWithDefaults(cliDefaults)

	if err := os.MkdirAll(batchOutDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	// Unreadable files are reported alongside render failures.
	var jobs []pipeline.Job
	var results []pipeline.BatchResult
	for _, path := range args {
		job, err := readJob(path, "")
		if err != nil {
			results = append(results, pipeline.BatchResult{ID: filepath.Base(path), Err: err})
			continue
		}
		job.TemplateID = cfg.Template
		jobs = append(jobs, job)
	}

	renderer := newRenderer(fromConfig(cfg, false))
	rendered, err := renderer.RenderBatch(context.Background(), jobs, cfg.Workers)
	if err != nil {
		return fmt.Errorf("batch interrupted: %w", err)
	}

	var failures []error
	for i, r := range rendered {
		if r.Err != nil {
			continue
		}
		name := strings.TrimSuffix(r.ID, filepath.Ext(r.ID)) + ".pdf"
		if err := os.WriteFile(filepath.Join(batchOutDir, name), r.Result.PDF, 0644); err != nil {
			rendered[i].Err = fmt.Errorf("failed to write PDF: %w", err)
		}
	}
	results = append(results, rendered...)
	for _, r := range results {
		if r.Err != nil {
			failures = append(failures, fmt.Errorf("%s: %w", r.ID, r.Err))
		}
	}

	observability.NewPrinter(cmd.OutOrStdout()).PrintBatch(results)

	if len(failures) > 0 {
		return fmt.Errorf("%d of %d documents failed: %w", len(failures), len(results), errors.Join(failures...))
	}
	return nil
}
