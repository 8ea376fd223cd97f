package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonathan/cv-builder/internal/layout"
	"github.com/jonathan/cv-builder/internal/observability"
	"github.com/jonathan/cv-builder/internal/pipeline"
	"github.com/spf13/cobra"
)

var layoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "Paginate a document without rendering it",
	Long:  "Lays out a CV or cover letter with a template and prints the page breaks. With --out the full page geometry is written as JSON.",
	RunE:  runLayout,
}

var (
	layoutInput    string
	layoutKind     string
	layoutTemplate string
	layoutOutput   string
)

func init() {
	layoutCmd.Flags().StringVarP(&layoutInput, "in", "i", "", "Path to CV or cover letter JSON file (required)")
	layoutCmd.Flags().StringVar(&layoutKind, "kind", "", "Document kind: cv or letter (default: detected)")
	layoutCmd.Flags().StringVarP(&layoutTemplate, "template", "t", "", "Template ID (default: the document's own template)")
	layoutCmd.Flags().StringVarP(&layoutOutput, "out", "o", "", "Path to write the layout JSON")

	if err := layoutCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}

	rootCmd.AddCommand(layoutCmd)
}

func runLayout(cmd *cobra.Command, _ []string) error {
	job, err := readJob(layoutInput, layoutKind)
	if err != nil {
		return fmt.Errorf("invalid input: %w", err)
	}

	renderer := pipeline.New()
	var doc *layout.Document
	if job.Letter != nil {
		doc, err = renderer.LayoutLetter(context.Background(), *job.Letter, layoutTemplate)
	} else {
		doc, err = renderer.Layout(context.Background(), *job.Document, layoutTemplate)
	}
	if err != nil {
		return fmt.Errorf("layout failed (%s): %w", pipeline.Kind(err), err)
	}

	if layoutOutput != "" {
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal layout: %w", err)
		}
		if err := os.WriteFile(layoutOutput, data, 0644); err != nil {
			return fmt.Errorf("failed to write layout file: %w", err)
		}
	}

	observability.NewPrinter(cmd.OutOrStdout()).PrintLayout(doc)
	return nil
}
