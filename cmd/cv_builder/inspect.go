package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonathan/cv-builder/internal/observability"
	"github.com/jonathan/cv-builder/internal/pdfinfo"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show the page count and text of a rendered PDF",
	RunE:  runInspect,
}

var (
	inspectInput string
	inspectFind  string
	inspectJSON  bool
)

func init() {
	inspectCmd.Flags().StringVarP(&inspectInput, "in", "i", "", "Path to PDF file (required)")
	inspectCmd.Flags().StringVar(&inspectFind, "find", "", "Report the page on which this text first appears")
	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "Print the extracted info as JSON")

	if err := inspectCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}

	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, _ []string) error {
	data, err := os.ReadFile(inspectInput)
	if err != nil {
		return fmt.Errorf("failed to read PDF: %w", err)
	}
	info, err := pdfinfo.Inspect(data)
	if err != nil {
		return fmt.Errorf("failed to inspect PDF: %w", err)
	}

	out := cmd.OutOrStdout()
	if inspectJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(info); err != nil {
			return err
		}
	} else {
		observability.NewPrinter(out).PrintPDFInfo(info)
	}

	if inspectFind != "" {
		page := info.PageOf(inspectFind)
		if page == 0 {
			return fmt.Errorf("text %q not found", inspectFind)
		}
		_, _ = fmt.Fprintf(out, "%q first appears on page %d\n", inspectFind, page)
	}
	return nil
}
