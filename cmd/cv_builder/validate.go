package main

import (
	"errors"
	"fmt"

	"github.com/jonathan/cv-builder/internal/observability"
	"github.com/jonathan/cv-builder/internal/schemas"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a CV or cover letter JSON file",
	Long: `Checks a CV or cover letter against the JSON Schema and the rules a document
must satisfy before it can be rendered. With --schema the file must also match
an additional JSON Schema, such as a site-specific profile.`,
	RunE: runValidate,
}

var (
	validateInput  string
	validateKind   string
	validateSchema string
)

func init() {
	validateCmd.Flags().StringVarP(&validateInput, "in", "i", "", "Path to CV or cover letter JSON file (required)")
	validateCmd.Flags().StringVar(&validateKind, "kind", "", "Document kind: cv or letter (default: detected)")
	validateCmd.Flags().StringVar(&validateSchema, "schema", "", "Path to an additional JSON Schema file")

	if err := validateCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	printer := observability.NewPrinter(cmd.OutOrStdout())

	job, err := readJob(validateInput, validateKind)
	if err == nil {
		if job.Letter != nil {
			err = job.Letter.Validate()
		} else {
			err = job.Document.Validate()
		}
	}
	if err == nil && validateSchema != "" {
		err = schemas.ValidateFile(validateSchema, validateInput)
	}
	printer.PrintValidation(err)

	if err != nil {
		var ve *schemas.ValidationError
		if errors.As(err, &ve) {
			return fmt.Errorf("validation failed: %d problems", len(ve.Errors))
		}
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}
