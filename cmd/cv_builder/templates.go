package main

import (
	"encoding/json"
	"fmt"

	"github.com/jonathan/cv-builder/internal/observability"
	"github.com/jonathan/cv-builder/internal/templates"
	"github.com/jonathan/cv-builder/internal/types"
	"github.com/spf13/cobra"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List the built-in templates",
	RunE:  runTemplates,
}

var (
	templatesKind string
	templatesJSON bool
)

func init() {
	templatesCmd.Flags().StringVar(&templatesKind, "kind", "", "Only list templates for this document kind: cv or letter")
	templatesCmd.Flags().BoolVar(&templatesJSON, "json", false, "Print the definitions as JSON")

	rootCmd.AddCommand(templatesCmd)
}

func runTemplates(cmd *cobra.Command, _ []string) error {
	if templatesKind != "" && templatesKind != kindCV && templatesKind != kindLetter {
		return fmt.Errorf("unknown document kind %q (want cv or letter)", templatesKind)
	}

	var defs []templates.Definition
	for _, def := range templates.DefaultRegistry().List() {
		if templatesKind == "" || def.Kind == types.DocumentKind(templatesKind) {
			defs = append(defs, def)
		}
	}

	if templatesJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(defs)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintTemplates(defs)
	return nil
}
