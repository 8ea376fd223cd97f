// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jonathan/cv-builder/internal/layout"
	"github.com/jonathan/cv-builder/internal/pdfinfo"
	"github.com/jonathan/cv-builder/internal/pipeline"
	"github.com/jonathan/cv-builder/internal/schemas"
	"github.com/jonathan/cv-builder/internal/templates"
	"github.com/jonathan/cv-builder/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to n runes, ending in "..." when cut.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// PrintDocument outputs a summary of a CV's content.
func (p *Printer) PrintDocument(doc *types.Document) {
	if doc == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:      %s\n", strings.TrimSpace(doc.Personal.FirstName+" "+doc.Personal.LastName)))
	if doc.Personal.Headline != "" {
		sb.WriteString(fmt.Sprintf("Headline:  %s\n", doc.Personal.Headline))
	}
	if doc.TemplateID != "" {
		sb.WriteString(fmt.Sprintf("Template:  %s\n", doc.TemplateID))
	}
	sb.WriteString(fmt.Sprintf("Language:  %s\n", doc.Lang()))
	sb.WriteString("\n")

	achievements := 0
	for _, e := range doc.Experience {
		achievements += len(e.Achievements)
	}
	sb.WriteString(fmt.Sprintf("Experience:  %d (%d achievements)\n", len(doc.Experience), achievements))
	sb.WriteString(fmt.Sprintf("Education:   %d\n", len(doc.Education)))
	sb.WriteString(fmt.Sprintf("Skills:      %d\n", len(doc.Skills)))
	sb.WriteString(fmt.Sprintf("Languages:   %d\n", len(doc.Languages)))
	sb.WriteString(fmt.Sprintf("References:  %d\n", len(doc.References)))
	sb.WriteString(fmt.Sprintf("Interests:   %d", len(doc.Interests)))

	p.printBox("CV DOCUMENT", sb.String())
}

// PrintLayout outputs the pagination of a laid-out document, one line per page.
func (p *Printer) PrintLayout(doc *layout.Document) {
	if doc == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(doc.Summary())
	sb.WriteString(fmt.Sprintf("\nContent units: %d\n\n", doc.ContentUnits()))

	for i, page := range doc.Pages {
		var kinds []string
		seen := map[string]bool{}
		for _, b := range page.Blocks {
			if b.SectionKind != "" && !seen[b.SectionKind] {
				seen[b.SectionKind] = true
				kinds = append(kinds, b.SectionKind)
			}
		}
		sb.WriteString(fmt.Sprintf("Page %d: %d blocks\n", i+1, len(page.Blocks)))
		if len(kinds) > 0 {
			sb.WriteString(fmt.Sprintf("  %s\n", strings.Join(kinds, ", ")))
		}
	}

	p.printBox("LAYOUT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintResult outputs the outcome of a render.
func (p *Printer) PrintResult(res *pipeline.Result) {
	if res == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Backend:   %s\n", res.Backend))
	sb.WriteString(fmt.Sprintf("Pages:     %d\n", res.Pages))
	sb.WriteString(fmt.Sprintf("Size:      %d bytes\n", len(res.PDF)))
	sb.WriteString(fmt.Sprintf("Duration:  %v", res.Duration.Round(time.Microsecond)))

	p.printBox("RENDER RESULT", sb.String())
}

// PrintPDFInfo outputs the page count and the opening text of each page.
func (p *Printer) PrintPDFInfo(info *pdfinfo.Info) {
	if info == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Pages:  %d\n", info.Pages))
	sb.WriteString(fmt.Sprintf("Size:   %d bytes\n", info.Bytes))

	count := min(len(info.Text), maxItemsToShow)
	for i := 0; i < count; i++ {
		text := strings.Join(strings.Fields(info.Text[i]), " ")
		if text == "" {
			text = "(no text layer)"
		}
		sb.WriteString(fmt.Sprintf("\nPage %d: %s", i+1, text))
	}
	if len(info.Text) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more pages", len(info.Text)-maxItemsToShow))
	}

	p.printBox("PDF", sb.String())
}

// PrintTemplates outputs the registered templates.
func (p *Printer) PrintTemplates(defs []templates.Definition) {
	if len(defs) == 0 {
		return
	}

	var sb strings.Builder
	for i, d := range defs {
		sb.WriteString(fmt.Sprintf("%-16s %-7s %s\n", d.ID, d.Kind, d.Name))
		if d.Description != "" {
			sb.WriteString(fmt.Sprintf("  %s\n", d.Description))
		}
		if i < len(defs)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("TEMPLATES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintBatch outputs one line per job of a batch render.
func (p *Printer) PrintBatch(results []pipeline.BatchResult) {
	if len(results) == 0 {
		return
	}

	failed := 0
	var sb strings.Builder
	for _, r := range results {
		if r.Err != nil {
			failed++
			sb.WriteString(fmt.Sprintf("✗ %s: %s\n", r.ID, pipeline.Kind(r.Err)))
			continue
		}
		sb.WriteString(fmt.Sprintf("✓ %s: %d pages (%s)\n", r.ID, r.Result.Pages, r.Result.Backend))
	}
	sb.WriteString(fmt.Sprintf("\n%d rendered, %d failed", len(results)-failed, failed))

	p.printBox("BATCH", sb.String())
}

// PrintValidation outputs the field errors of a failed validation.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintValidation(err error) {
	var ve *schemas.ValidationError
	if err == nil || !errors.As(err, &ve) || len(ve.Errors) == 0 {
		if err != nil {
			p.printBox("VALIDATION FAILED", err.Error())
			return
		}
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ DOCUMENT IS VALID")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d problems:\n\n", len(ve.Errors)))

	for i, fe := range ve.Errors {
		sb.WriteString(fmt.Sprintf("⚠ %s\n", fe.Field))
		sb.WriteString(fmt.Sprintf("  %s\n", fe.Message))
		if i < len(ve.Errors)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("VALIDATION FAILED", strings.TrimSuffix(sb.String(), "\n"))
}
