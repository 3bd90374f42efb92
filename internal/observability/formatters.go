// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-builder/internal/ingestion"
	"github.com/jonathan/resume-builder/internal/schemas"
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

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes, marking the cut with "..."
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// PrintExtraction outputs a summary of the text extracted from a PDF.
func (p *Printer) PrintExtraction(e *ingestion.Extraction) {
	if e == nil || e.Metadata == nil {
		return
	}
	m := e.Metadata

	var sb strings.Builder
	if m.FileName != "" {
		sb.WriteString(fmt.Sprintf("File:     %s\n", m.FileName))
	}
	sb.WriteString(fmt.Sprintf("Pages:    %d\n", m.Pages))
	sb.WriteString(fmt.Sprintf("Chars:    %d raw, %d sent\n", m.RawChars, m.SourceChars))
	if len(m.Hash) >= 12 {
		sb.WriteString(fmt.Sprintf("SHA256:   %s...\n", m.Hash[:12]))
	}
	if len(m.Sections) > 0 {
		sb.WriteString(fmt.Sprintf("Sections: %s\n", strings.Join(m.Sections, ", ")))
	}

	p.printBox("EXTRACTED TEXT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintResume outputs the populated top-level fields of a normalized resume,
// in schema order.
func (p *Printer) PrintResume(resume map[string]any) {
	if len(resume) == 0 {
		return
	}

	var sb strings.Builder
	if details, ok := resume["personalDetails"].(map[string]any); ok {
		if name, _ := details["fullName"].(string); name != "" {
			sb.WriteString(fmt.Sprintf("Name:     %s\n", name))
		}
	}
	if title, _ := resume["resumeTitle"].(string); title != "" {
		sb.WriteString(fmt.Sprintf("Title:    %s\n", title))
	}
	sb.WriteString("\n")

	for _, field := range schemas.Resume.Fields() {
		items, ok := resume[field.Name].([]any)
		if !ok || len(items) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("%s: %d\n", field.Name, len(items)))
		if field.Name == "skills" {
			sb.WriteString(fmt.Sprintf("  %s\n", skillList(items)))
		}
	}

	p.printBox("NORMALIZED RESUME", strings.TrimSuffix(sb.String(), "\n"))
}

// skillList joins the first skill names, noting how many were left out
func skillList(items []any) string {
	var names []string
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			if name, _ := m["skillName"].(string); name != "" {
				names = append(names, name)
			}
		}
	}
	if len(names) > maxItemsToShow {
		return fmt.Sprintf("%s ... and %d more", strings.Join(names[:maxItemsToShow], ", "), len(names)-maxItemsToShow)
	}
	return strings.Join(names, ", ")
}

// PrintValidation outputs the outcome of a schema validation.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintValidation(err error) {
	if err == nil {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ SCHEMA VALID")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var ve *schemas.ValidationError
	if !errors.As(err, &ve) {
		p.printBox("SCHEMA CHECK FAILED", err.Error())
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d violations:\n\n", len(ve.Errors)))
	for i, fe := range ve.Errors {
		sb.WriteString(fmt.Sprintf("⚠ %s\n", fe.Field))
		sb.WriteString(fmt.Sprintf("  %s\n", fe.Message))
		if i < len(ve.Errors)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("SCHEMA VIOLATIONS", strings.TrimSuffix(sb.String(), "\n"))
}
