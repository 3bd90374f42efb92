package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-builder/internal/ingestion"
	"github.com/jonathan/resume-builder/internal/observability"
)

var extractTextCmd = &cobra.Command{
	Use:   "extract-text",
	Short: "Extract and clean the text of a resume PDF",
	Long: `Extract the text of a resume PDF, clean it and shorten it by section, exactly as
it would be sent to the model. Prints the text, or writes it with metadata to --out.`,
	RunE: runExtractText,
}

var (
	extractPDF string
	extractOut string
)

func init() {
	extractTextCmd.Flags().StringVarP(&extractPDF, "pdf", "p", "", "Path to the resume PDF (required)")
	extractTextCmd.Flags().StringVarP(&extractOut, "out", "o", "", "Output directory for resume.extracted.txt and resume.meta.json")

	_ = extractTextCmd.MarkFlagRequired("pdf")

	rootCmd.AddCommand(extractTextCmd)
}

func runExtractText(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	extraction, err := ingestion.ExtractFromFile(extractPDF, ingestion.ExtractOptions{
		MaxPages: cfg.MaxPages,
		MaxChars: cfg.MaxChars,
		Logger:   logger,
	})
	if err != nil {
		return fmt.Errorf("failed to extract text: %w", err)
	}

	if cfg.Verbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintExtraction(extraction)
	}

	out := cmd.OutOrStdout()
	if extractOut == "" {
		_, _ = fmt.Fprintln(out, extraction.Text)
		return nil
	}

	if err := ingestion.WriteOutput(extractOut, extraction); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	_, _ = fmt.Fprintf(out, "Successfully extracted %d characters from %d pages\n", extraction.Metadata.SourceChars, extraction.Metadata.Pages)
	_, _ = fmt.Fprintf(out, "Extracted text: %s\n", filepath.Join(extractOut, "resume.extracted.txt"))
	_, _ = fmt.Fprintf(out, "Metadata: %s\n", filepath.Join(extractOut, "resume.meta.json"))
	return nil
}
