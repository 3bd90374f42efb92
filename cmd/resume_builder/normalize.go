package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-builder/internal/parsing"
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize",
	Short: "Repair and normalize raw model output",
	Long: `Run the repair, coercion and pruning steps on a saved model answer without
calling the model. Reads --in ("-" for stdin) and prints the resume JSON.`,
	RunE: runNormalize,
}

var (
	normalizeIn  string
	normalizeOut string
)

func init() {
	normalizeCmd.Flags().StringVarP(&normalizeIn, "in", "i", "", "Raw model output file, or - for stdin (required)")
	normalizeCmd.Flags().StringVarP(&normalizeOut, "out", "o", "", "Write the resume JSON to this file instead of stdout")

	_ = normalizeCmd.MarkFlagRequired("in")

	rootCmd.AddCommand(normalizeCmd)
}

func runNormalize(cmd *cobra.Command, _ []string) error {
	var (
		raw []byte
		err error
	)
	if normalizeIn == "-" {
		raw, err = io.ReadAll(cmd.InOrStdin())
	} else {
		raw, err = os.ReadFile(normalizeIn)
	}
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	resume := parsing.NormalizeOutput(string(raw), logger)

	if normalizeOut != "" {
		return writeJSON(normalizeOut, resume)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(resume)
}
