package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-builder/internal/observability"
	"github.com/jonathan/resume-builder/internal/schemas"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a resume JSON file against the resume schema",
	RunE:  runValidate,
}

var validateJSON string

func init() {
	validateCmd.Flags().StringVarP(&validateJSON, "json", "j", "", "Resume JSON file to validate (required)")

	_ = validateCmd.MarkFlagRequired("json")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	err := schemas.ValidateFile(schemas.Resume, validateJSON)
	if verbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintValidation(err)
	}
	if err != nil {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Validation failed: %s\n", validateJSON)
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Validation passed: %s\n", validateJSON)
	return nil
}
