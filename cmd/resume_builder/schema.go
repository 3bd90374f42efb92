package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-builder/internal/schemas"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the resume schema",
	Long:  "Print the JSON Schema of the resume document, or the example document sent to the model with --format example.",
	RunE:  runSchema,
}

var schemaFormat string

func init() {
	schemaCmd.Flags().StringVarP(&schemaFormat, "format", "f", "jsonschema", "Output format: jsonschema or example")
	rootCmd.AddCommand(schemaCmd)
}

func runSchema(cmd *cobra.Command, _ []string) error {
	var out string
	switch schemaFormat {
	case "jsonschema":
		s, err := schemas.JSONSchemaString(schemas.Resume)
		if err != nil {
			return err
		}
		out = s
	case "example":
		out = schemas.Resume.ExampleJSON()
	default:
		return fmt.Errorf("unknown format %q: must be jsonschema or example", schemaFormat)
	}

	_, err := fmt.Fprintln(cmd.OutOrStdout(), out)
	return err
}
