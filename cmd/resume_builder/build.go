package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/ingestion"
	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/observability"
	"github.com/jonathan/resume-builder/internal/parsing"
)

var buildCmd = &cobra.Command{
	Use:   "build [flags] resume.pdf...",
	Short: "Build resume JSON from one or more PDFs",
	Long: `Extract each PDF, send its text to the model and write the normalized resume
to <out>/<name>.json. Files are processed concurrently; a failed file does not
stop the others, but the command exits non-zero.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBuild,
}

var (
	buildOut             string
	buildConcurrency     int
	buildCanonicalSkills bool
	buildAllowEmpty      bool
)

func init() {
	buildCmd.Flags().StringVarP(&buildOut, "out", "o", "", "Output directory (required)")
	buildCmd.Flags().IntVar(&buildConcurrency, "concurrency", 2, "Number of PDFs processed at once")
	buildCmd.Flags().BoolVar(&buildCanonicalSkills, "canonical-skills", false, "Merge skill name variants such as golang and Go")
	buildCmd.Flags().BoolVar(&buildAllowEmpty, "allow-empty", false, "Write the output even when no usable data was extracted")

	_ = buildCmd.MarkFlagRequired("out")

	rootCmd.AddCommand(buildCmd)
}

// buildResult is the outcome for one input file
type buildResult struct {
	input  string
	output string
	err    error
}

func runBuild(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if err := checkOutputNames(args); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(buildOut, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	client, err := newClient(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create model client: %w", err)
	}
	defer client.Close()

	var (
		mu      sync.Mutex
		results = make([]buildResult, len(args))
		printer = observability.NewPrinter(cmd.ErrOrStderr())
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(buildConcurrency, 1))
	for i, input := range args {
		g.Go(func() error {
			output, resume, extraction, err := buildOne(gctx, client, cfg, input)
			results[i] = buildResult{input: input, output: output, err: err}
			if cfg.Verbose && err == nil {
				// keep each file's boxes together
				mu.Lock()
				printer.PrintExtraction(extraction)
				printer.PrintResume(resume)
				mu.Unlock()
			}
			// per-file failures are reported below, never cancel siblings
			return nil
		})
	}
	_ = g.Wait()

	out := cmd.OutOrStdout()
	var failed []string
	for _, r := range results {
		if r.err != nil {
			logger.WithError(r.err).WithField("file", r.input).Error("build failed")
			_, _ = fmt.Fprintf(out, "FAIL %s: %v\n", r.input, r.err)
			failed = append(failed, r.input)
			continue
		}
		_, _ = fmt.Fprintf(out, "OK   %s -> %s\n", r.input, r.output)
	}

	if len(failed) > 0 {
		return fmt.Errorf("%d of %d files failed: %s", len(failed), len(args), strings.Join(failed, ", "))
	}
	return nil
}

// buildOne extracts, builds and writes the resume for one PDF
func buildOne(ctx context.Context, client llm.Client, cfg *config.Config, input string) (string, map[string]any, *ingestion.Extraction, error) {
	log := logger.WithField("file", input)

	extraction, err := ingestion.ExtractFromFile(input, ingestion.ExtractOptions{
		MaxPages: cfg.MaxPages,
		MaxChars: cfg.MaxChars,
		Logger:   log,
	})
	if err != nil {
		return "", nil, nil, err
	}

	genCtx, cancel := context.WithTimeout(ctx, cfg.Timeout())
	defer cancel()

	resume, err := parsing.BuildResume(genCtx, client, extraction.Text,
		parsing.WithLogger(log),
		parsing.WithCanonicalSkills(buildCanonicalSkills),
	)
	if err != nil && !(buildAllowEmpty && errors.Is(err, parsing.ErrNoUsableData)) {
		return "", nil, nil, err
	}

	output := filepath.Join(buildOut, outputName(input))
	if err := writeJSON(output, resume); err != nil {
		return "", nil, nil, err
	}
	log.WithFields(logrus.Fields{"output": output, "fields": len(resume)}).Debug("resume written")
	return output, resume, extraction, nil
}

// outputName maps resume.pdf to resume.json
func outputName(input string) string {
	base := filepath.Base(input)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".json"
}

// checkOutputNames rejects inputs that would be written to the same output
// file. Names are compared case-insensitively for case-insensitive filesystems.
func checkOutputNames(inputs []string) error {
	seen := make(map[string]string, len(inputs))
	for _, input := range inputs {
		name := outputName(input)
		key := strings.ToLower(name)
		if prev, ok := seen[key]; ok {
			return fmt.Errorf("%s and %s would both be written to %s", prev, input, name)
		}
		seen[key] = input
	}
	return nil
}

// writeJSON writes v as indented JSON
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
