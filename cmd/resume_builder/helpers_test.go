package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/ingestion/ingestiontest"
	"github.com/jonathan/resume-builder/internal/llm"
)

var configEnv = []string{
	"LLM_PROVIDER", "LLM_MODEL", "MODEL_URL", "DATABASE_URL", "GENERATION_TIMEOUT",
	"PORT", "MAX_PAGES", "MAX_CHARS", "MAX_UPLOAD_BYTES",
	"JWT_SECRET", "JWT_EXPIRATION_HOURS", "JWT_ISSUER",
}

// runCLI executes the root command in-process with fresh flag values and
// no configuration from the environment
func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	return execCLI(t, stdin, nil, args...)
}

func execCLI(t *testing.T, stdin string, env map[string]string, args ...string) (string, error) {
	t.Helper()
	for _, k := range configEnv {
		t.Setenv(k, "")
	}
	for k, v := range env {
		t.Setenv(k, v)
	}
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// writePDF writes a one-page resume PDF into a temp dir
func writePDF(t *testing.T, name string, pages ...string) string {
	t.Helper()
	if len(pages) == 0 {
		pages = []string{ingestiontest.ResumePage}
	}
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, ingestiontest.BuildPDF(pages...), 0644))
	return path
}

type fakeClient struct {
	mu       sync.Mutex
	response string
	err      error
	calls    int
}

func (f *fakeClient) GenerateContent(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	return f.GenerateJSON(ctx, prompt, tier)
}

func (f *fakeClient) GenerateJSON(context.Context, string, llm.ModelTier) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.response, f.err
}

func (f *fakeClient) GetModel(llm.ModelTier) string { return "fake-model" }

func (f *fakeClient) Close() error { return nil }

// useFakeClient swaps the model backend for the duration of the test
func useFakeClient(t *testing.T, client llm.Client) {
	t.Helper()
	orig := newClient
	newClient = func(context.Context, *config.Config) (llm.Client, error) { return client, nil }
	t.Cleanup(func() { newClient = orig })
}
