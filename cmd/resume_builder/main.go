// Package main provides the entry point for the resume builder CLI and HTTP API server.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/llm"
)

var rootCmd = &cobra.Command{
	Use:   "resume_builder",
	Short: "Resume PDF to structured JSON",
	Long: `Resume builder extracts the text of a resume PDF, asks a language model to fill
a fixed resume schema and repairs the answer into clean JSON.

Configuration can be loaded from a JSON file using --config. Values missing from
the file come from the environment (.env is loaded when present), then defaults.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
}

var (
	configPath string
	verbose    bool

	// logger is shared by every command; setupLogging points it at stderr
	logger = logrus.New()

	// newClient builds the model backend for a command. Tests replace it.
	newClient = func(ctx context.Context, cfg *config.Config) (llm.Client, error) {
		return llm.NewClient(ctx, cfg.LLMConfig(), cfg.ResolveAPIKey())
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.json file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print detailed debug information")
}

func setupLogging(cmd *cobra.Command, _ []string) error {
	logger.SetOutput(cmd.ErrOrStderr())
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.WarnLevel)
	}
	return nil
}

// loadConfig layers --config over the environment and defaults
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if verbose {
		cfg.Verbose = true
	}
	return cfg, nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
