package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/server"
)

var (
	servePort            int
	serveCanonicalSkills bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that turns uploaded resume PDFs into resume JSON.

Extractions are stored when DATABASE_URL is set. Bearer authentication is
enabled when JWT_SECRET is set.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default from config, PORT or 8000)")
	serveCmd.Flags().BoolVar(&serveCanonicalSkills, "canonical-skills", false, "Merge skill name variants such as golang and Go")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
	}

	client, err := newClient(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create model client: %w", err)
	}
	defer client.Close()

	opts := []server.Option{server.WithLogger(logger)}

	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer database.Close()
		if err := database.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("failed to prepare database: %w", err)
		}
		opts = append(opts, server.WithStore(database))
	} else {
		logger.Warn("DATABASE_URL not set, extractions will not be stored")
	}

	jwtCfg, err := config.NewJWTConfig()
	switch {
	case errors.Is(err, config.ErrAuthDisabled):
		logger.Warn("JWT_SECRET not set, API authentication is disabled")
	case err != nil:
		return fmt.Errorf("invalid JWT configuration: %w", err)
	default:
		opts = append(opts, server.WithJWT(server.NewJWTService(jwtCfg)))
	}

	srv, err := server.New(server.Config{
		Port:              cfg.Port,
		MaxUploadBytes:    cfg.MaxUploadBytes,
		MaxPages:          cfg.MaxPages,
		MaxChars:          cfg.MaxChars,
		GenerationTimeout: cfg.Timeout(),
		CanonicalSkills:   serveCanonicalSkills,
	}, client, opts...)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
