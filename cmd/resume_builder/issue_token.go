package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/server"
)

var issueTokenCmd = &cobra.Command{
	Use:   "issue-token",
	Short: "Issue an API bearer token",
	Long:  "Sign a bearer token for the REST API with JWT_SECRET. The client ID becomes the token subject and the rate limit key.",
	RunE:  runIssueToken,
}

var tokenClientID string

func init() {
	issueTokenCmd.Flags().StringVar(&tokenClientID, "client-id", "", "Client identifier (required)")

	_ = issueTokenCmd.MarkFlagRequired("client-id")

	rootCmd.AddCommand(issueTokenCmd)
}

func runIssueToken(cmd *cobra.Command, _ []string) error {
	jwtCfg, err := config.NewJWTConfig()
	if err != nil {
		return err
	}

	token, err := server.NewJWTService(jwtCfg).GenerateToken(tokenClientID)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
	return err
}
