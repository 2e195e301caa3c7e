package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	platformhttp "nexusauth/internal/platform/http"
)

// healthcheckConfig holds configuration for the healthcheck command.
type healthcheckConfig struct {
	url     string
	timeout time.Duration
}

// NewHealthcheckCmd creates the healthcheck subcommand, intended for container probes.
func NewHealthcheckCmd() *cobra.Command {
	cfg := &healthcheckConfig{}

	cmd := &cobra.Command{
		Use:   "healthcheck",
		Short: "Probe a running server and exit non-zero when it is unhealthy",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHealthcheck(cmd, cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.url, "url", "http://127.0.0.1:5000/api/health", "health endpoint to probe")
	cmd.Flags().DurationVar(&cfg.timeout, "timeout", 5*time.Second, "request timeout")

	return cmd
}

func runHealthcheck(cmd *cobra.Command, cfg *healthcheckConfig) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.timeout)
	defer cancel()

	resp, err := platformhttp.CheckHealth(ctx, platformhttp.NewHTTPClient(cfg.timeout, platformhttp.DefaultUserAgent+"/"+version), cfg.url)
	if err != nil {
		return fmt.Errorf("healthcheck failed: %w", err)
	}
	cmd.Printf("status=%s db=%s uptime=%s\n", resp.Status, resp.DB, resp.Uptime)
	return nil
}
