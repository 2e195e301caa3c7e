package main

import (
	"github.com/spf13/cobra"

	"nexusauth/internal/platform/config"
)

// NewRootCmd creates the root command for the nexusauth CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nexusauth",
		Short: "nexusauth - credential authentication service",
		Long: `nexusauth registers identities, logs them in with bearer tokens
and lets authenticated users manage their own profile.`,
		SilenceUsage: true,
	}

	// --config plus the overridable settings, shared by every subcommand.
	config.RegisterFlags(cmd.PersistentFlags())

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewHealthcheckCmd())

	return cmd
}

// loadConfig reads the configuration for a subcommand from its parsed flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return config.Config{}, err
	}
	return config.Load(path, cmd.Flags())
}
