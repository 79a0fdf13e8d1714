// Copyright (c) 2025 Playcap
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface for the Playcap CLI application.
// It implements subcommands for authentication, consent, and recording uploads
// using the Cobra CLI framework. The package handles command parsing, execution,
// and provides terminal UI with spinners and progress indicators.
package cmd

import (
	"context"
	"fmt"
	"os"

	"playcap/cli/internal/backend"
	"playcap/cli/internal/config"

	"github.com/spf13/cobra"
)

var (
	showVersion bool
)

// rootCmd represents the base command when called without any subcommands.
// It serves as the entry point for the Playcap CLI application.
var rootCmd = &cobra.Command{
	Use:           "playcap",
	Short:         "Playcap CLI for managing capture-client authentication and uploads",
	Long:          `Playcap is the command-line companion for the Playcap capture client. It manages the API key and consent state the client needs, and uploads finished recording sessions.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			ctx := context.Background()
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			be := backend.New(cfg.APIBaseURL)
			backendVersion, err := be.GetVersion(ctx)
			if err != nil {
				backendVersion = "unknown"
			}

			fmt.Printf("playcap %s\nbackend %s\n", Version, backendVersion)
			return nil
		}
		// If no flag is set, show help
		return cmd.Help()
	},
}

// Execute runs the CLI application.
// It executes the root command and handles any errors that occur during execution.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show CLI and backend version information")
}
