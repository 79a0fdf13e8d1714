// Copyright (c) 2025 Playcap
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"errors"
	"os"
	"time"

	"playcap/cli/internal/auth"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// whoamiCmd represents the whoami command for displaying current authentication state.
// It shows the account associated with the stored API key, re-validating the
// key against the backend when the identity is not cached yet.
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show current authentication state",
	Long: `The whoami command displays the authentication state held by this machine:
the user associated with the stored API key (redacted), whether upload
consent was granted, and the resulting access state.

When the key was loaded from storage and its user is not known yet, the
command re-validates the key against the backend to recover it.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := newSession(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		info, err := s.mgr.UserInfo()
		if errors.Is(err, auth.ErrIdentityUnknown) {
			stopSpinner := startInlineSpinner(os.Stdout, "Checking API key", spinnerFrames, 120*time.Millisecond)
			revErr := s.mgr.Revalidate(ctx)
			stopSpinner()
			if revErr != nil {
				pterm.Error.Println("Your stored API key could not be verified.")
				pterm.Println("   Run 'playcap login' to enter a new one.")
				return revErr
			}
			info, err = s.mgr.UserInfo()
		}
		if err != nil {
			return err
		}

		if !info.HasAPIKey {
			pterm.Println("🔒 You're not logged in yet!")
			pterm.Println("   Run 'playcap login' to get started.")
			return nil
		}

		pterm.Printfln("👤 User:    %s", info.UserID)
		pterm.Printfln("🔑 API key: %s", info.APIKey)
		pterm.Printfln("📝 Consent: %v", info.Consented)
		pterm.Printfln("🚦 State:   %s", s.mgr.State())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
