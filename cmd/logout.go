// Copyright (c) 2025 Playcap
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// logoutCmd represents the logout command for clearing authentication state.
// It removes the stored API key and consent flag from secure storage and
// from memory. Running it while already logged out is a harmless no-op.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the saved API key and consent flag",
	Long: `The logout command clears all authentication state from the local system:
the API key held in secure storage and the recorded upload consent.

No request is made to the backend; API keys are revoked from the Playcap
web dashboard, not from this CLI.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.mgr.Logout(cmd.Context()); err != nil {
			return err
		}
		pterm.Success.Println("✅ API key and consent have been removed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
