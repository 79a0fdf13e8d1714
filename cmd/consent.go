// Copyright (c) 2025 Playcap
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// consentCmd groups the consent subcommands. Without arguments it shows the
// current consent status.
var consentCmd = &cobra.Command{
	Use:   "consent",
	Short: "Show or change upload consent",
	Long: `The consent command manages your upload consent. Consent is independent of
the API key: both are required before recordings are uploaded, and consent
can be revoked at any time without logging out.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		if s.mgr.Consented() {
			pterm.Println("📝 Upload consent: granted")
		} else {
			pterm.Println("📝 Upload consent: not granted")
		}
		return nil
	},
}

var consentGrantCmd = &cobra.Command{
	Use:   "grant",
	Short: "Grant upload consent",
	RunE: func(cmd *cobra.Command, args []string) error {
		return setConsent(cmd, true)
	},
}

var consentRevokeCmd = &cobra.Command{
	Use:   "revoke",
	Short: "Revoke upload consent",
	RunE: func(cmd *cobra.Command, args []string) error {
		return setConsent(cmd, false)
	},
}

func setConsent(cmd *cobra.Command, granted bool) error {
	s, err := newSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.mgr.RecordConsent(cmd.Context(), granted); err != nil {
		// The choice is live for this process but will not survive a restart.
		pterm.Warning.Printfln("Consent updated but could not be saved: %v", err)
		return nil
	}
	if granted {
		pterm.Success.Println("Upload consent granted.")
		if !s.mgr.HasCredential() {
			pterm.Info.Println("No API key stored yet; run 'playcap login' to finish setup.")
		}
	} else {
		pterm.Success.Println("Upload consent revoked.")
	}
	return nil
}

func init() {
	consentCmd.AddCommand(consentGrantCmd)
	consentCmd.AddCommand(consentRevokeCmd)
	rootCmd.AddCommand(consentCmd)
}
