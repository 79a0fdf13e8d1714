// Copyright (c) 2025 Playcap
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"playcap/cli/internal/terminal"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// loginCmd represents the login command for API-key authentication.
// It prompts for the key without echoing it, validates it against the
// backend, and then asks for upload consent.
var loginCmd = &cobra.Command{
	Use:     "login",
	Aliases: []string{"auth"},
	Short:   "Enter and validate your Playcap API key",
	Long: `The login command prompts for your Playcap API key (starting with "sk_"),
validates it against the backend, and stores it in secure storage on success.

After validation it asks whether you consent to uploading your recordings;
both a valid key and consent are required before uploads are allowed.

Don't have an API key? Sign up at https://playcap.dev to get one.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := newSession(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		// Short-circuit when a key is already held and validated.
		if s.mgr.HasCredential() {
			if err := s.mgr.Revalidate(ctx); err == nil {
				info, _ := s.mgr.UserInfo()
				pterm.Success.Printfln("Already logged in as %s", info.UserID)
				return maybeAskConsent(cmd, s)
			}
			pterm.Warning.Println("Stored API key is no longer valid; please enter a new one.")
		}

		key, err := promptAPIKey()
		if err != nil {
			return err
		}

		stopSpinner := startInlineSpinner(os.Stdout, "Validating API key", spinnerFrames, 120*time.Millisecond)
		res := s.mgr.ValidateAPIKey(ctx, key)
		stopSpinner()

		if !res.OK {
			pterm.Error.Println(res.Message)
			return fmt.Errorf("login failed")
		}
		pterm.Success.Printfln("✅ Welcome, %s!", res.UserID)

		return maybeAskConsent(cmd, s)
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
}

// promptAPIKey reads the API key without echoing it, then clears the prompt
// line so the terminal scrollback holds no trace of the exchange.
func promptAPIKey() (string, error) {
	prompt := "API key (sk_...): "
	fmt.Print(prompt)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("read API key: %w", err)
	}
	terminal.ClearPreviousLines(len(prompt))
	return string(raw), nil
}

// maybeAskConsent asks for upload consent when it was not granted yet.
func maybeAskConsent(cmd *cobra.Command, s *session) error {
	if s.mgr.Consented() {
		return nil
	}
	fmt.Print("Allow Playcap to upload your recordings? [y/N]: ")
	reader := bufio.NewReader(cmd.InOrStdin())
	answer, err := reader.ReadString('\n')
	if err != nil {
		return nil // EOF on stdin; leave consent unset
	}
	granted := strings.EqualFold(strings.TrimSpace(answer), "y")
	if err := s.mgr.RecordConsent(cmd.Context(), granted); err != nil {
		pterm.Warning.Printfln("Consent recorded for this run only: %v", err)
		return nil
	}
	if granted {
		pterm.Success.Println("Consent recorded. You're all set.")
	} else {
		pterm.Info.Println("Consent not granted; uploads stay disabled. Run 'playcap consent grant' anytime.")
	}
	return nil
}
