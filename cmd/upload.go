// Copyright (c) 2025 Playcap
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"os"
	"time"

	"playcap/cli/internal/httperrors"
	"playcap/cli/internal/upload"

	"atomicgo.dev/cursor"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	deleteAfterUpload bool
)

// uploadCmd represents the upload command for shipping finished recording
// sessions to the backend. It requires both a validated API key and upload
// consent.
var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Upload pending recording sessions",
	Long: `The upload command scans the recordings directory for finished sessions and
uploads each one as a compressed archive through the multipart upload API.

Sessions that are too short or too long are marked invalid and skipped on
future runs. Uploaded sessions are marked so they are not sent twice; pass
--delete to remove them locally after a successful upload instead.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := newSession(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		if !s.mgr.IsAuthenticated() {
			pterm.Error.Println("Uploads need a validated API key and upload consent.")
			pterm.Println("   Run 'playcap login' to get set up.")
			return fmt.Errorf("not authenticated")
		}
		apiKey := s.mgr.APIKey()
		if apiKey == "" {
			return fmt.Errorf("no API key stored; uploads are unavailable in bypass mode")
		}

		u := upload.NewUploader(s.api, apiKey)
		var stopSpinner func()
		u.Progress = func(name string, err error) {
			if stopSpinner != nil {
				stopSpinner()
				stopSpinner = nil
			}
			if err != nil {
				pterm.Error.Printfln("✖ %s: %v", name, err)
			} else {
				pterm.Success.Printfln("✔ %s", name)
			}
		}

		cursor.Hide()
		defer cursor.Show()

		stopSpinner = startInlineSpinner(os.Stdout, "Uploading recordings", spinnerFrames, 120*time.Millisecond)
		stats, err := u.UploadAll(ctx, s.cfg.RecordingsDir, deleteAfterUpload)
		if stopSpinner != nil {
			stopSpinner()
		}
		if err != nil {
			return httperrors.FormatNetworkError(err, "uploading recordings")
		}

		if stats.Uploaded == 0 && stats.Failed == 0 {
			pterm.Info.Println("No pending recordings found.")
			return nil
		}
		pterm.Printfln("Uploaded %d session(s), %d failed, %.1f MB sent",
			stats.Uploaded, stats.Failed, float64(stats.Bytes)/(1024*1024))
		if stats.Failed > 0 {
			return fmt.Errorf("%d upload(s) failed", stats.Failed)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(uploadCmd)
	uploadCmd.Flags().BoolVar(&deleteAfterUpload, "delete", false, "Delete sessions locally after a successful upload")
}
