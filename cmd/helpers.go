// Copyright (c) 2025 Playcap
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"playcap/cli/internal/auth"
	"playcap/cli/internal/backend"
	"playcap/cli/internal/config"
	"playcap/cli/internal/storage"

	"github.com/pterm/pterm"
)

// session wires the shared dependencies every command needs: config,
// durable storage, the backend client, and the auth manager built on them.
type session struct {
	cfg config.Config
	api backend.API
	mgr *auth.Manager

	store storage.Store
}

// newSession loads config, opens the best available store, and constructs
// the auth manager. Callers must Close it.
func newSession(ctx context.Context) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	st, err := storage.Open()
	if err != nil {
		return nil, fmt.Errorf("open secure storage: %w", err)
	}
	api := backend.New(cfg.APIBaseURL)
	mgr := auth.New(ctx, st, api, auth.Options{
		BypassAuth: cfg.BypassAuth,
		Logf: func(format string, args ...any) {
			pterm.Debug.Printfln(format, args...)
		},
	})
	return &session{cfg: cfg, api: api, mgr: mgr, store: st}, nil
}

func (s *session) Close() error {
	return s.store.Close()
}

// startInlineSpinner starts a simple inline spinner animation on a single line.
// It displays rotating animation frames followed by the provided text,
// updating the same line in the terminal. The returned function stops the
// spinner and clears the line.
func startInlineSpinner(w io.Writer, text string, frames []string, interval time.Duration) func() {
	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		i := 0
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				line := fmt.Sprintf("%s %s", frames[i%len(frames)], text)
				// Clear the spinner line completely, then return
				fmt.Fprintf(w, "\r%*s\r", len(line), "")
				return
			case <-ticker.C:
				line := fmt.Sprintf("%s %s", frames[i%len(frames)], text)
				fmt.Fprintf(w, "\r%s", line)
				i++
			}
		}
	}()
	return func() {
		close(stop)
		wg.Wait()
	}
}

var spinnerFrames = []string{"|", "/", "-", "\\"}
