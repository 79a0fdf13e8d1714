// Copyright (c) 2025 Playcap
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import (
	"context"
	"errors"
	"strings"

	"playcap/cli/internal/backend"
	errs "playcap/cli/internal/errors"
	"playcap/cli/internal/logging"
	"playcap/cli/internal/storage"
)

// Options tunes Manager construction.
type Options struct {
	// BypassAuth short-circuits IsAuthenticated for embedding contexts
	// where the host has already satisfied authentication.
	BypassAuth bool
	// Logf receives masked diagnostic output. Nil discards it.
	Logf func(format string, args ...any)
}

// Manager holds the in-memory authentication state and mediates all
// mutations to it. Construct one per process with New and pass it
// explicitly; there is no package-level instance.
//
// The manager assumes a single logical caller. Overlapping calls to the
// same operation are not serialized; the last writer wins.
type Manager struct {
	store storage.Store
	api   backend.API

	bypass bool
	logf   func(format string, args ...any)

	apiKey    string
	userID    string
	consented bool
}

// New constructs a Manager and loads persisted state from the store.
// The load is best-effort: a storage failure leaves the manager in the
// initial unauthenticated state rather than failing construction.
func New(ctx context.Context, store storage.Store, api backend.API, opts Options) *Manager {
	m := &Manager{
		store:  store,
		api:    api,
		bypass: opts.BypassAuth,
		logf:   opts.Logf,
	}
	if m.logf == nil {
		m.logf = func(string, ...any) {}
	}

	snap, err := store.Load(ctx)
	if err != nil {
		m.logf("auth: could not load persisted state: %s", logging.Mask(err.Error()))
		return m
	}
	m.apiKey = snap.APIKey
	m.consented = snap.Consented
	return m
}

// ValidateAPIKey checks a raw API key against the identity endpoint.
// Format problems fail fast without any network or storage call. A key the
// backend accepts replaces whatever key was previously held, the identity
// is cached, and the key is persisted before the result is returned.
func (m *Manager) ValidateAPIKey(ctx context.Context, raw string) Result {
	key := strings.TrimSpace(raw)
	if key == "" {
		return Result{Message: "API key cannot be empty"}
	}
	if !strings.HasPrefix(key, keyPrefix) {
		return Result{Message: "Invalid API key format"}
	}

	userID, err := m.api.ValidateKey(ctx, key)
	if err != nil {
		var e *errs.E
		if errors.As(err, &e) {
			return Result{Message: e.Message}
		}
		return Result{Message: "validation failed"}
	}

	m.apiKey = key
	m.userID = userID
	if err := m.store.Save(ctx, storage.KeyAPIKey, key); err != nil {
		// Validation itself succeeded; a persist failure only means the key
		// must be re-entered after a restart.
		m.logf("auth: could not persist API key: %s", logging.Mask(err.Error()))
	}
	return Result{OK: true, UserID: userID}
}

// HasCredential reports whether an API key is currently held in memory,
// independent of consent. No I/O.
func (m *Manager) HasCredential() bool {
	return m.apiKey != ""
}

// IsAuthenticated reports whether the client may access protected features:
// either the bypass flag is set, or an API key is held and consent was
// granted. No I/O.
func (m *Manager) IsAuthenticated() bool {
	return m.bypass || (m.apiKey != "" && m.consented)
}

// State derives the current authentication state.
func (m *Manager) State() State {
	switch {
	case m.IsAuthenticated():
		return StateAuthenticated
	case m.apiKey != "":
		return StateNoConsent
	default:
		return StateUnauthenticated
	}
}

// Consented reports the current consent flag.
func (m *Manager) Consented() bool {
	return m.consented
}

// RecordConsent sets the consent flag and persists it in canonical string
// form. The in-memory flag is updated even when persistence fails, so the
// current process observes the user's choice; the storage failure is
// returned so callers can warn that it will not survive a restart.
func (m *Manager) RecordConsent(ctx context.Context, v bool) error {
	m.consented = v
	if err := m.store.Save(ctx, storage.KeyConsent, storage.FormatConsent(v)); err != nil {
		return errs.Wrap(errs.StorageUnavailable, "consent could not be persisted", err)
	}
	return nil
}

// UserInfo returns a redacted summary of the current state. It performs no
// I/O: when an API key is held but its identity has not been recovered,
// UserInfo returns ErrIdentityUnknown and the caller decides whether to run
// Revalidate.
func (m *Manager) UserInfo() (Info, error) {
	if m.apiKey == "" {
		return Info{Method: MethodAPIKey}, nil
	}
	if m.userID == "" {
		return Info{}, ErrIdentityUnknown
	}
	return Info{
		Authenticated: m.IsAuthenticated(),
		HasAPIKey:     true,
		Consented:     m.consented,
		Method:        MethodAPIKey,
		APIKey:        logging.RedactAPIKey(m.apiKey),
		UserID:        m.userID,
	}, nil
}

// Revalidate re-checks the held API key against the identity endpoint to
// recover the user identity, typically after a restart. Unlike
// ValidateAPIKey failures this one is hard: a key that was accepted before
// and is rejected now leaves the caller with no usable result.
func (m *Manager) Revalidate(ctx context.Context) error {
	if m.apiKey == "" {
		return errs.New(errs.RevalidationFailed, "no API key to revalidate")
	}
	userID, err := m.api.ValidateKey(ctx, m.apiKey)
	if err != nil {
		return errs.Wrap(errs.RevalidationFailed, "stored API key could not be revalidated", err)
	}
	m.userID = userID
	return nil
}

// APIKey returns the raw held API key for use as a request credential.
// Display paths must use UserInfo, which redacts it.
func (m *Manager) APIKey() string {
	return m.apiKey
}

// Logout clears all authentication state, in memory and in storage.
// Calling it when already logged out is a no-op.
func (m *Manager) Logout(ctx context.Context) error {
	m.apiKey = ""
	m.userID = ""
	m.consented = false

	if err := m.store.Save(ctx, storage.KeyAPIKey, ""); err != nil {
		return errs.Wrap(errs.StorageUnavailable, "stored API key could not be cleared", err)
	}
	if err := m.store.Save(ctx, storage.KeyConsent, storage.FormatConsent(false)); err != nil {
		return errs.Wrap(errs.StorageUnavailable, "stored consent could not be cleared", err)
	}
	return nil
}
