// Copyright (c) 2025 Playcap
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package auth manages client-side authentication state for the Playcap
// desktop client: the API key, the user identity derived from it, and the
// user's consent flag. State is persisted through a storage boundary and
// validated against the backend identity endpoint.
package auth

import "errors"

// State is the externally observable authentication state, derived from
// whether an API key is held and whether consent was granted.
type State int

const (
	// StateUnauthenticated means no API key is held.
	StateUnauthenticated State = iota
	// StateNoConsent means an API key is held but consent was not granted.
	StateNoConsent
	// StateAuthenticated means an API key is held and consent was granted,
	// or the bypass flag is set.
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateNoConsent:
		return "pending consent"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// MethodAPIKey is the fixed authentication method tag reported in Info.
const MethodAPIKey = "api_key"

// keyPrefix is the required prefix of a well-formed API key.
const keyPrefix = "sk_"

// ErrIdentityUnknown is returned by UserInfo when an API key is held but the
// user identity has not been recovered yet (e.g., the key was loaded from
// storage across a restart). Callers should run Revalidate and retry.
var ErrIdentityUnknown = errors.New("user identity unknown: revalidation required")

// Result is the outcome of an API key validation attempt. Failures are soft:
// they are reported here, never raised, and leave state unchanged.
type Result struct {
	OK      bool
	UserID  string
	Message string
}

// Info is a redacted summary of the current authentication state.
// The APIKey field is always the display form, never the full secret.
type Info struct {
	Authenticated bool   `json:"authenticated"`
	HasAPIKey     bool   `json:"hasApiKey"`
	Consented     bool   `json:"hasConsented"`
	Method        string `json:"method"`
	APIKey        string `json:"apiKey,omitempty"`
	UserID        string `json:"userId,omitempty"`
}
