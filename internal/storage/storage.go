// Copyright (c) 2025 Playcap
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package storage implements durable key-value persistence for authentication
// state. Values are string-typed; the API key and consent flag are stored
// under fixed keys. The OS keychain is preferred, with a local bbolt database
// as fallback on hosts without a usable keychain.
package storage

import (
	"context"
	"strconv"
	"strings"
)

// Keys under which auth values are persisted.
const (
	KeyAPIKey  = "api_key"
	KeyConsent = "has_consented"
)

// Snapshot is the result of loading all persisted auth values at once.
// Missing values load as zero values.
type Snapshot struct {
	APIKey    string
	Consented bool
}

// Store is the durable key-value boundary consumed by the auth manager.
// Implementations own at-rest security; callers treat values as opaque
// strings.
type Store interface {
	// Load reads all persisted auth values. A missing value is not an
	// error; it loads as the zero value.
	Load(ctx context.Context) (Snapshot, error)
	// Save writes a single string value under key.
	Save(ctx context.Context, key, value string) error
	Close() error
}

// ParseConsent interprets a persisted consent value. Current builds write
// the canonical strings "true"/"false"; older builds wrote a bare JSON
// boolean or a quoted string, so those forms are accepted when reading back.
func ParseConsent(raw string) bool {
	s := strings.TrimSpace(raw)
	s = strings.Trim(s, `"`)
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false
	}
	return v
}

// FormatConsent returns the canonical persisted form of a consent flag.
func FormatConsent(v bool) string {
	if v {
		return "true"
	}
	return "false"
}
