// Copyright (c) 2025 Playcap
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package logging provides utilities for secure logging and error presentation.
// It includes functions for masking sensitive information in log messages and
// redacting API keys for user-facing display while protecting the full secret.
//
// The package helps ensure that sensitive data like API keys and tokens are
// not accidentally exposed in logs or messages shown to users.
package logging

import (
	"regexp"
)

var (
	reToken  = regexp.MustCompile(`(?i)(token=|bearer\s+)([A-Za-z0-9._-]+)`)
	reAPIKey = regexp.MustCompile(`(?i)(apikey=|api_key=|x-api-key:\s*)([^\s;]+)`)
	reSecret = regexp.MustCompile(`\bsk_[A-Za-z0-9_-]+`)
)

// Mask replaces sensitive values in the input string with "*".
// Bare "sk_..." keys are replaced entirely.
func Mask(s string) string {
	out := s
	out = reToken.ReplaceAllString(out, "$1***")
	out = reAPIKey.ReplaceAllString(out, "$1***")
	out = reSecret.ReplaceAllString(out, "sk_***")
	return out
}

// RedactAPIKey returns a display form of an API key: the first 10 characters
// followed by "...". The full secret is never returned. Keys shorter than
// 10 characters are returned whole with the ellipsis suffix.
func RedactAPIKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) > 10 {
		key = key[:10]
	}
	return key + "..."
}
