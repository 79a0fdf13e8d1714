// Copyright (c) 2025 Playcap
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

// New creates a backend API implementation for the given base URL.
// Returns HTTP client (real backend).
func New(baseURL string) API {
	return newHTTP(baseURL)
}
