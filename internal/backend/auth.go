// Copyright (c) 2025 Playcap
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"context"
	"encoding/json"
	"net/http"

	errs "playcap/cli/internal/errors"
)

// ValidateKey calls GET /api/v1/auth/validate with the X-API-Key header.
// It returns the user identifier associated with the key when the backend
// accepts it.
//
// Failures are typed: a rejected key carries the HTTP status text so callers
// can show why the backend refused it, while transport problems carry a
// generic message that never exposes request internals.
func (h *HTTP) ValidateKey(ctx context.Context, apiKey string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+pathValidate, nil)
	if err != nil {
		return "", err
	}
	h.setStandardHeaders(req, apiKey)

	resp, err := h.client.Do(req)
	if err != nil {
		return "", errs.Wrap(errs.ValidationFailed, "unable to reach the validation service", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", errs.New(errs.ValidationFailed, "validation request failed: "+resp.Status)
	}

	var out struct {
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", errs.Wrap(errs.ValidationFailed, "unexpected response from validation service", err)
	}
	if out.UserID == "" {
		return "", errs.New(errs.ValidationFailed, "validation response missing user identifier")
	}
	return out.UserID, nil
}
