package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

// Fixed endpoint paths on the backend service.
const (
	pathValidate       = "/api/v1/auth/validate"
	pathVersion        = "/api/version"
	pathUploadInit     = "/tracker/upload/multipart/init"
	pathUploadChunk    = "/tracker/upload/multipart/chunk"
	pathUploadComplete = "/tracker/upload/multipart/complete"
	pathUploadAbort    = "/tracker/upload/multipart/abort/"
)

// HTTP implements API client over REST endpoints.
// It provides methods for API-key validation, version checking, and
// multipart uploads of recording sessions.
type HTTP struct {
	// baseURL is the base URL for all HTTP requests (e.g., "https://api.playcap.dev")
	baseURL string
	// client is the underlying HTTP client with configured timeout
	client *http.Client
}

// newHTTP creates a new HTTP client with the given base URL.
// It configures a 10-second timeout for all requests.
func newHTTP(baseURL string) *HTTP {
	return &HTTP{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// setStandardHeaders applies headers common to all JSON API calls.
func (h *HTTP) setStandardHeaders(req *http.Request, apiKey string) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, */*")
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}
}

// GetVersion calls GET /api/version and returns the version string when available.
// No authentication required. This can be used to check connectivity to the backend service.
func (h *HTTP) GetVersion(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+pathVersion, nil)
	if err != nil {
		return "", err
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "unknown", nil
	}
	var out struct {
		Version string `json:"version"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.Version == "" {
		return "unknown", nil
	}
	return out.Version, nil
}
