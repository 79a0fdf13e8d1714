// Copyright (c) 2025 Playcap
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// InitUpload posts to /tracker/upload/multipart/init and returns the upload id.
func (h *HTTP) InitUpload(ctx context.Context, apiKey, name string, size int64, parts int) (string, error) {
	body, err := json.Marshal(map[string]any{
		"filename":    name,
		"total_size":  size,
		"chunk_count": parts,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+pathUploadInit, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	h.setStandardHeaders(req, apiKey)

	resp, err := h.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("upload init failed: %d %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var out struct {
		UploadID string `json:"upload_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.UploadID == "" {
		return "", fmt.Errorf("upload init returned no upload id")
	}
	return out.UploadID, nil
}

// ChunkUploadURL posts to /tracker/upload/multipart/chunk and returns the
// presigned URL for one part.
func (h *HTTP) ChunkUploadURL(ctx context.Context, apiKey, uploadID string, part int) (string, error) {
	body, err := json.Marshal(map[string]any{
		"upload_id":   uploadID,
		"part_number": part,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+pathUploadChunk, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	h.setStandardHeaders(req, apiKey)

	resp, err := h.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("chunk url request failed: %d %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var out struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.URL == "" {
		return "", fmt.Errorf("chunk url response was empty")
	}
	return out.URL, nil
}

// UploadChunk PUTs raw chunk data to a presigned URL and returns the ETag.
// The presigned URL is used as-is; no API key header is attached.
func (h *HTTP) UploadChunk(ctx context.Context, url string, data []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.ContentLength = int64(len(data))

	resp, err := h.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("chunk upload failed: %d %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	etag := strings.Trim(resp.Header.Get("ETag"), `"`)
	if etag == "" {
		return "", fmt.Errorf("chunk upload returned no etag")
	}
	return etag, nil
}

// CompleteUpload posts the part list to /tracker/upload/multipart/complete.
func (h *HTTP) CompleteUpload(ctx context.Context, apiKey, uploadID string, parts []Part) error {
	body, err := json.Marshal(map[string]any{
		"upload_id": uploadID,
		"parts":     parts,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+pathUploadComplete, bytes.NewReader(body))
	if err != nil {
		return err
	}
	h.setStandardHeaders(req, apiKey)

	resp, err := h.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("upload complete failed: %d %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	return nil
}

// AbortUpload posts to /tracker/upload/multipart/abort/{id}.
func (h *HTTP) AbortUpload(ctx context.Context, apiKey, uploadID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+pathUploadAbort+uploadID, nil)
	if err != nil {
		return err
	}
	h.setStandardHeaders(req, apiKey)

	resp, err := h.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("upload abort failed: %d %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	return nil
}
