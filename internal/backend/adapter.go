// Copyright (c) 2025 Playcap
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package backend provides interfaces and implementations for communicating with the Playcap backend service.
// It defines the API contract for API-key validation, version checking, and recording uploads.
// The package includes both interface definitions and HTTP-based implementations.
package backend

import "context"

// Part identifies one uploaded chunk of a multipart upload.
type Part struct {
	Number int    `json:"part_number"`
	ETag   string `json:"etag"`
}

// API defines backend operations the CLI depends on.
// Implementations may call real HTTP endpoints or provide mocks for tests.
type API interface {
	GetVersion(ctx context.Context) (string, error)
	// ValidateKey checks an API key against the identity endpoint and
	// returns the associated user identifier when the key is accepted.
	ValidateKey(ctx context.Context, apiKey string) (userID string, err error)
	// InitUpload starts a multipart upload for one session archive and
	// returns the upload identifier.
	InitUpload(ctx context.Context, apiKey, name string, size int64, parts int) (uploadID string, err error)
	// ChunkUploadURL returns a presigned URL for uploading one part.
	ChunkUploadURL(ctx context.Context, apiKey, uploadID string, part int) (string, error)
	// UploadChunk PUTs one part to its presigned URL and returns the ETag.
	UploadChunk(ctx context.Context, url string, data []byte) (etag string, err error)
	// CompleteUpload finalizes a multipart upload.
	CompleteUpload(ctx context.Context, apiKey, uploadID string, parts []Part) error
	// AbortUpload cancels an in-flight multipart upload (best-effort).
	AbortUpload(ctx context.Context, apiKey, uploadID string) error
}
