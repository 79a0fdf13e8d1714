// Copyright (c) 2025 Playcap
// Licensed under the MIT License. See LICENSE file in the project root for details.

package upload

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"playcap/cli/internal/backend"
	errs "playcap/cli/internal/errors"
)

// DefaultChunkSize is the multipart chunk size in bytes.
const DefaultChunkSize = 8 << 20

// Stats summarizes one upload run.
type Stats struct {
	Uploaded int
	Failed   int
	Bytes    int64
}

// Uploader ships pending sessions through the backend multipart endpoints.
type Uploader struct {
	api    backend.API
	apiKey string

	// ChunkSize overrides DefaultChunkSize, mainly for tests.
	ChunkSize int
	// Progress, when set, is called once per session with its name and
	// the error outcome (nil on success).
	Progress func(name string, err error)
}

// NewUploader returns an Uploader bound to the given backend and API key.
func NewUploader(api backend.API, apiKey string) *Uploader {
	return &Uploader{api: api, apiKey: apiKey, ChunkSize: DefaultChunkSize}
}

// UploadAll scans root and uploads every pending session. Per-session
// failures are counted, reported through Progress, and do not stop the run.
// When deleteAfter is set, the session directory is removed on success
// instead of being marked uploaded.
func (u *Uploader) UploadAll(ctx context.Context, root string, deleteAfter bool) (Stats, error) {
	var st Stats
	sessions, err := Scan(root)
	if err != nil {
		return st, err
	}

	for _, s := range sessions {
		if err := ctx.Err(); err != nil {
			return st, err
		}
		n, err := u.uploadSession(ctx, s)
		if u.Progress != nil {
			u.Progress(s.Name, err)
		}
		if err != nil {
			st.Failed++
			continue
		}
		st.Uploaded++
		st.Bytes += n
		if deleteAfter {
			if err := os.RemoveAll(s.Dir); err != nil {
				return st, err
			}
		} else if err := s.MarkUploaded(); err != nil {
			return st, err
		}
	}
	return st, nil
}

// uploadSession archives one session and pushes it through init/chunk/complete.
// A failure after init aborts the multipart upload best-effort.
func (u *Uploader) uploadSession(ctx context.Context, s Session) (int64, error) {
	archive, err := u.buildArchive(s)
	if err != nil {
		return 0, errs.Wrap(errs.UploadFailed, "could not archive session "+s.Name, err)
	}
	defer os.Remove(archive)

	f, err := os.Open(archive)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return 0, err
	}
	size := fi.Size()

	chunkSize := u.ChunkSize
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	parts := int((size + int64(chunkSize) - 1) / int64(chunkSize))

	uploadID, err := u.api.InitUpload(ctx, u.apiKey, s.Name+".tar.gz", size, parts)
	if err != nil {
		return 0, errs.Wrap(errs.UploadFailed, "could not start upload for "+s.Name, err)
	}

	var done []backend.Part
	buf := make([]byte, chunkSize)
	for part := 1; part <= parts; part++ {
		n, err := io.ReadFull(f, buf)
		if err != nil && err != io.ErrUnexpectedEOF {
			_ = u.api.AbortUpload(ctx, u.apiKey, uploadID)
			return 0, errs.Wrap(errs.UploadFailed, "could not read archive for "+s.Name, err)
		}
		url, err := u.api.ChunkUploadURL(ctx, u.apiKey, uploadID, part)
		if err != nil {
			_ = u.api.AbortUpload(ctx, u.apiKey, uploadID)
			return 0, errs.Wrap(errs.UploadFailed, fmt.Sprintf("no upload URL for %s part %d", s.Name, part), err)
		}
		etag, err := u.api.UploadChunk(ctx, url, buf[:n])
		if err != nil {
			_ = u.api.AbortUpload(ctx, u.apiKey, uploadID)
			return 0, errs.Wrap(errs.UploadFailed, fmt.Sprintf("upload of %s part %d failed", s.Name, part), err)
		}
		done = append(done, backend.Part{Number: part, ETag: etag})
	}

	if err := u.api.CompleteUpload(ctx, u.apiKey, uploadID, done); err != nil {
		_ = u.api.AbortUpload(ctx, u.apiKey, uploadID)
		return 0, errs.Wrap(errs.UploadFailed, "could not finalize upload for "+s.Name, err)
	}
	return size, nil
}

// buildArchive writes the session's files plus its manifest into a tar.gz
// in the temp dir and returns its path.
func (u *Uploader) buildArchive(s Session) (string, error) {
	out, err := os.CreateTemp("", "playcap-*.tar.gz")
	if err != nil {
		return "", err
	}
	defer out.Close()

	gz := gzip.NewWriter(out)
	tw := tar.NewWriter(gz)

	manifest, err := s.Manifest()
	if err != nil {
		return "", err
	}
	if err := writeTarBytes(tw, "manifest.json", manifest); err != nil {
		return "", err
	}
	for name := range s.Files {
		if err := writeTarFile(tw, filepath.Join(s.Dir, name), name); err != nil {
			return "", err
		}
	}

	if err := tw.Close(); err != nil {
		return "", err
	}
	if err := gz.Close(); err != nil {
		return "", err
	}
	return out.Name(), nil
}

func writeTarBytes(tw *tar.Writer, name string, data []byte) error {
	hdr := &tar.Header{Name: name, Mode: 0o600, Size: int64(len(data))}
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	_, err := tw.Write(data)
	return err
}

func writeTarFile(tw *tar.Writer, path, name string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return err
	}
	hdr := &tar.Header{Name: name, Mode: 0o600, Size: fi.Size()}
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	_, err = io.Copy(tw, f)
	return err
}
