// Copyright (c) 2025 Playcap
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package upload prepares and ships finished recording sessions to the
// backend. A session is one directory produced by the capture client,
// holding the recorded video, the input trace, and session metadata.
package upload

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Duration bounds for a session worth keeping, in seconds.
// Shorter clips carry too little signal; longer ones indicate a recorder
// that failed to rotate.
const (
	MinDuration = 30
	MaxDuration = 610
)

// Required files in every session directory.
const (
	FileVideo    = "video.mp4"
	FileInputs   = "inputs.csv"
	FileMetadata = "metadata.json"
)

// Marker files controlling the scan.
const (
	markerUploaded = ".uploaded"
	markerInvalid  = ".invalid"
)

// FileEntry describes one file in the session manifest.
type FileEntry struct {
	Hash string `json:"hash"`
	Size int64  `json:"size"`
}

// Session is one pending recording directory.
type Session struct {
	Dir      string
	Name     string
	Duration float64
	Files    map[string]FileEntry
}

// sessionMeta is the subset of metadata.json the scanner needs.
type sessionMeta struct {
	Duration float64 `json:"duration"`
}

// Scan walks the recordings root and collects sessions pending upload.
// Directories carrying an uploaded or invalid marker are skipped; sessions
// outside the duration bounds are marked invalid so they are not examined
// again. A missing root is not an error; it scans as empty.
func Scan(root string) ([]Session, error) {
	var sessions []Session
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root && errors.Is(err, fs.ErrNotExist) {
				return filepath.SkipAll
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if !hasFile(path, FileVideo) || !hasFile(path, FileInputs) || !hasFile(path, FileMetadata) {
			return nil
		}
		if hasFile(path, markerUploaded) || hasFile(path, markerInvalid) {
			return filepath.SkipDir
		}

		s, err := load(path)
		if err != nil {
			return fmt.Errorf("session %s: %w", path, err)
		}
		if s.Duration < MinDuration || s.Duration > MaxDuration {
			if err := writeMarker(path, markerInvalid); err != nil {
				return err
			}
			return filepath.SkipDir
		}
		sessions = append(sessions, s)
		return filepath.SkipDir
	})
	return sessions, err
}

// load builds a Session from a directory, hashing every required file.
func load(dir string) (Session, error) {
	s := Session{
		Dir:   dir,
		Name:  filepath.Base(dir),
		Files: map[string]FileEntry{},
	}

	raw, err := os.ReadFile(filepath.Join(dir, FileMetadata))
	if err != nil {
		return s, err
	}
	var meta sessionMeta
	if err := json.Unmarshal(raw, &meta); err != nil {
		return s, fmt.Errorf("parse metadata: %w", err)
	}
	s.Duration = meta.Duration

	for _, name := range []string{FileVideo, FileInputs, FileMetadata} {
		path := filepath.Join(dir, name)
		hash, size, err := hashFile(path)
		if err != nil {
			return s, err
		}
		s.Files[name] = FileEntry{Hash: hash, Size: size}
	}
	return s, nil
}

// Manifest returns the serialized session manifest included in the archive.
func (s Session) Manifest() ([]byte, error) {
	return json.MarshalIndent(map[string]any{
		"session":  s.Name,
		"duration": s.Duration,
		"files":    s.Files,
	}, "", "  ")
}

// MarkUploaded writes the uploaded marker so the session is skipped on the
// next scan.
func (s Session) MarkUploaded() error {
	return writeMarker(s.Dir, markerUploaded)
}

func hasFile(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}

func writeMarker(dir, name string) error {
	return os.WriteFile(filepath.Join(dir, name), nil, 0o600)
}

// hashFile computes the SHA-256 of a file without loading it whole.
func hashFile(path string) (string, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()

	h := sha256.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return "", 0, err
	}
	return hex.EncodeToString(h.Sum(nil)), n, nil
}
