// Copyright (c) 2025 Playcap
// Licensed under the MIT License. See LICENSE file in the project root for details.

package storage

import (
	"context"
	"errors"
	"runtime"
	"sync"

	"github.com/99designs/keyring"
)

// ServiceName identifies our keychain/credential store namespace.
const ServiceName = "playcap"

// Keychain stores auth values in the OS keychain via the keyring library.
// Operations are thread-safe.
type Keychain struct {
	mu   sync.RWMutex
	ring keyring.Keyring
}

var _ Store = (*Keychain)(nil)

// NewKeychain opens the OS keyring using native platform backends only.
// Returns an error on platforms without a supported credential store, in
// which case callers should fall back to the bbolt store.
func NewKeychain() (*Keychain, error) {
	if runtime.GOOS != "darwin" && runtime.GOOS != "windows" {
		return nil, errors.New("OS keychain not supported on this platform")
	}

	var allowedBackends []keyring.BackendType
	if runtime.GOOS == "darwin" {
		// Try macOS Keychain first, then pass (password store) as fallback
		allowedBackends = []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.PassBackend,
		}
	} else {
		allowedBackends = []keyring.BackendType{keyring.WinCredBackend}
	}

	cfg := keyring.Config{
		ServiceName:     ServiceName,
		AllowedBackends: allowedBackends,
		PassPrefix:      ServiceName,
	}
	if runtime.GOOS == "windows" {
		cfg.WinCredPrefix = ServiceName
	}

	ring, err := keyring.Open(cfg)
	if err != nil {
		return nil, err
	}
	return &Keychain{ring: ring}, nil
}

// Load reads the API key and consent flag from the keychain.
// Missing items load as zero values.
func (k *Keychain) Load(ctx context.Context) (Snapshot, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	var s Snapshot
	if it, err := k.ring.Get(KeyAPIKey); err == nil {
		s.APIKey = string(it.Data)
	} else if !errors.Is(err, keyring.ErrKeyNotFound) {
		return s, err
	}
	if it, err := k.ring.Get(KeyConsent); err == nil {
		s.Consented = ParseConsent(string(it.Data))
	} else if !errors.Is(err, keyring.ErrKeyNotFound) {
		return s, err
	}
	return s, nil
}

// Save writes a single value to the keychain. An empty value removes the
// item so a cleared credential does not linger in the credential store.
func (k *Keychain) Save(ctx context.Context, key, value string) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if value == "" {
		if err := k.ring.Remove(key); err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
			return err
		}
		return nil
	}
	return k.ring.Set(keyring.Item{Key: key, Data: []byte(value)})
}

func (k *Keychain) Close() error { return nil }
