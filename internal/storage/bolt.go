// Copyright (c) 2025 Playcap
// Licensed under the MIT License. See LICENSE file in the project root for details.

package storage

import (
	"context"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

var boltBucket = []byte("auth")

// Bolt stores auth values in a local bbolt database. It is the fallback for
// hosts without a usable OS keychain. The database file is created with
// 0600 permissions; values are not additionally encrypted.
type Bolt struct {
	db *bbolt.DB
}

var _ Store = (*Bolt)(nil)

// NewBolt opens (or creates) the bbolt database at path.
func NewBolt(path string) (*Bolt, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open auth store: %w", err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(boltBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init auth store: %w", err)
	}
	return &Bolt{db: db}, nil
}

// Load reads the API key and consent flag. Missing keys load as zero values.
func (b *Bolt) Load(ctx context.Context) (Snapshot, error) {
	var s Snapshot
	err := b.db.View(func(tx *bbolt.Tx) error {
		bk := tx.Bucket(boltBucket)
		if v := bk.Get([]byte(KeyAPIKey)); v != nil {
			s.APIKey = string(v)
		}
		if v := bk.Get([]byte(KeyConsent)); v != nil {
			s.Consented = ParseConsent(string(v))
		}
		return nil
	})
	return s, err
}

// Save writes a single value. An empty value deletes the key.
func (b *Bolt) Save(ctx context.Context, key, value string) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bk := tx.Bucket(boltBucket)
		if value == "" {
			return bk.Delete([]byte(key))
		}
		return bk.Put([]byte(key), []byte(value))
	})
}

func (b *Bolt) Close() error { return b.db.Close() }
