// Copyright (c) 2025 Playcap
// Licensed under the MIT License. See LICENSE file in the project root for details.

package storage

import (
	"path/filepath"

	"playcap/cli/internal/xdg"
)

// Open returns the best available store for this host: the OS keychain when
// supported, otherwise a bbolt database in the XDG state directory.
func Open() (Store, error) {
	if kc, err := NewKeychain(); err == nil {
		return kc, nil
	}
	dir, err := xdg.StateDir()
	if err != nil {
		return nil, err
	}
	return NewBolt(filepath.Join(dir, "auth.db"))
}
