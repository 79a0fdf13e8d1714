// Copyright (c) 2025 Playcap
// Licensed under the MIT License. See LICENSE file in the project root for details.

package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseConsent(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"canonical true", "true", true},
		{"canonical false", "false", false},
		{"legacy quoted true", `"true"`, true},
		{"legacy quoted false", `"false"`, false},
		{"legacy bare boolean capitalized", "True", true},
		{"numeric true", "1", true},
		{"empty", "", false},
		{"garbage", "yes please", false},
		{"whitespace padded", "  true ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseConsent(tt.input); got != tt.want {
				t.Errorf("ParseConsent(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestConsentRoundTrip(t *testing.T) {
	// Storing the canonical form must parse back to the same boolean.
	for _, v := range []bool{true, false} {
		if got := ParseConsent(FormatConsent(v)); got != v {
			t.Errorf("round-trip of %v came back as %v", v, got)
		}
	}
}

func TestBoltStore(t *testing.T) {
	ctx := context.Background()
	st, err := NewBolt(filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	defer st.Close()

	snap, err := st.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, snap.APIKey)
	require.False(t, snap.Consented)

	require.NoError(t, st.Save(ctx, KeyAPIKey, "sk_test_abc"))
	require.NoError(t, st.Save(ctx, KeyConsent, FormatConsent(true)))

	snap, err = st.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "sk_test_abc", snap.APIKey)
	require.True(t, snap.Consented)

	// Empty value removes the key.
	require.NoError(t, st.Save(ctx, KeyAPIKey, ""))
	snap, err = st.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, snap.APIKey)
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	st := NewMemory()

	// Simulate an older build that persisted a bare JSON boolean.
	st.Seed(KeyConsent, "true")
	st.Seed(KeyAPIKey, "sk_legacy_key")

	snap, err := st.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "sk_legacy_key", snap.APIKey)
	require.True(t, snap.Consented)

	require.NoError(t, st.Save(ctx, KeyConsent, FormatConsent(false)))
	snap, _ = st.Load(ctx)
	require.False(t, snap.Consented)
}
