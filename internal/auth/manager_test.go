// Copyright (c) 2025 Playcap
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import (
	"context"
	"errors"
	"testing"

	"playcap/cli/internal/backend"
	errs "playcap/cli/internal/errors"
	"playcap/cli/internal/storage"

	"github.com/stretchr/testify/require"
)

// ---- fake validation port ----

type fakeAPI struct {
	userID string
	err    error

	validateCalls int
	lastKey       string
}

func (f *fakeAPI) ValidateKey(ctx context.Context, apiKey string) (string, error) {
	f.validateCalls++
	f.lastKey = apiKey
	if f.err != nil {
		return "", f.err
	}
	return f.userID, nil
}

func (f *fakeAPI) GetVersion(ctx context.Context) (string, error) { return "test", nil }
func (f *fakeAPI) InitUpload(ctx context.Context, apiKey, name string, size int64, parts int) (string, error) {
	return "", errors.New("not implemented")
}
func (f *fakeAPI) ChunkUploadURL(ctx context.Context, apiKey, uploadID string, part int) (string, error) {
	return "", errors.New("not implemented")
}
func (f *fakeAPI) UploadChunk(ctx context.Context, url string, data []byte) (string, error) {
	return "", errors.New("not implemented")
}
func (f *fakeAPI) CompleteUpload(ctx context.Context, apiKey, uploadID string, parts []backend.Part) error {
	return errors.New("not implemented")
}
func (f *fakeAPI) AbortUpload(ctx context.Context, apiKey, uploadID string) error {
	return errors.New("not implemented")
}

var _ backend.API = (*fakeAPI)(nil)

// ---- failing store ----

type failingStore struct {
	*storage.Memory
	saveErr error
}

func (s *failingStore) Save(ctx context.Context, key, value string) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	return s.Memory.Save(ctx, key, value)
}

// ---- tests ----

func newManager(t *testing.T, api *fakeAPI) (*Manager, *storage.Memory) {
	t.Helper()
	st := storage.NewMemory()
	return New(context.Background(), st, api, Options{}), st
}

func TestValidateEmptyKey(t *testing.T) {
	for _, raw := range []string{"", "   ", "\t\n"} {
		api := &fakeAPI{userID: "u1"}
		m, st := newManager(t, api)

		res := m.ValidateAPIKey(context.Background(), raw)
		require.False(t, res.OK)
		require.Equal(t, "API key cannot be empty", res.Message)
		require.Zero(t, api.validateCalls)

		_, stored := st.Get(storage.KeyAPIKey)
		require.False(t, stored)
	}
}

func TestValidateMalformedKey(t *testing.T) {
	for _, raw := range []string{"bad_format", "SK_upper", "abc", "sk"} {
		api := &fakeAPI{userID: "u1"}
		m, _ := newManager(t, api)

		res := m.ValidateAPIKey(context.Background(), raw)
		require.False(t, res.OK, "key %q must be rejected", raw)
		require.Equal(t, "Invalid API key format", res.Message)
		require.Zero(t, api.validateCalls, "key %q must not reach the network", raw)
	}
}

func TestValidateSuccess(t *testing.T) {
	api := &fakeAPI{userID: "u1"}
	m, st := newManager(t, api)

	res := m.ValidateAPIKey(context.Background(), "sk_abc123")
	require.True(t, res.OK)
	require.Equal(t, "u1", res.UserID)
	require.Equal(t, "sk_abc123", api.lastKey)

	require.True(t, m.HasCredential())
	require.False(t, m.IsAuthenticated()) // no consent yet
	require.Equal(t, StateNoConsent, m.State())

	v, ok := st.Get(storage.KeyAPIKey)
	require.True(t, ok)
	require.Equal(t, "sk_abc123", v)
}

func TestValidateSuccessWithPriorConsent(t *testing.T) {
	st := storage.NewMemory()
	st.Seed(storage.KeyConsent, "true")
	api := &fakeAPI{userID: "u1"}
	m := New(context.Background(), st, api, Options{})

	res := m.ValidateAPIKey(context.Background(), "sk_abc123")
	require.True(t, res.OK)
	require.True(t, m.IsAuthenticated())
	require.Equal(t, StateAuthenticated, m.State())
}

func TestValidateRejectedKeepsState(t *testing.T) {
	api := &fakeAPI{userID: "u1"}
	m, _ := newManager(t, api)
	require.True(t, m.ValidateAPIKey(context.Background(), "sk_first").OK)

	api.err = errs.New(errs.ValidationFailed, "validation request failed: 401 Unauthorized")
	res := m.ValidateAPIKey(context.Background(), "sk_second")
	require.False(t, res.OK)
	require.Contains(t, res.Message, "401 Unauthorized")

	// In-memory credential unchanged by the failed attempt.
	require.Equal(t, "sk_first", m.APIKey())
}

func TestValidateTransportFailure(t *testing.T) {
	api := &fakeAPI{err: errs.Wrap(errs.ValidationFailed, "unable to reach the validation service", errors.New("dial tcp: refused"))}
	m, _ := newManager(t, api)

	res := m.ValidateAPIKey(context.Background(), "sk_abc123")
	require.False(t, res.OK)
	require.Equal(t, "unable to reach the validation service", res.Message)
	require.False(t, m.HasCredential())
}

func TestValidateOverwritesPreviousKey(t *testing.T) {
	api := &fakeAPI{userID: "u1"}
	m, st := newManager(t, api)
	require.True(t, m.ValidateAPIKey(context.Background(), "sk_first").OK)

	api.userID = "u2"
	res := m.ValidateAPIKey(context.Background(), "sk_second")
	require.True(t, res.OK)
	require.Equal(t, "u2", res.UserID)
	require.Equal(t, "sk_second", m.APIKey())

	v, _ := st.Get(storage.KeyAPIKey)
	require.Equal(t, "sk_second", v)
}

func TestRecordConsent(t *testing.T) {
	api := &fakeAPI{userID: "u1"}
	m, st := newManager(t, api)

	// Consent without a credential never authenticates.
	require.NoError(t, m.RecordConsent(context.Background(), true))
	require.False(t, m.IsAuthenticated())

	require.True(t, m.ValidateAPIKey(context.Background(), "sk_abc123").OK)
	require.True(t, m.IsAuthenticated())

	// Canonical string form is what gets persisted.
	v, ok := st.Get(storage.KeyConsent)
	require.True(t, ok)
	require.Equal(t, "true", v)

	// Revoking demotes even when previously authenticated.
	require.NoError(t, m.RecordConsent(context.Background(), false))
	require.False(t, m.IsAuthenticated())
	require.Equal(t, StateNoConsent, m.State())
}

func TestRecordConsentStorageFailure(t *testing.T) {
	st := &failingStore{Memory: storage.NewMemory(), saveErr: errors.New("keychain locked")}
	m := New(context.Background(), st, &fakeAPI{userID: "u1"}, Options{})

	err := m.RecordConsent(context.Background(), true)
	require.Error(t, err)

	var e *errs.E
	require.True(t, errors.As(err, &e))
	require.Equal(t, errs.StorageUnavailable, e.Kind)

	// The current process still observes the choice.
	require.True(t, m.Consented())
}

func TestLogout(t *testing.T) {
	api := &fakeAPI{userID: "u1"}
	m, st := newManager(t, api)
	require.True(t, m.ValidateAPIKey(context.Background(), "sk_abc123").OK)
	require.NoError(t, m.RecordConsent(context.Background(), true))

	require.NoError(t, m.Logout(context.Background()))
	require.False(t, m.HasCredential())
	require.False(t, m.IsAuthenticated())
	require.Equal(t, StateUnauthenticated, m.State())

	_, stored := st.Get(storage.KeyAPIKey)
	require.False(t, stored)
	v, _ := st.Get(storage.KeyConsent)
	require.Equal(t, "false", v)

	// Idempotent.
	require.NoError(t, m.Logout(context.Background()))
}

func TestLoadFromStorage(t *testing.T) {
	st := storage.NewMemory()
	st.Seed(storage.KeyAPIKey, "sk_persisted_key")
	st.Seed(storage.KeyConsent, "true")

	m := New(context.Background(), st, &fakeAPI{userID: "u1"}, Options{})
	require.True(t, m.HasCredential())
	require.True(t, m.IsAuthenticated())
}

func TestLoadFailureYieldsDefaults(t *testing.T) {
	st := &loadFailStore{}
	m := New(context.Background(), st, &fakeAPI{}, Options{})
	require.False(t, m.HasCredential())
	require.False(t, m.IsAuthenticated())
}

type loadFailStore struct{}

func (s *loadFailStore) Load(ctx context.Context) (storage.Snapshot, error) {
	return storage.Snapshot{}, errors.New("backend unavailable")
}
func (s *loadFailStore) Save(ctx context.Context, key, value string) error { return nil }
func (s *loadFailStore) Close() error                                      { return nil }

func TestUserInfoNoCredential(t *testing.T) {
	m, _ := newManager(t, &fakeAPI{})
	info, err := m.UserInfo()
	require.NoError(t, err)
	require.False(t, info.Authenticated)
	require.False(t, info.HasAPIKey)
}

func TestUserInfoNeedsRevalidation(t *testing.T) {
	st := storage.NewMemory()
	st.Seed(storage.KeyAPIKey, "sk_persisted_key")
	api := &fakeAPI{userID: "u1"}
	m := New(context.Background(), st, api, Options{})

	// Identity was not recovered yet; UserInfo must not do hidden I/O.
	_, err := m.UserInfo()
	require.ErrorIs(t, err, ErrIdentityUnknown)
	require.Zero(t, api.validateCalls)

	require.NoError(t, m.Revalidate(context.Background()))
	info, err := m.UserInfo()
	require.NoError(t, err)
	require.Equal(t, "u1", info.UserID)
}

func TestRevalidateFailureIsHard(t *testing.T) {
	st := storage.NewMemory()
	st.Seed(storage.KeyAPIKey, "sk_persisted_key")
	api := &fakeAPI{err: errs.New(errs.ValidationFailed, "validation request failed: 401 Unauthorized")}
	m := New(context.Background(), st, api, Options{})

	err := m.Revalidate(context.Background())
	require.Error(t, err)

	var e *errs.E
	require.True(t, errors.As(err, &e))
	require.Equal(t, errs.RevalidationFailed, e.Kind)
}

func TestUserInfoScenario(t *testing.T) {
	api := &fakeAPI{userID: "u1"}
	m, _ := newManager(t, api)

	res := m.ValidateAPIKey(context.Background(), "sk_abc123")
	require.True(t, res.OK)
	require.Equal(t, "u1", res.UserID)

	info, err := m.UserInfo()
	require.NoError(t, err)
	require.False(t, info.Authenticated) // no consent yet
	require.True(t, info.HasAPIKey)
	require.Equal(t, "u1", info.UserID)
	require.Equal(t, MethodAPIKey, info.Method)
	require.Equal(t, "sk_abc123...", info.APIKey)
}

func TestUserInfoRedaction(t *testing.T) {
	key := "sk_abcdefghijklmnopqrstuvwxyz"
	api := &fakeAPI{userID: "u1"}
	m, _ := newManager(t, api)
	require.True(t, m.ValidateAPIKey(context.Background(), key).OK)

	info, err := m.UserInfo()
	require.NoError(t, err)
	require.Equal(t, key[:10]+"...", info.APIKey)
	require.NotContains(t, info.APIKey, key[10:])
}

func TestBypass(t *testing.T) {
	m := New(context.Background(), storage.NewMemory(), &fakeAPI{}, Options{BypassAuth: true})
	require.True(t, m.IsAuthenticated())
	require.False(t, m.HasCredential())
	require.Equal(t, StateAuthenticated, m.State())

	// No credential held, so the summary still reports unauthenticated.
	info, err := m.UserInfo()
	require.NoError(t, err)
	require.False(t, info.HasAPIKey)
}
