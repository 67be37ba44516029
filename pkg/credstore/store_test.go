package credstore

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veritasnet/veritas-cli/pkg/errs"
	"github.com/veritasnet/veritas-cli/pkg/signing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestLoadCreatesDefaultConfigOnFirstRun(t *testing.T) {
	store := newTestStore(t)

	cfg, err := store.Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultServerURL, cfg.Server)
	assert.False(t, cfg.HasKeyPair())
	assert.False(t, cfg.HasSession())

	// First load persists the defaults.
	_, err = os.Stat(store.Path())
	assert.NoError(t, err)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := newTestStore(t)

	kp, err := signing.GenerateKeyPair()
	require.NoError(t, err)

	want := &Config{
		Server:  "https://truth.example.org",
		KeyPair: kp,
		Token:   "session-token",
	}
	require.NoError(t, store.Save(want))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSaveRestrictsFilePermissions(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Save(&Config{Server: DefaultServerURL}))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestGenerateIsIdempotentWithoutForce(t *testing.T) {
	store := newTestStore(t)

	first, err := store.Generate(false)
	require.NoError(t, err)
	assert.True(t, first.Generated)
	assert.NotEmpty(t, first.Fingerprint)

	second, err := store.Generate(false)
	require.NoError(t, err)
	assert.False(t, second.Generated)
	assert.Equal(t, first.Fingerprint, second.Fingerprint)
	assert.Equal(t, first.PublicKeyPEM, second.PublicKeyPEM)
}

func TestGenerateForceReplacesKeyAndClearsSession(t *testing.T) {
	store := newTestStore(t)

	first, err := store.Generate(false)
	require.NoError(t, err)
	require.NoError(t, store.SetSession("old-session"))

	second, err := store.Generate(true)
	require.NoError(t, err)
	assert.True(t, second.Generated)
	assert.NotEqual(t, first.Fingerprint, second.Fingerprint)

	cfg, err := store.Load()
	require.NoError(t, err)
	assert.False(t, cfg.HasSession())
	assert.Equal(t, second.PublicKeyPEM, cfg.KeyPair.PublicKeyPEM)
}

func TestSessionLifecycle(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.SetSession("tok-123"))
	cfg, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok-123", cfg.Token)

	require.NoError(t, store.ClearSession())
	cfg, err = store.Load()
	require.NoError(t, err)
	assert.False(t, cfg.HasSession())
}

func TestSetServerPersists(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.SetServer("http://localhost:3000"))

	cfg, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000", cfg.Server)
}

func TestLoadRejectsCorruptFileWithoutOverwriting(t *testing.T) {
	store := newTestStore(t)

	corrupt := []byte("{ this is not json")
	require.NoError(t, os.WriteFile(store.Path(), corrupt, 0600))

	_, err := store.Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrPersistence))

	// The unparseable file must survive for manual recovery.
	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Equal(t, corrupt, data)
}

func TestLoadFillsMissingServerWithDefault(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, os.WriteFile(store.Path(), []byte(`{"token":"t"}`), 0600))

	cfg, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultServerURL, cfg.Server)
	assert.Equal(t, "t", cfg.Token)
}

func TestConfigFileLayout(t *testing.T) {
	store := newTestStore(t)

	kp, err := signing.GenerateKeyPair()
	require.NoError(t, err)
	require.NoError(t, store.Save(&Config{Server: "https://s", KeyPair: kp, Token: "t"}))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)

	// Other clients read this file; the top-level field names are fixed.
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Contains(t, raw, "server")
	assert.Contains(t, raw, "keyPair")
	assert.Contains(t, raw, "token")

	var keyPair map[string]string
	require.NoError(t, json.Unmarshal(raw["keyPair"], &keyPair))
	assert.Contains(t, keyPair, "publicKey")
	assert.Contains(t, keyPair, "privateKey")
}

func TestExportPublicJWK(t *testing.T) {
	store := newTestStore(t)

	info, err := store.Generate(false)
	require.NoError(t, err)

	jwk, err := store.ExportPublicJWK()
	require.NoError(t, err)
	assert.Equal(t, info.Fingerprint, jwk.KeyID)
	assert.Equal(t, "RS256", jwk.Algorithm)
	assert.Equal(t, "sig", jwk.Use)
	assert.True(t, jwk.Valid())
	assert.True(t, jwk.IsPublic())
}

func TestExportPublicJWKWithoutKeyIsPrecondition(t *testing.T) {
	store := newTestStore(t)

	_, err := store.ExportPublicJWK()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrPrecondition))
}

func TestDefaultDirHonorsEnvOverride(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "custom-home")
	t.Setenv("VERITAS_HOME", dir)

	assert.Equal(t, dir, DefaultDir())
}
