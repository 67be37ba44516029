package main

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signTestToken(t *testing.T, claims map[string]any) string {
	t.Helper()

	privKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	signer, err := jose.NewSigner(jose.SigningKey{Algorithm: jose.RS256, Key: privKey}, &jose.SignerOptions{})
	require.NoError(t, err)

	payload, err := json.Marshal(claims)
	require.NoError(t, err)

	jws, err := signer.Sign(payload)
	require.NoError(t, err)

	token, err := jws.CompactSerialize()
	require.NoError(t, err)
	return token
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(24 * time.Hour).Unix()
	token := signTestToken(t, map[string]any{
		"sub": "user-1",
		"exp": exp,
	})

	expiry, ok := tokenExpiry(token)
	require.True(t, ok)
	assert.Equal(t, exp, expiry.Unix())
}

func TestTokenExpiryMissingClaim(t *testing.T) {
	token := signTestToken(t, map[string]any{"sub": "user-1"})

	_, ok := tokenExpiry(token)
	assert.False(t, ok)
}

func TestTokenExpiryMalformed(t *testing.T) {
	for _, token := range []string{"", "not-a-token", "a.b", "a.b.c"} {
		_, ok := tokenExpiry(token)
		assert.False(t, ok, "token %q should not parse", token)
	}
}
