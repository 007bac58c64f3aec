package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSigner_RoundTrip(t *testing.T) {
	signer, err := NewSigner("secret", "neighborly")
	require.NoError(t, err)

	raw, err := signer.Issue("user-1", "session-1", time.Now().Add(time.Hour))
	require.NoError(t, err)

	claims, err := signer.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "session-1", claims.SessionID)
	assert.Equal(t, "user-1", claims.Subject)
}

func TestSigner_Rejects(t *testing.T) {
	signer, err := NewSigner("secret", "neighborly")
	require.NoError(t, err)
	other, err := NewSigner("other-secret", "neighborly")
	require.NoError(t, err)
	foreign, err := NewSigner("secret", "someone-else")
	require.NoError(t, err)

	expired, err := signer.Issue("user-1", "s", time.Now().Add(-time.Minute))
	require.NoError(t, err)
	wrongKey, err := other.Issue("user-1", "s", time.Now().Add(time.Hour))
	require.NoError(t, err)
	wrongIssuer, err := foreign.Issue("user-1", "s", time.Now().Add(time.Hour))
	require.NoError(t, err)
	noUser, err := signer.Issue("", "s", time.Now().Add(time.Hour))
	require.NoError(t, err)

	for name, raw := range map[string]string{
		"expired":      expired,
		"wrong key":    wrongKey,
		"wrong issuer": wrongIssuer,
		"no user":      noUser,
		"garbage":      "not-a-token",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := signer.Parse(raw)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestNewSigner_RequiresSecret(t *testing.T) {
	_, err := NewSigner("", "neighborly")
	assert.ErrorIs(t, err, ErrMissingKey)
}
