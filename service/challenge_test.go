package service

import (
	"errors"
	"testing"
	"time"

	"github.com/layer-3/x403auth/core"
	"github.com/layer-3/x403auth/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChallengeIssuerIssue(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	issuer := NewChallengeIssuer(time.Minute, ports.NonceFunc(func() (string, error) { return "n1", nil }), func() time.Time { return now })

	c, err := issuer.Issue()
	require.NoError(t, err)
	assert.Equal(t, "n1", c.Challenge)
	assert.Equal(t, c.Challenge, c.Nonce)
	assert.Equal(t, now.Add(time.Minute), c.ExpiresAt)
	assert.Equal(t, time.Minute, c.ExpiresIn)
}

func TestChallengeIssuerErrors(t *testing.T) {
	failing := NewChallengeIssuer(time.Minute, ports.NonceFunc(func() (string, error) { return "", errors.New("no entropy") }), nil)
	_, err := failing.Issue()
	assert.Error(t, err)

	empty := NewChallengeIssuer(time.Minute, ports.NonceFunc(func() (string, error) { return "", nil }), nil)
	_, err = empty.Issue()
	assert.ErrorIs(t, err, core.ErrNonceGeneration)
}

func TestChallengeIssuerUnique(t *testing.T) {
	issuer := NewAuthenticator().Issuer()
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		c, err := issuer.Issue()
		require.NoError(t, err)
		_, dup := seen[c.Challenge]
		require.False(t, dup)
		seen[c.Challenge] = struct{}{}
	}
}
