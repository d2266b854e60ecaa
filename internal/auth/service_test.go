package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *Service {
	return NewService(nil, "elekable", []byte("test-secret"), time.Hour, 24*time.Hour)
}

func TestTokenRoundTrip(t *testing.T) {
	s := newTestService()

	access, err := s.AccessToken(42)
	require.NoError(t, err)
	refresh, err := s.RefreshToken(42)
	require.NoError(t, err)

	userID, err := s.ParseToken(access, TokenUseAccess)
	assert.NoError(t, err)
	assert.Equal(t, int64(42), userID)

	userID, err = s.ParseToken(refresh, TokenUseRefresh)
	assert.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestParseTokenRejectsWrongUse(t *testing.T) {
	s := newTestService()

	access, err := s.AccessToken(7)
	require.NoError(t, err)
	refresh, err := s.RefreshToken(7)
	require.NoError(t, err)

	// An access token must never pass for a refresh token, and vice versa.
	_, err = s.ParseToken(access, TokenUseRefresh)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = s.ParseToken(refresh, TokenUseAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	s := NewService(nil, "elekable", []byte("test-secret"), -time.Minute, -time.Minute)

	access, err := s.AccessToken(7)
	require.NoError(t, err)
	refresh, err := s.RefreshToken(7)
	require.NoError(t, err)

	_, err = s.ParseToken(access, TokenUseAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// Expired refresh tokens do not yield new access tokens.
	_, err = s.Refresh(refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenRejectsForeignIssuerAndSecret(t *testing.T) {
	s := newTestService()
	otherIssuer := NewService(nil, "someone-else", []byte("test-secret"), time.Hour, 24*time.Hour)
	otherSecret := NewService(nil, "elekable", []byte("other-secret"), time.Hour, 24*time.Hour)

	tok, err := otherIssuer.AccessToken(7)
	require.NoError(t, err)
	_, err = s.ParseToken(tok, TokenUseAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)

	tok, err = otherSecret.AccessToken(7)
	require.NoError(t, err)
	_, err = s.ParseToken(tok, TokenUseAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	s := newTestService()
	for _, tok := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := s.ParseToken(tok, TokenUseAccess)
		assert.ErrorIs(t, err, ErrInvalidToken)
	}
}

func TestRefreshIssuesUsableAccessToken(t *testing.T) {
	s := newTestService()

	refresh, err := s.RefreshToken(99)
	require.NoError(t, err)
	access, err := s.Refresh(refresh)
	require.NoError(t, err)

	userID, err := s.ParseToken(access, TokenUseAccess)
	assert.NoError(t, err)
	assert.Equal(t, int64(99), userID)
}
