package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":8080")
	t.Setenv("DB_DSN", "postgres://localhost/elekable_test")
	t.Setenv("JWT_ISSUER", "elekable")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("INTERNAL_API_TOKEN", "internal-test")
	t.Setenv("JWT_ACCESS_TTL", "")
	t.Setenv("JWT_REFRESH_TTL", "")
	t.Setenv("WS_ORIGIN", "")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", c.HTTPAddr)
	assert.Equal(t, 24*time.Hour, c.AccessTTL)
	assert.Equal(t, 30*24*time.Hour, c.RefreshTTL)
	assert.Equal(t, "*", c.WSOrigin)
}

func TestLoadListsAllMissing(t *testing.T) {
	setRequired(t)
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required env:")
	assert.Contains(t, err.Error(), "HTTP_ADDR")
	assert.Contains(t, err.Error(), "JWT_SECRET")
	assert.NotContains(t, err.Error(), "DB_DSN")
}

func TestLoadParsesTTLs(t *testing.T) {
	setRequired(t)
	t.Setenv("JWT_ACCESS_TTL", "15m")
	t.Setenv("JWT_REFRESH_TTL", "168h")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, c.AccessTTL)
	assert.Equal(t, 168*time.Hour, c.RefreshTTL)
}

func TestLoadRejectsBadTTL(t *testing.T) {
	setRequired(t)
	t.Setenv("JWT_ACCESS_TTL", "soon")

	_, err := Load()
	assert.ErrorContains(t, err, "invalid JWT_ACCESS_TTL")
}

func TestLoadRejectsRefreshShorterThanAccess(t *testing.T) {
	setRequired(t)
	t.Setenv("JWT_ACCESS_TTL", "24h")
	t.Setenv("JWT_REFRESH_TTL", "1h")

	_, err := Load()
	assert.ErrorContains(t, err, "JWT_REFRESH_TTL must be longer than JWT_ACCESS_TTL")
}
