package internal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/roster")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "https://api.resend.com", cfg.ResendBaseURL)
	assert.Equal(t, 60*time.Second, cfg.CacheTTL)
	assert.False(t, cfg.CookieSecure)
}

func TestLoadConfigRequiredVars(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "s3cret")
	_, err := LoadConfig()
	assert.Error(t, err)

	t.Setenv("DATABASE_URL", "postgres://localhost/roster")
	t.Setenv("JWT_SECRET", "")
	_, err = LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigCacheTTL(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/roster")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("CACHE_TTL", "5m")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)

	t.Setenv("CACHE_TTL", "soon")
	_, err = LoadConfig()
	assert.Error(t, err)
}
