package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"APP_ENV", "DATABASE_URL", "JWT_SECRET", "JWT_ISSUER",
		"JWT_AUDIENCE", "JWT_ACCESS_TTL", "REFRESH_TTL",
	} {
		t.Setenv(name, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.AppEnv)
	assert.Equal(t, "blogauth.db", cfg.DatabaseURL)
	assert.Equal(t, "blogauth", cfg.JWTIssuer)
	assert.Equal(t, "blogauth-clients", cfg.JWTAudience)
	assert.Equal(t, 2000*time.Minute, cfg.AccessTTL)
	assert.Equal(t, 4380*time.Hour, cfg.RefreshTTL)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/blogauth")
	t.Setenv("JWT_ACCESS_TTL", "15m")
	t.Setenv("REFRESH_TTL", "720h")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost/blogauth", cfg.DatabaseURL)
	assert.Equal(t, 15*time.Minute, cfg.AccessTTL)
	assert.Equal(t, 720*time.Hour, cfg.RefreshTTL)
}

func TestLoad_RejectsBadDurations(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_ACCESS_TTL", "soon")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_RefreshMustOutliveAccess(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_ACCESS_TTL", "2h")
	t.Setenv("REFRESH_TTL", "1h")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REFRESH_TTL")
}

func TestLoad_ProdRequiresRealSecret(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "prod")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")

	t.Setenv("JWT_SECRET", "an-actual-secret-value")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "prod", cfg.AppEnv)
}
