package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validPublic = `jwt_ttl: 1h
password_min_len: 8
profile_fetch_max_attempts: 3
`

const validPrivate = `jwt_key: 'k'
pg:
  host: localhost
  port: 5432
  user: user
  dbname: bloodlink
`

func writeConfig(t *testing.T, public, private string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "public.yaml"), []byte(public), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "private.yaml"), []byte(private), 0o600))
	return dir
}

func TestMustLoad(t *testing.T) {
	dir := writeConfig(t, validPublic, validPrivate)

	cfg := MustLoad(dir)

	assert.Equal(t, time.Hour, cfg.JwtTTL())
	assert.Equal(t, "k", cfg.JwtKey())
	assert.Equal(t, 3, cfg.Public.ProfileFetchMaxAttempts)
	assert.Equal(t, "localhost", cfg.Private.Pg.Host)
	// defaults
	assert.Equal(t, "info", cfg.Public.LogLevel)
	assert.Equal(t, 500*time.Millisecond, cfg.Public.ProfileFetchRetryDelay)
	assert.Equal(t, time.Minute, cfg.Public.DonorCacheTTL)
	assert.Equal(t, 10*time.Second, cfg.Public.ProfileMaxAge)
	assert.False(t, cfg.Private.Email.Enabled())
}

func TestMustLoad_EnvOverrides(t *testing.T) {
	dir := writeConfig(t, validPublic, validPrivate)
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("PG_PORT", "6543")

	cfg := MustLoad(dir)

	assert.Equal(t, "from-env", cfg.JwtKey())
	assert.Equal(t, 6543, cfg.Private.Pg.Port)
}

func TestMustLoad_RequiredFields(t *testing.T) {
	// profile_fetch_max_attempts is intentionally missing
	public := "jwt_ttl: 1h\npassword_min_len: 8\n"
	dir := writeConfig(t, public, validPrivate)

	assert.Panics(t, func() { _ = MustLoad(dir) })
}

func TestMustLoad_MissingFile(t *testing.T) {
	assert.Panics(t, func() { _ = MustLoad(t.TempDir()) })
}
