package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
}

func TestLoadFrom(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", `
db:
  host: localhost
  name: mission_control
  password: ${DB_SECRET_FOR_TEST}
auth:
  jwt_secret: ${JWT_SECRET_FOR_TEST}
ai:
  cache_ttl: 15m
server:
  login_per_minute: 10
`)
	writeFile(t, dir, "staging.yaml", `
db:
  host: db.internal
server:
  login_per_minute: 3
`)
	writeFile(t, dir, "secrets.env", "DB_SECRET_FOR_TEST=from-file\nJWT_SECRET_FOR_TEST=file-secret\n")
	t.Setenv("JWT_SECRET_FOR_TEST", "env-secret")
	t.Setenv("DB_HOST", "")

	cfg, err := LoadFrom("staging", dir)
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.DB.Host)
	assert.Equal(t, "from-file", cfg.DB.Password)
	assert.Equal(t, "env-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, 3, cfg.Server.LoginPerMinute)
	assert.Equal(t, 15*time.Minute, cfg.AI.CacheTTL)

	// defaults
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, 10, cfg.Dashboard.EventWindow)
	assert.Equal(t, 20, cfg.Dashboard.SummaryEventWindow)
	assert.Equal(t, 24*time.Hour, cfg.Worker.DedupTTL)
	assert.Equal(t, "sb-access-token", cfg.Auth.AdminCookie)
}

func TestLoadFrom_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", "db:\n  host: localhost\n  name: mc\nauth:\n  jwt_secret: s\n")
	t.Setenv("DB_HOST", "pg.prod")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("COOKIE_SECURE", "true")

	cfg, err := LoadFrom("local", dir)
	require.NoError(t, err)
	assert.Equal(t, "pg.prod", cfg.DB.Host)
	assert.Equal(t, 6543, cfg.DB.Port)
	assert.True(t, cfg.Server.CookieSecure)
}

func TestLoadFrom_Invalid(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", "db:\n  name: mc\n")
	t.Setenv("AUTH_JWT_SECRET", "")

	_, err := LoadFrom("local", dir)
	assert.EqualError(t, err, "auth.jwt_secret is required")

	_, err = LoadFrom("local", t.TempDir())
	assert.Error(t, err)
}
