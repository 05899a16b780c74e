package config

import (
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("PG_DSN", "postgres://localhost/taskflow")
	t.Setenv("AUTH_JWT_SECRET", "0123456789abcdef0123")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := Load()
	assert.Equal(t, err, nil)
	assert.Equal(t, cfg.HTTP.Port, "8080")
	assert.Equal(t, cfg.HTTP.ReadTimeout.Duration(), 10*time.Second)
	assert.Equal(t, cfg.Auth.SessionTTL.Duration(), 24*time.Hour)
	assert.Equal(t, cfg.Jobs.Tick.Duration(), 500*time.Millisecond)
	assert.Equal(t, cfg.Jobs.Retention.Duration(), 5*time.Second)
	assert.Equal(t, cfg.Workspace.IdleTimeout.Duration(), 30*time.Minute)
}

func TestLoadRedisURLOverridesAddr(t *testing.T) {
	setRequired(t)
	t.Setenv("REDIS_ADDR", "ignored:1")
	t.Setenv("REDIS_URL", "redis://:pw@cache:6380/3")

	cfg, err := Load()
	assert.Equal(t, err, nil)
	assert.Equal(t, cfg.Redis.Addr, "cache:6380")
	assert.Equal(t, cfg.Redis.Password, "pw")
	assert.Equal(t, cfg.Redis.DB, 3)
}

func TestLoadRequiresRedis(t *testing.T) {
	setRequired(t)
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("REDIS_URL", "")

	_, err := Load()
	assert.NotEqual(t, err, nil)
}

func TestProviders(t *testing.T) {
	a := AuthConfig{OAuthProviders: "GitHub=https://github.com/login/oauth/authorize, google=https://accounts.google.com/o/oauth2/v2/auth"}
	p, err := a.Providers()
	assert.Equal(t, err, nil)
	assert.Equal(t, len(p), 2)
	assert.Equal(t, p["github"], "https://github.com/login/oauth/authorize")

	_, err = AuthConfig{OAuthProviders: "broken"}.Providers()
	assert.NotEqual(t, err, nil)
}

func TestDurationSecondsSetValue(t *testing.T) {
	var d durationSeconds
	assert.Equal(t, d.SetValue("90"), nil)
	assert.Equal(t, d.Duration(), 90*time.Second)
	assert.NotEqual(t, d.SetValue("later"), nil)
}

func TestLoadStorage(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "0123456789abcdef0123")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("PG_DSN", "")

	t.Setenv("APP_STORAGE", "postgres")
	_, err := Load()
	assert.NotEqual(t, err, nil)

	t.Setenv("APP_STORAGE", "memory")
	cfg, err := Load()
	assert.Equal(t, err, nil)
	assert.Equal(t, cfg.App.Storage, StorageMemory)

	t.Setenv("APP_STORAGE", "sqlite")
	_, err = Load()
	assert.NotEqual(t, err, nil)
}
