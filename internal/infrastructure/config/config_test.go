package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "dev-secret",
	}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 4*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 15*time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, 5, cfg.RateLimit.MaxAttempts)
	assert.Equal(t, "memory", cfg.RateLimit.Backend)
	assert.Equal(t, int64(10<<20), cfg.Upload.MaxFileSize)
	assert.Equal(t, 5, cfg.Upload.MaxFiles)
	assert.False(t, cfg.Redis.Enabled())
	assert.False(t, cfg.Auth.DenylistEnabled)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_RequiresSecret(t *testing.T) {
	_, err := load(context.Background(), envconfig.MapLookuper(map[string]string{}))
	assert.Error(t, err)
}

func TestLoad_RejectsInconsistentSettings(t *testing.T) {
	cases := map[string]map[string]string{
		"short production secret":     {"JWT_SECRET": "short", "ENV": "production"},
		"redis limiter without redis": {"JWT_SECRET": "s", "RATE_LIMIT_BACKEND": "redis"},
		"denylist without redis":      {"JWT_SECRET": "s", "AUTH_DENYLIST_ENABLED": "true"},
		"unknown upload backend":      {"JWT_SECRET": "s", "UPLOAD_BACKEND": "s3"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := load(context.Background(), envconfig.MapLookuper(env))
			assert.Error(t, err)
		})
	}
}

func TestLoad_RedisBackend(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":            "s",
		"REDIS_ADDR":            "localhost:6379",
		"RATE_LIMIT_BACKEND":    "redis",
		"AUTH_DENYLIST_ENABLED": "true",
	}))
	require.NoError(t, err)
	assert.True(t, cfg.Redis.Enabled())
	assert.True(t, cfg.Auth.DenylistEnabled)
}
