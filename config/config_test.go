package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DB_URL", "postgres://localhost/app")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, BackendPostgres, cfg.StoreBackend)
	assert.Equal(t, BackendPostgres, cfg.TokenBackend)
	assert.Equal(t, 11, cfg.BcryptCost)
	assert.Equal(t, 10*time.Minute, cfg.TokenTTL)
	assert.False(t, cfg.ExposeLinks)
	assert.Equal(t, "secret", cfg.JWTSecret)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("STORE_BACKEND", "MEMORY")
	t.Setenv("TOKEN_BACKEND", "redis")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("BCRYPT_COST", "12")
	t.Setenv("TOKEN_TTL", "15m")
	t.Setenv("EXPOSE_LINKS", "true")
	t.Setenv("APP_BASE_URL", "https://app.example.com/")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, BackendMemory, cfg.StoreBackend)
	assert.Equal(t, BackendRedis, cfg.TokenBackend)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, 15*time.Minute, cfg.TokenTTL)
	assert.True(t, cfg.ExposeLinks)
	assert.Equal(t, "https://app.example.com", cfg.AppBaseURL)
}

func TestFromEnv_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing jwt secret", map[string]string{"JWT_SECRET": "", "STORE_BACKEND": "memory"}},
		{"missing db url", map[string]string{"JWT_SECRET": "s", "DB_URL": ""}},
		{"bad backend", map[string]string{"JWT_SECRET": "s", "STORE_BACKEND": "mongo"}},
		{"postgres tokens without postgres users", map[string]string{"JWT_SECRET": "s", "STORE_BACKEND": "memory", "TOKEN_BACKEND": "postgres"}},
		{"bad ttl", map[string]string{"JWT_SECRET": "s", "STORE_BACKEND": "memory", "TOKEN_TTL": "soon"}},
		{"negative ttl", map[string]string{"JWT_SECRET": "s", "STORE_BACKEND": "memory", "TOKEN_TTL": "-1m"}},
		{"bad cost", map[string]string{"JWT_SECRET": "s", "STORE_BACKEND": "memory", "BCRYPT_COST": "high"}},
		{"bad bool", map[string]string{"JWT_SECRET": "s", "STORE_BACKEND": "memory", "EXPOSE_LINKS": "maybe"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}
