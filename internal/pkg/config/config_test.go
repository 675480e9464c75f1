package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcess_Defaults(t *testing.T) {
	cfg, err := Process(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "s3cret",
	}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
	assert.True(t, cfg.Auth.AllowAdminSignup)
	assert.Equal(t, "concert_booking", cfg.Mongo.Database)
	assert.Equal(t, 24*time.Hour, cfg.Redis.IdempotencyTTL)
	assert.Equal(t, 4, cfg.Audit.Workers)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestProcess_Overrides(t *testing.T) {
	cfg, err := Process(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":         "s3cret",
		"ENV":                "production",
		"TOKEN_TTL":          "15m",
		"ALLOW_ADMIN_SIGNUP": "false",
		"AUDIT_WORKERS":      "8",
	}))
	require.NoError(t, err)

	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, 15*time.Minute, cfg.Auth.TokenTTL)
	assert.False(t, cfg.Auth.AllowAdminSignup)
	assert.Equal(t, 8, cfg.Audit.Workers)
}

func TestProcess_RequiresJWTSecret(t *testing.T) {
	_, err := Process(context.Background(), envconfig.MapLookuper(map[string]string{}))
	assert.Error(t, err)
}
