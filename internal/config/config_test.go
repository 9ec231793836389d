package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setRequiredEnv sets the smallest environment that passes validation.
func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("ACCESS_TOKEN_SECRET", "access-secret")
	t.Setenv("REFRESH_TOKEN_SECRET", "refresh-secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "dev", cfg.Server.Env)
	assert.True(t, cfg.Server.IsDevelopment())
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.TrustedOrigins)

	assert.Equal(t, "jwt", cfg.Auth.TokenBackend)
	assert.Equal(t, 24*time.Hour, cfg.Auth.AccessTokenDuration)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.RefreshTokenDuration)
	assert.Equal(t, "bcrypt", cfg.Auth.PasswordHasher)

	assert.Equal(t, "http://localhost:3000", cfg.Email.FrontendURL)
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("APP_ENV", "prod")
	t.Setenv("ACCESS_TOKEN_DURATION", "900")
	t.Setenv("TRUSTED_ORIGINS", "https://app.example.com, https://admin.example.com")
	t.Setenv("PASSWORD_HASHER", "argon2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.False(t, cfg.Server.IsDevelopment())
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTokenDuration)
	assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.Server.TrustedOrigins)
	assert.Equal(t, "argon2", cfg.Auth.PasswordHasher)
}

func TestLoadValidation(t *testing.T) {
	t.Run("missing jwt secrets", func(t *testing.T) {
		t.Setenv("ACCESS_TOKEN_SECRET", "")
		t.Setenv("REFRESH_TOKEN_SECRET", "")

		_, err := Load()
		require.Error(t, err)
	})

	t.Run("identical secrets", func(t *testing.T) {
		t.Setenv("ACCESS_TOKEN_SECRET", "same-secret")
		t.Setenv("REFRESH_TOKEN_SECRET", "same-secret")

		_, err := Load()
		require.Error(t, err)
	})

	t.Run("paseto requires 32-byte keys", func(t *testing.T) {
		t.Setenv("TOKEN_BACKEND", "paseto")
		t.Setenv("ACCESS_TOKEN_SECRET", "too-short")
		t.Setenv("REFRESH_TOKEN_SECRET", "also-too-short")

		_, err := Load()
		require.Error(t, err)

		t.Setenv("ACCESS_TOKEN_SECRET", "0123456789abcdef0123456789abcdef")
		t.Setenv("REFRESH_TOKEN_SECRET", "fedcba9876543210fedcba9876543210")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "paseto", cfg.Auth.TokenBackend)
	})

	t.Run("unknown backend", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("TOKEN_BACKEND", "opaque")

		_, err := Load()
		require.Error(t, err)
	})

	t.Run("unknown hasher", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("PASSWORD_HASHER", "md5")

		_, err := Load()
		require.Error(t, err)
	})
}

func TestConnectionString(t *testing.T) {
	db := DatabaseConfig{
		Host: "localhost", Port: "5432", User: "postgres",
		Password: "postgres", DBName: "goauth", SSLMode: "disable",
	}
	assert.Equal(t,
		"host=localhost port=5432 user=postgres password=postgres dbname=goauth sslmode=disable",
		db.ConnectionString())

	db.ChannelBinding = "require"
	assert.Contains(t, db.ConnectionString(), " channel_binding=require")
}
