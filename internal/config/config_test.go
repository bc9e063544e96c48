package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "a-perfectly-fine-development-secret")
	t.Setenv("DB_PASSWORD", "postgres")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "members", cfg.Database.Name)
	assert.Equal(t, "migrations", cfg.Database.MigrationsDir)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Env)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.TokenExpiry)
	assert.Equal(t, time.Hour, cfg.Auth.ResetTokenExpiry)
}

func TestLoad_MissingJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DB_PASSWORD", "postgres")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_MissingDBPassword(t *testing.T) {
	t.Setenv("JWT_SECRET", "a-perfectly-fine-development-secret")
	t.Setenv("DB_PASSWORD", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_ShortJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "tooshort")
	t.Setenv("DB_PASSWORD", "postgres")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_ProductionSecretLength(t *testing.T) {
	t.Setenv("JWT_SECRET", "sixteen-chars-ok")
	t.Setenv("DB_PASSWORD", "postgres")
	t.Setenv("ENV", "production")

	// 16 characters passes development but not production
	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("TOKEN_EXPIRY", "24h")
	t.Setenv("RESET_TOKEN_EXPIRY", "30m")
	t.Setenv("ADMIN_USERNAME", "root-admin")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenExpiry)
	assert.Equal(t, 30*time.Minute, cfg.Auth.ResetTokenExpiry)
	assert.Equal(t, "root-admin", cfg.Admin.Username)
}

func TestLoad_ProductionOrigins(t *testing.T) {
	t.Setenv("JWT_SECRET", "a-production-grade-secret-of-32-chars!")
	t.Setenv("DB_PASSWORD", "postgres")
	t.Setenv("ENV", "production")
	t.Setenv("ALLOWED_ORIGINS", "https://members.example.com, https://admin.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"https://members.example.com", "https://admin.example.com"}, cfg.Server.AllowedOrigins)
}

func TestDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host: "localhost", Port: 5432, User: "postgres",
		Password: "secret", Name: "members", SSLMode: "disable",
	}

	assert.Equal(t,
		"host=localhost port=5432 user=postgres password=secret dbname=members sslmode=disable",
		cfg.DSN(),
	)
}
