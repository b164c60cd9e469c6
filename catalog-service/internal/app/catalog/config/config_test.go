package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir switches the working directory for the test and restores it on cleanup.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir()) // без .env

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:3011", cfg.Server.Address())
	assert.False(t, cfg.Server.LegacyStatus200)
	assert.Equal(t, "task", cfg.Database.DBName)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.Equal(t, "product_events", cfg.Kafka.Topic)
	assert.False(t, cfg.Kafka.Enabled())
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Equal(t, int64(60), cfg.RateLimit.Requests)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_FromEnvironment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("SERVER_PORT", "8085")
	t.Setenv("SERVER_LEGACY_STATUS_200", "true")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_USER", "shop")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("RATE_LIMIT_WINDOW", "30s")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:8085", cfg.Server.Address())
	assert.True(t, cfg.Server.LegacyStatus200)
	assert.Equal(t, "shop", cfg.Database.User)
	assert.Equal(t, "host=db port=5432 user=shop password=postgres dbname=task sslmode=disable", cfg.Database.DSN())
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.Kafka.Enabled())
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 30*time.Second, cfg.RateLimit.Window)
}

func TestLoad_IgnoresUnprefixedVariables(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("USER", "someone")
	t.Setenv("PORT", "9999")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Database.User)
	assert.Equal(t, "3011", cfg.Server.Port)
}

func TestLoad_InvalidValues(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("REDIS_DB", "not-a-number")

	_, err := Load()

	assert.Error(t, err)
}

func TestLoad_RateLimitMustBePositive(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("RATE_LIMIT_REQUESTS", "0")

	_, err := Load()

	assert.Error(t, err)
}
