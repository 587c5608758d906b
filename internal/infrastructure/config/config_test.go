package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 3, cfg.Plan.MaxPlans)
	assert.Equal(t, 14, cfg.Plan.MaxDays)
	assert.Equal(t, 21, cfg.Plan.FetchLimitCap)
	assert.Equal(t, 50, cfg.Import.ChunkSize)
	assert.Equal(t, 3, cfg.Import.Retries)
	assert.Equal(t, time.Second, cfg.Import.RetryDelay)
	assert.False(t, cfg.AI.Enabled)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("DATABASE_DRIVER", "postgres")
	t.Setenv("DATABASE_DSN", "host=localhost user=meal")
	t.Setenv("APP_PLAN_MAX_PLANS", "5")
	t.Setenv("RATE_LIMIT_WINDOW", "30s")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "host=localhost user=meal", cfg.Database.DSN)
	assert.Equal(t, 5, cfg.Plan.MaxPlans)
	assert.Equal(t, 30*time.Second, cfg.RateLimit.Window)
}

func TestLoadConfigRequiresProviderKey(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("AI_ENABLED", "true")
	t.Setenv("AI_PROVIDER", "gemini")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gemini api key")
}

func TestValidateConfigRejectsUnknownDriver(t *testing.T) {
	cfg := &Config{
		Server:   ServerConfig{Port: 8080},
		Database: DatabaseConfig{Driver: "mysql"},
		Plan:     PlanConfig{MaxPlans: 3, MaxDays: 14, FetchLimitCap: 21},
		Import:   ImportConfig{ChunkSize: 50},
	}
	assert.Error(t, validateConfig(cfg))

	cfg.Database.Driver = "sqlite"
	assert.NoError(t, validateConfig(cfg))
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "****", maskAPIKey("short"))
	assert.Equal(t, "sk-o...wxyz", maskAPIKey("sk-or-abcdefwxyz"))
}
