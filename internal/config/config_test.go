package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func devConfig() *Config {
	return &Config{
		Port:      "8480",
		Env:       "development",
		JWTSecret: "your-secret-key-change-in-production",
	}
}

func prodConfig() *Config {
	return &Config{
		Port:              "8480",
		Env:               "production",
		JWTSecret:         "a-very-long-production-secret-0123456789",
		DBPassword:        "s3cr3t-not-default",
		DBSSLMode:         "require",
		OAuthClientID:     "client",
		OAuthClientSecret: "secret",
	}
}

func TestValidate_Development(t *testing.T) {
	cfg := devConfig()
	assert.NoError(t, cfg.Validate())

	cfg.Port = ""
	assert.Error(t, cfg.Validate())

	cfg = devConfig()
	cfg.JWTSecret = ""
	assert.Error(t, cfg.Validate())
}

func TestValidate_ProductionStrictness(t *testing.T) {
	require.NoError(t, prodConfig().Validate())

	cfg := prodConfig()
	cfg.JWTSecret = "your-secret-key-change-in-production"
	assert.Error(t, cfg.Validate(), "default secret must be rejected in production")

	cfg = prodConfig()
	cfg.JWTSecret = "short"
	assert.Error(t, cfg.Validate())

	cfg = prodConfig()
	cfg.DBPassword = "password"
	assert.Error(t, cfg.Validate())

	cfg = prodConfig()
	cfg.OAuthClientID = ""
	assert.Error(t, cfg.Validate())
}
