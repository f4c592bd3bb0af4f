package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "secret",
	}))
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.MongoURI())
	assert.Equal(t, 5*time.Minute, cfg.Redis.CacheTTL)
	assert.Equal(t, "smtp.gmail.com", cfg.Mail.Host)
	assert.Equal(t, "Our Store", cfg.Mail.FromName)
	assert.Equal(t, 2*time.Second, cfg.Notify.Timeout)
	assert.False(t, cfg.Mail.MailEnabled())
}

func TestLoadFrom_RequiresSigningSecret(t *testing.T) {
	_, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadFrom_RejectsEmptySigningSecret(t *testing.T) {
	_, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "",
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadFrom_DBURLAlias(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "secret",
		"DB_URL":     "mongodb://db:27017",
	}))
	require.NoError(t, err)
	assert.Equal(t, "mongodb://db:27017", cfg.Mongo.MongoURI())

	cfg.Mongo.URI = "mongodb://primary:27017"
	assert.Equal(t, "mongodb://primary:27017", cfg.Mongo.MongoURI())
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":     "secret",
		"TOKEN_TTL":      "30m",
		"EMAIL_USER":     "noreply@example.com",
		"EMAIL_PASS":     "app-password",
		"NOTIFY_WORKERS": "8",
	}))
	require.NoError(t, err)

	assert.Equal(t, 30*time.Minute, cfg.Auth.TokenTTL)
	assert.True(t, cfg.Mail.MailEnabled())
	assert.Equal(t, 8, cfg.Notify.Workers)
}

func TestLoadFrom_RejectsNonPositiveTTL(t *testing.T) {
	_, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "secret",
		"TOKEN_TTL":  "0s",
	}))
	assert.Error(t, err)
}
