package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	assert.Equal(t, "messhall-backend", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenExpiration)
	assert.Equal(t, "admin", cfg.Seed.AdminUsername)
	assert.Equal(t, "admin123", cfg.Seed.AdminPassword)
	assert.Equal(t, "manager", cfg.Seed.ManagerUsername)
	assert.Equal(t, "manager123", cfg.Seed.ManagerPassword)
	assert.Equal(t, 5*time.Minute, cfg.Cache.MenuTTL)
	assert.Equal(t, 24*time.Hour, cfg.Scheduler.RecountInterval)
	assert.Empty(t, cfg.HTTP.CORSAllowOrigins)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg := &Config{}
		applyDefaults(cfg)
		return cfg
	}

	t.Run("defaults are valid in development", func(t *testing.T) {
		assert.NoError(t, base().validate())
	})

	t.Run("idle conns cannot exceed open conns", func(t *testing.T) {
		cfg := base()
		cfg.Database.MaxIdleConns = 100
		assert.Error(t, cfg.validate())
	})

	t.Run("production requires a strong jwt secret", func(t *testing.T) {
		cfg := base()
		cfg.App.Env = "production"
		cfg.Seed.Enabled = false
		cfg.Database.Password = "pw"
		cfg.Database.SSLMode = "require"
		cfg.Cookie.Secure = true

		cfg.JWT.Secret = ""
		assert.Error(t, cfg.validate())

		cfg.JWT.Secret = "short"
		assert.Error(t, cfg.validate())

		cfg.JWT.Secret = "a-sufficiently-long-secret-key-32ch"
		assert.NoError(t, cfg.validate())
	})

	t.Run("production rejects default seed passwords", func(t *testing.T) {
		cfg := base()
		cfg.App.Env = "production"
		cfg.JWT.Secret = "a-sufficiently-long-secret-key-32ch"
		cfg.Database.Password = "pw"
		cfg.Database.SSLMode = "require"
		cfg.Cookie.Secure = true
		cfg.Seed.Enabled = true

		require.Error(t, cfg.validate())

		cfg.Seed.AdminPassword = "something-else-9"
		cfg.Seed.ManagerPassword = "another-thing-7"
		assert.NoError(t, cfg.validate())
	})

	t.Run("sampling ratio bounds", func(t *testing.T) {
		cfg := base()
		cfg.Telemetry.SamplingRatio = 1.5
		assert.Error(t, cfg.validate())
	})
}

func TestDatabaseDSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "db.internal",
		Port:     5432,
		User:     "mess",
		Password: "p@ss/word",
		DBName:   "messhall",
		SSLMode:  "require",
	}

	dsn := d.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "db.internal:5432")
	assert.Contains(t, dsn, "sslmode=require")
	// Special characters in credentials must be escaped
	assert.NotContains(t, dsn, "p@ss/word")
}
