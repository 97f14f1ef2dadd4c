package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	assert.Equal(t, "3000", cfg.App.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 24, cfg.Auth.JWTExpirationHours)
	assert.Equal(t, 7, cfg.Reports.RecentWindowDays)
	assert.Equal(t, 30, cfg.Reports.SummaryWindowDays)
	assert.False(t, cfg.IsProduction())
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("DB_DRIVER", "SQLite")
	v.Set("SQLITE_PATH", ":memory:")
	v.Set("APP_ENV", "production")
	v.Set("RECENT_WINDOW_DAYS", 14)

	cfg := FromViper(v)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, ":memory:", cfg.Database.SQLitePath)
	assert.Equal(t, 14, cfg.Reports.RecentWindowDays)
	assert.True(t, cfg.IsProduction())
}

func TestLoad_ReadsEnvironment(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("JWT_EXPIRATION_HOURS", "2")

	cfg, _ := Load()
	assert.Equal(t, "8081", cfg.App.Port)
	assert.Equal(t, 2, cfg.Auth.JWTExpirationHours)
}
