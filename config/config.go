package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Reports  ReportsConfig
}

type AppConfig struct {
	Name string
	Env  string
	Port string
}

type DatabaseConfig struct {
	Driver     string // postgres | sqlite
	URL        string
	Host       string
	Port       string
	User       string
	Password   string
	Name       string
	TimeZone   string
	SQLitePath string
	LogLevel   string
}

type AuthConfig struct {
	JWTSecret          string
	JWTExpirationHours int
	AdminEmail         string
	AdminPassword      string
}

type ReportsConfig struct {
	RecentWindowDays  int
	SummaryWindowDays int
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.App.Env)
	return env == "production" || env == "prod"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "Warehouse Inventory")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "3000")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_TIMEZONE", "UTC")
	v.SetDefault("SQLITE_PATH", "warehouse.db")
	v.SetDefault("DB_LOG_LEVEL", "warn")
	v.SetDefault("JWT_SECRET", "change-me-in-production")
	v.SetDefault("JWT_EXPIRATION_HOURS", 24)
	v.SetDefault("RECENT_WINDOW_DAYS", 7)
	v.SetDefault("SUMMARY_WINDOW_DAYS", 30)
}

// Load reads .env (if present) and the process environment. The returned
// bool is false when no .env file was found.
func Load() (*Config, bool) {
	envFound := godotenv.Load() == nil

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return FromViper(v), envFound
}

// FromViper maps an already populated viper instance onto Config.
func FromViper(v *viper.Viper) *Config {
	return &Config{
		App: AppConfig{
			Name: v.GetString("APP_NAME"),
			Env:  v.GetString("APP_ENV"),
			Port: v.GetString("PORT"),
		},
		Database: DatabaseConfig{
			Driver:     strings.ToLower(v.GetString("DB_DRIVER")),
			URL:        v.GetString("DATABASE_URL"),
			Host:       v.GetString("DB_HOST"),
			Port:       v.GetString("DB_PORT"),
			User:       v.GetString("DB_USER"),
			Password:   v.GetString("DB_PASSWORD"),
			Name:       v.GetString("DB_NAME"),
			TimeZone:   v.GetString("DB_TIMEZONE"),
			SQLitePath: v.GetString("SQLITE_PATH"),
			LogLevel:   strings.ToLower(v.GetString("DB_LOG_LEVEL")),
		},
		Auth: AuthConfig{
			JWTSecret:          v.GetString("JWT_SECRET"),
			JWTExpirationHours: v.GetInt("JWT_EXPIRATION_HOURS"),
			AdminEmail:         v.GetString("ADMIN_EMAIL"),
			AdminPassword:      v.GetString("ADMIN_PASSWORD"),
		},
		Reports: ReportsConfig{
			RecentWindowDays:  v.GetInt("RECENT_WINDOW_DAYS"),
			SummaryWindowDays: v.GetInt("SUMMARY_WINDOW_DAYS"),
		},
	}
}

// Defaults returns the configuration with nothing but built-in defaults.
func Defaults() *Config {
	v := viper.New()
	setDefaults(v)
	return FromViper(v)
}
