// Package config loads runtime settings from the environment.
package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds the application settings.
type Config struct {
	AppPort        string
	Environment    string
	DatabaseDriver string
	DatabaseDSN    string
	SecretKey      string
	SessionTTL     time.Duration
	RabbitMQURL    string
	LogLevel       string
}

// Production reports whether the app runs with production settings.
func (c Config) Production() bool {
	return c.Environment == "production"
}

// Load reads the settings from environment variables, falling back to
// development defaults.
func Load() Config {
	v := viper.New()
	v.SetDefault("APP_PORT", ":5000")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DATABASE_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "portfolio.db?_foreign_keys=on")
	v.SetDefault("SECRET_KEY", "your_secret_key_here")
	v.SetDefault("SESSION_TTL", "24h")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.AutomaticEnv()

	ttl := v.GetDuration("SESSION_TTL")
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return Config{
		AppPort:        v.GetString("APP_PORT"),
		Environment:    v.GetString("APP_ENV"),
		DatabaseDriver: v.GetString("DATABASE_DRIVER"),
		DatabaseDSN:    v.GetString("DATABASE_DSN"),
		SecretKey:      v.GetString("SECRET_KEY"),
		SessionTTL:     ttl,
		RabbitMQURL:    v.GetString("RABBITMQ_URL"),
		LogLevel:       v.GetString("LOG_LEVEL"),
	}
}
