// Package config loads service configuration from a YAML file overlaid by
// environment variables of the same name, using Viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gartstein/careers/internal/careers/db"
	"github.com/spf13/viper"
)

// DefaultPath is the config file read when none is given.
const DefaultPath = "internal/careers/config/config.yaml"

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config holds application configuration.
type Config struct {
	HTTPPort int `mapstructure:"HTTP_PORT"`
	GRPCPort int `mapstructure:"GRPC_PORT"`

	// DBDriver is "postgres" or "sqlite".
	DBDriver   string `mapstructure:"DB_DRIVER"`
	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     int    `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`
	DBSSLMode  string `mapstructure:"DB_SSLMODE"`
	// DBPath is the SQLite file, used when DBDriver is sqlite.
	DBPath string `mapstructure:"DB_PATH"`

	// KafkaBrokers is a comma-separated broker list; empty disables events.
	KafkaBrokers string `mapstructure:"KAFKA_BROKERS"`
	Topic        string `mapstructure:"TOPIC"`
	// KafkaGroupID prefixes the per-instance consumer group.
	KafkaGroupID string `mapstructure:"KAFKA_GROUP_ID"`

	SessionSecret string `mapstructure:"SESSION_SECRET"`
	// SessionTTL is a Go duration string, e.g. "168h".
	SessionTTL string `mapstructure:"SESSION_TTL"`

	// Env is "development" or "production".
	Env string `mapstructure:"APP_ENV"`
	// BaseURL is the public origin used in structured data, e.g. https://jobs.example.com.
	BaseURL string `mapstructure:"BASE_URL"`
	// HealthInterval is how often the database is pinged for health checks.
	HealthInterval string `mapstructure:"HEALTH_INTERVAL"`
}

// Load reads path (if it exists) and the environment into a Config.
// Environment variables override file values.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("HTTP_PORT", 8080)
	v.SetDefault("GRPC_PORT", 9090)
	v.SetDefault("DB_DRIVER", db.DriverPostgres)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "careers")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_PATH", "careers.db")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("TOPIC", "company-events")
	v.SetDefault("KAFKA_GROUP_ID", "careers-editor")
	v.SetDefault("SESSION_SECRET", "")
	v.SetDefault("SESSION_TTL", "168h")
	v.SetDefault("APP_ENV", EnvDevelopment)
	v.SetDefault("BASE_URL", "")
	v.SetDefault("HEALTH_INTERVAL", "15s")

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("config: %w", err)
		}
	}

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.DBDriver != db.DriverPostgres && cfg.DBDriver != db.DriverSQLite {
		return nil, fmt.Errorf("config: unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	if cfg.IsProduction() && cfg.SessionSecret == "" {
		return nil, errors.New("config: SESSION_SECRET must be set when APP_ENV=production")
	}
	if cfg.SessionSecret == "" {
		cfg.SessionSecret = "development-only-secret"
	}

	return &cfg, nil
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// IsDevelopment reports whether APP_ENV is development.
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// SessionLifetime parses SessionTTL. Returns 168h if unset or invalid.
func (c *Config) SessionLifetime() time.Duration {
	d, err := time.ParseDuration(c.SessionTTL)
	if err != nil || d <= 0 {
		return 168 * time.Hour
	}
	return d
}

// HealthCheckInterval parses HealthInterval. Returns 15s if unset or invalid.
func (c *Config) HealthCheckInterval() time.Duration {
	d, err := time.ParseDuration(c.HealthInterval)
	if err != nil || d <= 0 {
		return 15 * time.Second
	}
	return d
}

// KafkaBrokersList returns broker addresses from the comma-separated config.
// An empty list means events are disabled.
func (c *Config) KafkaBrokersList() []string {
	if c == nil || c.KafkaBrokers == "" {
		return nil
	}
	parts := strings.Split(c.KafkaBrokers, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Database returns the repository settings.
func (c *Config) Database() *db.Config {
	return &db.Config{
		Driver:   c.DBDriver,
		Host:     c.DBHost,
		Port:     c.DBPort,
		User:     c.DBUser,
		Password: c.DBPassword,
		DBName:   c.DBName,
		SSLMode:  c.DBSSLMode,
		Path:     c.DBPath,
	}
}
