// Package config handles application configuration loading from environment
// variables and an optional YAML file. It provides a centralized Config
// struct used across the application.
package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/spf13/viper"
)

const (
	// DevSecretKey signs flash cookies in development. Production refuses it.
	DevSecretKey = "dev-secret-key-change-in-production"

	defaultPostgresPassword = "changeme"
)

// Config holds all application configuration values.
type Config struct {
	// Server settings
	Host      string `mapstructure:"host" validate:"required"`
	Port      string `mapstructure:"port" validate:"required,numeric"`
	Env       string `mapstructure:"env" validate:"oneof=development production testing"`
	SecretKey string `mapstructure:"secret_key" validate:"required,min=8"`

	DB       DBConfig       `mapstructure:"db"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	Valkey   ValkeyConfig   `mapstructure:"valkey"`
}

// DBConfig selects the database backend.
type DBConfig struct {
	Driver string `mapstructure:"driver" validate:"oneof=sqlite postgres"`
	Path   string `mapstructure:"path" validate:"required_if=Driver sqlite"`
}

// PostgresConfig is used when DB.Driver is "postgres".
type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port" validate:"omitempty,numeric"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
}

// ValkeyConfig enables the Valkey flash store when Host is set.
type ValkeyConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port" validate:"omitempty,numeric"`
	Password string `mapstructure:"password"`
}

// envBindings maps config keys to the environment variables that set them.
var envBindings = map[string]string{
	"host":              "APP_HOST",
	"port":              "APP_PORT",
	"env":               "APP_ENV",
	"secret_key":        "SECRET_KEY",
	"db.driver":         "DB_DRIVER",
	"db.path":           "DB_PATH",
	"postgres.host":     "POSTGRES_HOST",
	"postgres.port":     "POSTGRES_PORT",
	"postgres.user":     "POSTGRES_USER",
	"postgres.password": "POSTGRES_PASSWORD",
	"postgres.name":     "POSTGRES_DB",
	"valkey.host":       "VALKEY_HOST",
	"valkey.port":       "VALKEY_PORT",
	"valkey.password":   "VALKEY_PASSWORD",
}

// Load reads configuration from environment variables and, when present,
// a YAML file. configFile overrides the default lookup of learnboard.yaml
// in the working directory. Environment variables win over the file.
// Returns an error if a value is invalid or if production mode still uses
// a development default.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("learnboard")
		v.AddConfigPath(".")
	}

	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", "5000")
	v.SetDefault("env", "development")
	v.SetDefault("secret_key", DevSecretKey)
	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.path", "learnboard.db")
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", "5432")
	v.SetDefault("postgres.user", "learnboard")
	v.SetDefault("postgres.password", defaultPostgresPassword)
	v.SetDefault("postgres.name", "learnboard")
	v.SetDefault("valkey.host", "")
	v.SetDefault("valkey.port", "6379")
	v.SetDefault("valkey.password", "")

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints and the production guards.
func (c *Config) Validate() error {
	if err := validateStruct(c); err != nil {
		return err
	}

	if c.Env == "production" {
		if c.SecretKey == DevSecretKey {
			return fmt.Errorf("SECRET_KEY must be set in production")
		}
		if c.DB.Driver == "postgres" && c.Postgres.Password == defaultPostgresPassword {
			return fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
	}
	return nil
}

// DriverName returns the database/sql driver name for the configured backend.
func (c *Config) DriverName() string {
	if c.DB.Driver == "postgres" {
		return "pgx"
	}
	return "sqlite"
}

// DSN returns the connection string for the configured backend: the file
// path for SQLite, a URL for PostgreSQL.
func (c *Config) DSN() string {
	if c.DB.Driver != "postgres" {
		return c.DB.Path
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Postgres.User, c.Postgres.Password),
		Host:     net.JoinHostPort(c.Postgres.Host, c.Postgres.Port),
		Path:     "/" + c.Postgres.Name,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// ValkeyEnabled reports whether flashes should be kept in Valkey.
func (c *Config) ValkeyEnabled() bool {
	return strings.TrimSpace(c.Valkey.Host) != ""
}
