package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// DynamoDB configuration
	Dynamo DynamoConfig

	// Authentication configuration
	Auth AuthConfig

	// Logging configuration
	Log LogConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string        `env:"PORT" envDefault:"8080"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"15s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// DynamoConfig holds DynamoDB connection settings and table names
type DynamoConfig struct {
	Region string `env:"AWS_REGION" envDefault:"ap-northeast-2"`

	// Endpoint overrides the DynamoDB endpoint, e.g. http://localhost:8000
	// for dynamodb-local. Empty means the real AWS endpoint for Region.
	Endpoint        string `env:"DYNAMO_ENDPOINT"`
	AccessKeyID     string `env:"DYNAMO_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"DYNAMO_SECRET_ACCESS_KEY"`

	UsersTable    string `env:"USERS_TABLE" envDefault:"dev-users"`
	ArticlesTable string `env:"ARTICLES_TABLE" envDefault:"dev-articles"`
	CommentsTable string `env:"COMMENTS_TABLE" envDefault:"dev-comments"`

	// EnsureTables creates missing tables on startup. Intended for local
	// development against dynamodb-local, not for production accounts.
	EnsureTables bool `env:"DYNAMO_ENSURE_TABLES" envDefault:"false"`
}

// AuthConfig holds token signing settings
type AuthConfig struct {
	JWTSecret string        `env:"JWT_SECRET" envDefault:"sample_secret_key"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"48h"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"` // "json" or "pretty"
}

// Load reads configuration from environment variables.
// A .env file in the working directory is loaded first when present.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); !os.IsNotExist(err) {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration from environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Dynamo.Region == "" {
		return fmt.Errorf("AWS_REGION is required")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	return nil
}
