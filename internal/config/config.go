package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	ServerPort int    `env:"PORT" envDefault:"8080"`
	AppEnv     string `env:"APP_ENV" envDefault:"development"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`

	// DatabaseURL selects Postgres when set; otherwise the SQLite file at DatabasePath is used.
	DatabasePath string `env:"DATABASE_PATH" envDefault:"./birdgotwit.db"`
	DatabaseURL  string `env:"DATABASE_URL"`

	JWTSecret     string `env:"JWT_SECRET"`
	OIDCIssuer    string `env:"OIDC_ISSUER"`
	OIDCClientID  string `env:"OIDC_CLIENT_ID"`
	SessionCookie string `env:"SESSION_COOKIE" envDefault:"__session"`
	SignInURL     string `env:"SIGN_IN_URL" envDefault:"/sign-in"`

	// An empty IdentityAPIURL runs against an in-memory directory seeded from IdentitySeedFile.
	IdentityAPIURL   string `env:"IDENTITY_API_URL"`
	IdentityAPIKey   string `env:"IDENTITY_API_KEY"`
	IdentitySeedFile string `env:"IDENTITY_SEED_FILE"`

	FeedLimit     int `env:"FEED_LIMIT" envDefault:"100"`
	PostMaxLength int `env:"POST_MAX_LENGTH" envDefault:"280"`

	NatsURL     string   `env:"NATS_URL"`
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
}

// IsProduction reports whether the app runs with APP_ENV=production.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Load loads configuration from an optional .env file and the environment.
func Load() (*Config, error) {
	// A missing .env file is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.FeedLimit <= 0 {
		return fmt.Errorf("FEED_LIMIT must be positive, got %d", c.FeedLimit)
	}
	if c.PostMaxLength <= 0 {
		return fmt.Errorf("POST_MAX_LENGTH must be positive, got %d", c.PostMaxLength)
	}
	if c.JWTSecret == "" && c.OIDCIssuer == "" {
		return errors.New("one of JWT_SECRET or OIDC_ISSUER must be set")
	}
	if c.OIDCIssuer != "" && c.OIDCClientID == "" {
		return errors.New("OIDC_CLIENT_ID is required when OIDC_ISSUER is set")
	}
	return nil
}
