// Package config loads service settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config carries everything the example wiring needs. Library users who
// assemble their own storozh.Config do not have to go through here.
type Config struct {
	// DatabaseURL is the Postgres DSN for the account directory.
	DatabaseURL string `env:"DATABASE_URL"`

	// TokenSecret signs access tokens. At least 32 characters.
	TokenSecret string `env:"TOKEN_SECRET"`

	// TokenTTL bounds the lifetime of issued tokens.
	TokenTTL time.Duration `env:"TOKEN_TTL" envDefault:"24h"`

	// MasterModeratorEmail is pinned to the moderator role on every login.
	// Empty disables the override.
	MasterModeratorEmail string `env:"MODERATOR_MASTER_EMAIL"`

	// BasePath is where the auth routes mount.
	BasePath string `env:"AUTH_BASE_PATH" envDefault:"/api/auth"`

	// ListenAddr is the HTTP bind address for the example server.
	ListenAddr string `env:"LISTEN_ADDR" envDefault:":8080"`

	// GitHubAPIBaseURL overrides the GitHub API host, mainly for tests.
	GitHubAPIBaseURL string `env:"GITHUB_API_BASE_URL"`
}

// Load fills a Config from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
