// Package config loads worker configuration from the environment.
//
// Configuration comes from environment variables, with an optional .env file
// for local development (godotenv). envconfig maps the variables onto the
// struct, applies defaults, and enforces required fields — no hand-rolled
// os.Getenv chains.
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds everything the worker needs at startup.
type Config struct {
	// Port the HTTP server listens on.
	Port int `envconfig:"PORT" default:"8080"`

	// DBPath is the SQLite database file. ":memory:" works for throwaway runs.
	DBPath string `envconfig:"DB_PATH" default:"worker.db"`

	// ExecTimeout caps a single script evaluation.
	ExecTimeout time.Duration `envconfig:"EXEC_TIMEOUT" default:"5s"`

	// MaxSteps caps interpreter steps per evaluation, stopping scripts that
	// spin without blocking (a timeout alone can't interrupt a tight loop).
	MaxSteps uint64 `envconfig:"MAX_STEPS" default:"10000000"`

	// PoolSize is the number of scripts evaluated concurrently.
	PoolSize int `envconfig:"POOL_SIZE" default:"4"`

	// JWTSecret signs access tokens. Leave empty to run the API open —
	// acceptable on localhost, never in a deployment.
	JWTSecret string `envconfig:"JWT_SECRET"`

	// ClientID / ClientSecretHash are the single configured API client.
	// The hash is bcrypt output; generate it once and store only the hash.
	ClientID         string `envconfig:"CLIENT_ID"`
	ClientSecretHash string `envconfig:"CLIENT_SECRET_HASH"`
}

// Load reads .env (if present) and then the environment.
func Load() (*Config, error) {
	// Missing .env is fine; real environments set variables directly.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: parsing environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: PORT %d out of range", c.Port)
	}
	if c.ExecTimeout <= 0 {
		return fmt.Errorf("config: EXEC_TIMEOUT must be positive")
	}
	if c.PoolSize <= 0 {
		return fmt.Errorf("config: POOL_SIZE must be positive")
	}

	// Auth is all-or-nothing: a partial credential set is almost certainly a
	// deployment mistake, so fail loudly instead of silently running open.
	authVars := 0
	for _, v := range []string{c.JWTSecret, c.ClientID, c.ClientSecretHash} {
		if v != "" {
			authVars++
		}
	}
	if authVars != 0 && authVars != 3 {
		return fmt.Errorf("config: JWT_SECRET, CLIENT_ID and CLIENT_SECRET_HASH must be set together")
	}

	return nil
}

// AuthEnabled reports whether the API requires Bearer tokens.
func (c *Config) AuthEnabled() bool {
	return c.JWTSecret != ""
}
