// Package config loads the service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Store modes.
const (
	StoreModeSpanner = "spanner"
	StoreModeMemory  = "memory"
)

// Config holds application configuration.
type Config struct {
	SpannerDB         string        `validate:"required_if=StoreMode spanner"`
	GRPCPort          string        `validate:"required,numeric"`
	HTTPPort          string        `validate:"required,numeric"`
	AppEnv            string        `validate:"oneof=dev test prod"`
	ParameterCacheTTL time.Duration `validate:"gte=0"`
	StoreMode         string        `validate:"oneof=spanner memory"`
}

// IsDev reports whether the service runs in development mode.
func (c Config) IsDev() bool {
	return c.AppEnv == "dev"
}

// Load reads an optional .env file, then the environment, applying defaults.
// Variables already set in the environment win over the .env file.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to read %s: %w", f, err)
		}
	}

	ttl, err := time.ParseDuration(getEnv("PARAMETER_CACHE_TTL", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid PARAMETER_CACHE_TTL: %w", err)
	}

	cfg := Config{
		// Default for local development with emulator
		SpannerDB:         getEnv("SPANNER_DATABASE", "projects/test-project/instances/dev-instance/databases/csa-db"),
		GRPCPort:          getEnv("GRPC_PORT", "9090"),
		HTTPPort:          getEnv("HTTP_PORT", "8080"),
		AppEnv:            getEnv("APP_ENV", "prod"),
		ParameterCacheTTL: ttl,
		StoreMode:         getEnv("STORE_MODE", StoreModeSpanner),
	}
	return cfg, cfg.Validate()
}

// Validate checks the struct tags.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}
