package config

import (
	"fmt"

	"github.com/rezkam/taskflow/internal/env"
)

// ServerConfig holds all configuration for the submission API binary.
type ServerConfig struct {
	App           AppConfig
	Database      DatabaseConfig
	HTTP          HTTPConfig
	Observability ObservabilityConfig
}

// LoadServerConfig loads and validates server configuration from the
// environment, applying defaults for zero-valued fields.
func LoadServerConfig() (*ServerConfig, error) {
	cfg := &ServerConfig{}

	if err := env.Load(cfg); err != nil {
		return nil, fmt.Errorf("failed to load server config: %w", err)
	}

	cfg.App.applyDefaults()
	cfg.HTTP.applyDefaults()

	return cfg, nil
}
