package config

import "fmt"

// DatabaseConfig holds PostgreSQL connection configuration. Zero values
// for MaxOpenConns/MaxIdleConns mean "let the pool auto-scale from
// available CPUs"; zero lifetime/idle-time values take the pool's fixed
// defaults (5 minutes / 1 minute) — see postgres.DBConfig.
type DatabaseConfig struct {
	URL                    string `env:"TASKFLOW_DATABASE_URL"`
	MaxOpenConns           int    `env:"TASKFLOW_DATABASE_MAX_OPEN_CONNS"`
	MaxIdleConns           int    `env:"TASKFLOW_DATABASE_MAX_IDLE_CONNS"`
	ConnMaxLifetimeSeconds int    `env:"TASKFLOW_DATABASE_CONN_MAX_LIFETIME_SEC"`
	ConnMaxIdleTimeSeconds int    `env:"TASKFLOW_DATABASE_CONN_MAX_IDLE_TIME_SEC"`
}

// Validate implements env.Validator so env.Load rejects a missing DSN
// before any other component starts up.
func (c DatabaseConfig) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("TASKFLOW_DATABASE_URL is required")
	}
	return nil
}
