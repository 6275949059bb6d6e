package config

import (
	"fmt"
	"time"

	"github.com/rezkam/taskflow/internal/env"
)

// WorkerRuntimeConfig configures one worker process instance.
type WorkerRuntimeConfig struct {
	Queue            string        `env:"TASKFLOW_WORKER_QUEUE"`
	PollInterval     time.Duration `env:"TASKFLOW_WORKER_POLL_INTERVAL"`
	OperationTimeout time.Duration `env:"TASKFLOW_WORKER_OPERATION_TIMEOUT"`
	ShutdownTimeout  time.Duration `env:"TASKFLOW_WORKER_SHUTDOWN_TIMEOUT"`
}

func (c *WorkerRuntimeConfig) applyDefaults() {
	if c.Queue == "" {
		c.Queue = "default"
	}
	if c.PollInterval <= 0 {
		c.PollInterval = time.Second
	}
	if c.OperationTimeout <= 0 {
		c.OperationTimeout = 30 * time.Second
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = 30 * time.Second
	}
}

// WorkerConfig holds all configuration for the worker binary.
type WorkerConfig struct {
	App           AppConfig
	Database      DatabaseConfig
	Observability ObservabilityConfig
	Worker        WorkerRuntimeConfig
}

// LoadWorkerConfig loads and validates worker configuration from the
// environment, applying defaults the way config.AppConfig does.
func LoadWorkerConfig() (*WorkerConfig, error) {
	cfg := &WorkerConfig{}

	if err := env.Load(cfg); err != nil {
		return nil, fmt.Errorf("failed to load worker config: %w", err)
	}

	cfg.App.applyDefaults()
	cfg.Worker.applyDefaults()

	return cfg, nil
}
