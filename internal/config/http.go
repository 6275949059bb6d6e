package config

import "time"

// HTTPConfig holds configuration for the submission API's HTTP server
// for the thin submission API.
type HTTPConfig struct {
	Port string `env:"TASKFLOW_HTTP_PORT"`

	ReadHeaderTimeout time.Duration `env:"TASKFLOW_HTTP_READ_HEADER_TIMEOUT"`
	ReadTimeout       time.Duration `env:"TASKFLOW_HTTP_READ_TIMEOUT"`
	WriteTimeout      time.Duration `env:"TASKFLOW_HTTP_WRITE_TIMEOUT"`
	IdleTimeout       time.Duration `env:"TASKFLOW_HTTP_IDLE_TIMEOUT"`
	ShutdownTimeout   time.Duration `env:"TASKFLOW_HTTP_SHUTDOWN_TIMEOUT"`

	// MaxBodyBytes bounds request body size; see internal/http/middleware.MaxBodyBytes.
	MaxBodyBytes int64 `env:"TASKFLOW_HTTP_MAX_BODY_BYTES"`
}

func (c *HTTPConfig) applyDefaults() {
	if c.Port == "" {
		c.Port = "8080"
	}
	if c.ReadHeaderTimeout <= 0 {
		c.ReadHeaderTimeout = 5 * time.Second
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = 10 * time.Second
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 10 * time.Second
	}
	if c.IdleTimeout <= 0 {
		c.IdleTimeout = 120 * time.Second
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = 10 * time.Second
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = 1 << 20 // 1MB
	}
}
