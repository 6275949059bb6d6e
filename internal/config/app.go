package config

// AppConfig holds identity and environment fields shared by every
// binary (server, worker), independent of which component they run.
type AppConfig struct {
	Name        string `env:"TASKFLOW_APP_NAME"`
	Environment string `env:"TASKFLOW_ENVIRONMENT"`

	// BrokerURL is reserved for a future distributed-scheduling backend
	// read so operators can set it without the
	// loader rejecting an unrecognized variable, but nothing in this
	// repo consumes it yet.
	BrokerURL string `env:"TASKFLOW_BROKER_URL"`
}

func (c *AppConfig) applyDefaults() {
	if c.Name == "" {
		c.Name = "taskflow"
	}
	if c.Environment == "" {
		c.Environment = "local"
	}
}
