package config

// ObservabilityConfig gates the OTel stack. EnableMetrics, despite the
// name, switches on the whole tracer/meter/logger bundle wired in
// internal/infrastructure/observability — there is no spec-level reason to gate these
// independently in v0.
type ObservabilityConfig struct {
	EnableMetrics bool `env:"TASKFLOW_ENABLE_METRICS"`
}
