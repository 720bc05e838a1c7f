// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a YAML file and environment variables over the defaults.
// - Validation failures wrap ErrInvalidConfig; read failures wrap ErrLoadConfig.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFile mirrors log output to a size-rotated file when set.
	LogFile       string `koanf:"log_file"`
	LogMaxSizeMB  int    `koanf:"log_max_size_mb"`
	LogMaxBackups int    `koanf:"log_max_backups"`

	// Addr configures the HTTP listen address, e.g. ":8000".
	Addr string `koanf:"addr"`

	// BattingModelPath and BowlingModelPath locate the model artifacts
	// loaded once at startup.
	BattingModelPath string `koanf:"batting_model_path"`
	BowlingModelPath string `koanf:"bowling_model_path"`

	// MaxBodyBytes caps the size of a prediction request body.
	MaxBodyBytes int64 `koanf:"max_body_bytes"`

	// CORSAllowedOrigins lists origins allowed to call the API; "*" allows any.
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`

	// RequestTimeoutMS bounds handler execution time.
	RequestTimeoutMS int `koanf:"request_timeout_ms"`

	// Metrics shape the Prometheus families served on /metrics. Empty values
	// keep the built-in namespace, subsystem and buckets.
	MetricsEnabled          bool              `koanf:"metrics_enabled"`
	MetricsNamespace        string            `koanf:"metrics_namespace"`
	MetricsSubsystem        string            `koanf:"metrics_subsystem"`
	MetricsLatencyBucketsMS []float64         `koanf:"metrics_latency_buckets_ms"`
	MetricsConstLabels      map[string]string `koanf:"metrics_const_labels"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		LogMaxSizeMB:       100,
		LogMaxBackups:      3,
		Addr:               ":8000",
		BattingModelPath:   "models/analysis/batting_model.yaml",
		BowlingModelPath:   "models/analysis/bowling_model.yaml",
		MaxBodyBytes:       1 << 20,
		CORSAllowedOrigins: []string{"*"},
		RequestTimeoutMS:   10_000,
		MetricsEnabled:     true,
		MetricsNamespace:   "innings",
		MetricsSubsystem:   "predictor",
	}
}
