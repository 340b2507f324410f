package config

import (
	"time"

	"github.com/cloudx-io/opentender/core"
)

// Default values for configuration fields.
const (
	DefaultTransport     = "tcp"
	DefaultListenAddress = "127.0.0.1:5000"
	DefaultVsockPort     = 5000
	DefaultMaxWorkers    = 32
	DefaultReadTimeout   = 30 * time.Second
	DefaultMaxRequestKB  = 1024

	DefaultMetricsListenAddress = "127.0.0.1:9090"

	DefaultLanguage = "ar"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills unset fields with their defaults. Booleans are left as
// they are.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Transport == "" {
		cfg.Server.Transport = DefaultTransport
	}
	if cfg.Server.ListenAddress == "" && cfg.Server.Transport == "tcp" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.VsockPort == 0 && cfg.Server.Transport == "vsock" {
		cfg.Server.VsockPort = DefaultVsockPort
	}
	if cfg.Server.MaxWorkers == 0 {
		cfg.Server.MaxWorkers = DefaultMaxWorkers
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.MaxRequestKB == 0 {
		cfg.Server.MaxRequestKB = DefaultMaxRequestKB
	}

	if cfg.Metrics.ListenAddress == "" {
		cfg.Metrics.ListenAddress = DefaultMetricsListenAddress
	}

	if cfg.Evaluation.DefaultLanguage == "" {
		cfg.Evaluation.DefaultLanguage = DefaultLanguage
	}
	if cfg.Evaluation.MinTechnicalPass == 0 {
		cfg.Evaluation.MinTechnicalPass = core.DefaultMinTechnicalPass
	}
	if cfg.Evaluation.TechnicalPercent == 0 && cfg.Evaluation.FinancialPercent == 0 {
		weights := core.DefaultWeights()
		cfg.Evaluation.TechnicalPercent = weights.TechnicalPercent
		cfg.Evaluation.FinancialPercent = weights.FinancialPercent
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}

// Weights returns the configured default weight split.
func (c EvaluationConfig) Weights() core.WeightConfig {
	return core.WeightConfig{
		TechnicalPercent: c.TechnicalPercent,
		FinancialPercent: c.FinancialPercent,
	}
}
