// Package config loads the evaluation server configuration.
//
// Loading order: YAML file, then defaults for unset fields, then TENDER_*
// environment overrides, then validation.
package config

import "time"

// Config is the complete server configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Evaluation EvaluationConfig `yaml:"evaluation"`
	Receipts   ReceiptsConfig   `yaml:"receipts"`
	Log        LogConfig        `yaml:"log"`
}

// ServerConfig controls the evaluation listener and its worker pool.
type ServerConfig struct {
	// Transport is "tcp" or "vsock".
	Transport     string        `yaml:"transport" validate:"oneof=tcp vsock"`
	ListenAddress string        `yaml:"listen_address" validate:"required_if=Transport tcp"`
	VsockPort     uint32        `yaml:"vsock_port" validate:"required_if=Transport vsock"`
	MaxWorkers    int           `yaml:"max_workers" validate:"gte=1,lte=4096"`
	ReadTimeout   time.Duration `yaml:"read_timeout" validate:"gt=0"`
	MaxRequestKB  int           `yaml:"max_request_kb" validate:"gte=1"`
}

// MetricsConfig controls the HTTP side listener for /metrics and /healthz.
type MetricsConfig struct {
	Enabled       bool   `yaml:"enabled"`
	ListenAddress string `yaml:"listen_address" validate:"required_if=Enabled true"`
}

// EvaluationConfig holds evaluation parameters applied when a request
// leaves them out.
type EvaluationConfig struct {
	DefaultLanguage    string  `yaml:"default_language" validate:"oneof=ar en"`
	MinTechnicalPass   float64 `yaml:"min_technical_pass" validate:"gte=0,lte=100"`
	MandatoryItemCount int     `yaml:"mandatory_item_count" validate:"gte=0"`
	TechnicalPercent   float64 `yaml:"technical_percent" validate:"gte=0,lte=100"`
	FinancialPercent   float64 `yaml:"financial_percent" validate:"gte=0,lte=100"`
}

// ReceiptsConfig controls signed evaluation receipts.
type ReceiptsConfig struct {
	Enabled        bool   `yaml:"enabled"`
	SigningKeyPath string `yaml:"signing_key_path"`
}

// LogConfig controls zap logging.
type LogConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
	// Format is "json" for production output or "console" for development.
	Format string `yaml:"format" validate:"oneof=json console"`
}
