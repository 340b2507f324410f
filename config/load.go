package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Load reads the YAML file at path, applies defaults and validates the
// result. Environment variables are not consulted; see LoadWithEnvOverrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadWithEnvOverrides loads the configuration and then applies TENDER_*
// environment variables, which always win over the file. An empty path skips
// the file and starts from the defaults.
//
// Variables follow TENDER_SECTION_FIELD, e.g. TENDER_SERVER_MAX_WORKERS.
func LoadWithEnvOverrides(path string) (*Config, error) {
	var cfg *Config
	if path == "" {
		cfg = Default()
	} else {
		loaded, err := Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	ApplyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("after environment overrides: %w", err)
	}
	return cfg, nil
}

// applyEnvOverrides applies environment overrides. Unlike the file, a
// malformed numeric or boolean variable is an error rather than ignored.
func applyEnvOverrides(cfg *Config) error {
	if val := os.Getenv("TENDER_SERVER_TRANSPORT"); val != "" {
		cfg.Server.Transport = val
	}
	if val := os.Getenv("TENDER_SERVER_LISTEN_ADDRESS"); val != "" {
		cfg.Server.ListenAddress = val
	}
	if err := envUint32("TENDER_SERVER_VSOCK_PORT", &cfg.Server.VsockPort); err != nil {
		return err
	}
	if err := envInt("TENDER_SERVER_MAX_WORKERS", &cfg.Server.MaxWorkers); err != nil {
		return err
	}
	if err := envDuration("TENDER_SERVER_READ_TIMEOUT", &cfg.Server.ReadTimeout); err != nil {
		return err
	}
	if err := envInt("TENDER_SERVER_MAX_REQUEST_KB", &cfg.Server.MaxRequestKB); err != nil {
		return err
	}

	if err := envBool("TENDER_METRICS_ENABLED", &cfg.Metrics.Enabled); err != nil {
		return err
	}
	if val := os.Getenv("TENDER_METRICS_LISTEN_ADDRESS"); val != "" {
		cfg.Metrics.ListenAddress = val
	}

	if val := os.Getenv("TENDER_EVALUATION_DEFAULT_LANGUAGE"); val != "" {
		cfg.Evaluation.DefaultLanguage = val
	}
	if err := envFloat("TENDER_EVALUATION_MIN_TECHNICAL_PASS", &cfg.Evaluation.MinTechnicalPass); err != nil {
		return err
	}
	if err := envInt("TENDER_EVALUATION_MANDATORY_ITEM_COUNT", &cfg.Evaluation.MandatoryItemCount); err != nil {
		return err
	}
	if err := envFloat("TENDER_EVALUATION_TECHNICAL_PERCENT", &cfg.Evaluation.TechnicalPercent); err != nil {
		return err
	}
	if err := envFloat("TENDER_EVALUATION_FINANCIAL_PERCENT", &cfg.Evaluation.FinancialPercent); err != nil {
		return err
	}

	if err := envBool("TENDER_RECEIPTS_ENABLED", &cfg.Receipts.Enabled); err != nil {
		return err
	}
	if val := os.Getenv("TENDER_RECEIPTS_SIGNING_KEY_PATH"); val != "" {
		cfg.Receipts.SigningKeyPath = val
	}

	if val := os.Getenv("TENDER_LOG_LEVEL"); val != "" {
		cfg.Log.Level = val
	}
	if val := os.Getenv("TENDER_LOG_FORMAT"); val != "" {
		cfg.Log.Format = val
	}
	return nil
}

func envInt(key string, target *int) error {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %s (must be a valid integer)", key, value)
	}
	*target = intValue
	return nil
}

func envUint32(key string, target *uint32) error {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	uintValue, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %s (must be a valid port)", key, value)
	}
	*target = uint32(uintValue)
	return nil
}

func envFloat(key string, target *float64) error {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %s (must be a number)", key, value)
	}
	*target = floatValue
	return nil
}

func envBool(key string, target *bool) error {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %s (must be true or false)", key, value)
	}
	*target = boolValue
	return nil
}

func envDuration(key string, target *time.Duration) error {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %s (must be a duration such as 30s)", key, value)
	}
	*target = d
	return nil
}
