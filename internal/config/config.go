package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FileName is the default configuration file name.
const FileName = "ledger.yaml"

// Config represents the top-level ledger.yaml configuration.
type Config struct {
	Processing ProcessingConfig `yaml:"processing"`
	Logging    LoggingConfig    `yaml:"logging"`
	Output     OutputConfig     `yaml:"output"`
}

// ProcessingConfig controls how failures are handled.
type ProcessingConfig struct {
	Policy           string `yaml:"policy"` // "skip" or "abort"
	StrictInvariants bool   `yaml:"strict_invariants"`
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	Environment string `yaml:"environment"` // "production" or "development"
	Level       string `yaml:"level,omitempty"`
}

// OutputConfig controls where results go.
type OutputConfig struct {
	Path        string `yaml:"path,omitempty"` // empty = stdout
	RejectsPath string `yaml:"rejects_path,omitempty"`
}

// Load reads a ledger.yaml file from disk. Fields missing from the file
// keep their Default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Processing: ProcessingConfig{
			Policy: "skip",
		},
		Logging: LoggingConfig{
			Environment: "production",
			Level:       "info",
		},
	}
}
