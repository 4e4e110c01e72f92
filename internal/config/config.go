package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
	Pipeline PipelineConfig `yaml:"pipeline" envconfig:"PIPELINE"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	DataDir    string `yaml:"data_dir" envconfig:"DATA_DIR"`
	ReportsDir string `yaml:"reports_dir" envconfig:"REPORTS_DIR"`
	LogsDir    string `yaml:"logs_dir" envconfig:"LOGS_DIR"`
}

// PipelineConfig contains the preprocessing defaults. The zero
// configuration reproduces the documented pipeline behavior.
type PipelineConfig struct {
	DateColumn      string   `yaml:"date_column" envconfig:"DATE_COLUMN"`
	RequiredColumns []string `yaml:"required_columns" envconfig:"REQUIRED_COLUMNS" validate:"min=1"`
}

// Load loads configuration from environment variables and an optional
// YAML config file. Environment variables take precedence.
func Load(configFile string) (*Config, error) {
	var cfg Config

	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			fileCfg, err := loadFromFile(configFile)
			if err != nil {
				return nil, fmt.Errorf("failed to load config from file: %w", err)
			}
			cfg = *fileCfg
		}
	}

	if err := envconfig.Process("NEWSPREP", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}
	applyDefaults(&cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyDefaults fills fields the file/env left empty. Defaults live here
// rather than in envconfig tags so that file-loaded values survive env
// processing.
func applyDefaults(cfg *Config) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "console"
	}
	if cfg.Logging.FilePath == "" {
		cfg.Logging.FilePath = "logs/newsprep.log"
	}
	if cfg.Paths.DataDir == "" {
		cfg.Paths.DataDir = "data"
	}
	if cfg.Paths.ReportsDir == "" {
		cfg.Paths.ReportsDir = filepath.Join("data", "reports")
	}
	if cfg.Paths.LogsDir == "" {
		cfg.Paths.LogsDir = "logs"
	}
	if cfg.Pipeline.DateColumn == "" {
		cfg.Pipeline.DateColumn = "date"
	}
	if len(cfg.Pipeline.RequiredColumns) == 0 {
		cfg.Pipeline.RequiredColumns = []string{"date", "headline", "stock"}
	}
}

// validate checks the configuration using struct tags
func (c *Config) validate() error {
	return validator.New().Struct(c)
}

// GetReportPath returns the path for a report file under the reports dir.
func (c *Config) GetReportPath(name string) string {
	return filepath.Join(c.Paths.ReportsDir, name)
}

// GetLogPath returns the path for a log file under the logs dir.
func (c *Config) GetLogPath(name string) string {
	return filepath.Join(c.Paths.LogsDir, name)
}

// EnsureDirectories creates the output directories if missing.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.ReportsDir, c.Paths.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}
