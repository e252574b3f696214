// Package config loads solt settings from .solt.yaml, SOLT_* environment
// variables and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config is the top-level configuration struct for solt.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Write     WriteConfig     `mapstructure:"write"`
	Verify    VerifyConfig    `mapstructure:"verify"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// WriteConfig holds source collection and manifest settings.
type WriteConfig struct {
	Optimize     bool   `mapstructure:"optimize"`
	Runs         int    `mapstructure:"runs"`
	NPM          bool   `mapstructure:"npm"`
	BaseDir      string `mapstructure:"base_dir"      validate:"required"`
	SourceSuffix string `mapstructure:"source_suffix" validate:"required,startswith=."`
	IgnoreExt    string `mapstructure:"ignore_ext"`
	Pretty       bool   `mapstructure:"pretty"`
	Validate     bool   `mapstructure:"validate"`
}

// VerifyConfig holds Etherscan verification settings.
type VerifyConfig struct {
	Network         string        `mapstructure:"network"           validate:"required"`
	EtherscanAPIKey string        `mapstructure:"etherscan_api_key"`
	InfuraProjectID string        `mapstructure:"infura_project_id"`
	PollInterval    time.Duration `mapstructure:"poll_interval"     validate:"gt=0"`
	MaxRetries      int           `mapstructure:"max_retries"       validate:"gte=0"`
	SolcListURL     string        `mapstructure:"solc_list_url"     validate:"required,url"`
	InfuraURL       string        `mapstructure:"infura_url"        validate:"omitempty,url"`
	EtherscanURL    string        `mapstructure:"etherscan_url"     validate:"omitempty,url"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// TelemetryConfig holds tracing and metrics export settings.
type TelemetryConfig struct {
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	OTLPInsecure bool   `mapstructure:"otlp_insecure"`
	MetricsFile  string `mapstructure:"metrics_file"`
}

// Sentinel errors for configuration validation.
var (
	// ErrInvalidSourceSuffix indicates the source suffix is empty or lacks a leading dot.
	ErrInvalidSourceSuffix = errors.New("write.source_suffix must start with '.'")
	// ErrIgnoreExtMismatch indicates the ignored test suffix can never match a source file.
	ErrIgnoreExtMismatch = errors.New("write.ignore_ext must end with write.source_suffix")
	// ErrInvalidLogLevel indicates an unknown logging level.
	ErrInvalidLogLevel = errors.New("logging.level must be one of debug, info, warn, error")
	// ErrInvalidVerify indicates a verify setting failed struct validation.
	ErrInvalidVerify = errors.New("invalid verify settings")
	// ErrInvalidWrite indicates a write setting failed struct validation.
	ErrInvalidWrite = errors.New("invalid write settings")
)

var logLevels = []string{"debug", "info", "warn", "error"}

// Validate checks Config invariants and returns the first error found.
func (c *Config) Validate() error {
	writeErr := c.validateWrite()
	if writeErr != nil {
		return writeErr
	}

	verifyErr := structValidator().Struct(c.Verify)
	if verifyErr != nil {
		return fmt.Errorf("%w: %w", ErrInvalidVerify, verifyErr)
	}

	level := strings.ToLower(c.Logging.Level)
	for _, known := range logLevels {
		if level == known {
			return nil
		}
	}

	return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Logging.Level)
}

func (c *Config) validateWrite() error {
	if !strings.HasPrefix(c.Write.SourceSuffix, ".") {
		return fmt.Errorf("%w: %q", ErrInvalidSourceSuffix, c.Write.SourceSuffix)
	}

	if c.Write.IgnoreExt != "" && !strings.HasSuffix(c.Write.IgnoreExt, c.Write.SourceSuffix) {
		return fmt.Errorf("%w: %q vs %q", ErrIgnoreExtMismatch, c.Write.IgnoreExt, c.Write.SourceSuffix)
	}

	err := structValidator().Struct(c.Write)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidWrite, err)
	}

	return nil
}

func structValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}
