package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// configName is the config file name without extension.
const configName = ".solt"

// configType is the config file format.
const configType = "yaml"

// envPrefix is the environment variable prefix for solt settings.
const envPrefix = "SOLT"

// envKeySeparator is the nested key separator in environment variable names.
const envKeySeparator = "_"

// dotEnvFile is loaded into the process environment before config resolution.
const dotEnvFile = ".env"

// LoadConfig loads configuration from file, env vars, and defaults.
// If configPath is non-empty, it is used as the explicit config file path.
// Otherwise, the config file is searched in CWD and $HOME.
// Missing config and .env files are not errors; defaults are used.
func LoadConfig(configPath string) (*Config, error) {
	err := loadDotEnv(dotEnvFile)
	if err != nil {
		return nil, err
	}

	viperCfg := viper.New()

	applyDefaults(viperCfg)

	viperCfg.SetConfigType(configType)
	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	viperCfg.AutomaticEnv()

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.AddConfigPath(".")

		home, homeErr := os.UserHomeDir()
		if homeErr == nil {
			viperCfg.AddConfigPath(home)
		}
	}

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFound) {
			return nil, fmt.Errorf("read config: %w", readErr)
		}
	}

	var cfg Config

	unmarshalErr := viperCfg.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal config: %w", unmarshalErr)
	}

	validateErr := cfg.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("validate config: %w", validateErr)
	}

	return &cfg, nil
}

// loadDotEnv exports KEY=VALUE pairs from path without overriding variables
// that are already set.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}

	return nil
}

func applyDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("write.optimize", DefaultWriteOptimize)
	viperCfg.SetDefault("write.runs", DefaultWriteRuns)
	viperCfg.SetDefault("write.npm", DefaultWriteNPM)
	viperCfg.SetDefault("write.base_dir", DefaultWriteBaseDir)
	viperCfg.SetDefault("write.source_suffix", DefaultWriteSourceSuffix)
	viperCfg.SetDefault("write.ignore_ext", DefaultWriteIgnoreExt)
	viperCfg.SetDefault("write.pretty", DefaultWritePretty)
	viperCfg.SetDefault("write.validate", DefaultWriteValidate)

	viperCfg.SetDefault("verify.network", DefaultVerifyNetwork)
	viperCfg.SetDefault("verify.etherscan_api_key", "")
	viperCfg.SetDefault("verify.infura_project_id", "")
	viperCfg.SetDefault("verify.poll_interval", DefaultVerifyPollInterval)
	viperCfg.SetDefault("verify.max_retries", DefaultVerifyMaxRetries)
	viperCfg.SetDefault("verify.solc_list_url", DefaultVerifySolcListURL)
	viperCfg.SetDefault("verify.infura_url", "")
	viperCfg.SetDefault("verify.etherscan_url", "")

	viperCfg.SetDefault("logging.level", DefaultLoggingLevel)
	viperCfg.SetDefault("logging.json", DefaultLoggingJSON)

	viperCfg.SetDefault("telemetry.otlp_endpoint", DefaultTelemetryOTLPEndpoint)
	viperCfg.SetDefault("telemetry.otlp_insecure", DefaultTelemetryOTLPInsecure)
	viperCfg.SetDefault("telemetry.metrics_file", DefaultTelemetryMetricsFile)
}
