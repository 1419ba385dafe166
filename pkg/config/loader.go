package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// configName is the config file name without extension.
const configName = ".commitclass"

// configType is the config file format.
const configType = "yaml"

// envPrefix is the environment variable prefix for commitclass settings.
const envPrefix = "COMMITCLASS"

// envKeySeparator is the nested key separator in environment variable names.
const envKeySeparator = "_"

// LoadConfig loads configuration from file, env vars, and defaults.
// If configPath is non-empty, it is used as the explicit config file path.
// Otherwise, the config file is searched in CWD and $HOME.
// Missing config file is not an error; defaults are used.
func LoadConfig(configPath string) (*Config, error) {
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

		home, err := os.UserHomeDir()
		if err == nil {
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

func applyDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("output.directory", DefaultOutputDirectory)
	viperCfg.SetDefault("output.location", DefaultOutputLocation)
	viperCfg.SetDefault("output.layout", DefaultOutputLayout)
	viperCfg.SetDefault("output.log_file", DefaultOutputLogFile)
	viperCfg.SetDefault("output.messages_file", DefaultOutputMessagesFile)

	viperCfg.SetDefault("history.first_parent", DefaultHistoryFirstParent)
	viperCfg.SetDefault("history.limit", DefaultHistoryLimit)
	viperCfg.SetDefault("history.since", DefaultHistorySince)
	viperCfg.SetDefault("history.languages", []string{})
	viperCfg.SetDefault("history.max_file_size", DefaultHistoryMaxFileSize)
	viperCfg.SetDefault("history.annotations", DefaultHistoryAnnotations)

	viperCfg.SetDefault("words.enabled", DefaultWordsEnabled)
	viperCfg.SetDefault("words.top", DefaultWordsTop)
	viperCfg.SetDefault("words.min_length", DefaultWordsMinLength)
	viperCfg.SetDefault("words.file", DefaultWordsFile)

	viperCfg.SetDefault("logging.level", DefaultLoggingLevel)
	viperCfg.SetDefault("logging.format", DefaultLoggingFormat)

	viperCfg.SetDefault("telemetry.otlp_endpoint", DefaultTelemetryOTLPEndpoint)
	viperCfg.SetDefault("telemetry.otlp_headers", "")
	viperCfg.SetDefault("telemetry.otlp_insecure", DefaultTelemetryOTLPInsecure)
	viperCfg.SetDefault("telemetry.sample_ratio", DefaultTelemetrySampleRatio)
	viperCfg.SetDefault("telemetry.metrics_addr", DefaultTelemetryMetricsAddr)
	viperCfg.SetDefault("telemetry.environment", DefaultTelemetryEnvironment)
}
