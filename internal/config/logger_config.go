package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type LogLevel string

const (
	LevelInfo    LogLevel = "INFO"
	LevelDebug   LogLevel = "DEBUG"
	LevelWarning LogLevel = "WARNING"
	LevelError   LogLevel = "ERROR"
	LevelFatal   LogLevel = "FATAL"
)

type LoggerConfig struct {
	LogLevel   LogLevel   `mapstructure:"log_level"`
	AppName    string     `mapstructure:"app_name"`
	OutputFile string     `mapstructure:"output_file"`
	Loki       LokiConfig `mapstructure:"loki"`
}

// LokiConfig enables log shipping when URL is set.
type LokiConfig struct {
	URL           string        `mapstructure:"url"`
	Username      string        `mapstructure:"username"`
	Password      string        `mapstructure:"password"`
	TenantID      string        `mapstructure:"tenant_id"`
	MinLevel      LogLevel      `mapstructure:"min_level"`
	BatchSize     int           `mapstructure:"batch_size"`
	FlushInterval time.Duration `mapstructure:"flush_interval"`
}

func (config LokiConfig) Enabled() bool {
	return config.URL != ""
}

func (config LoggerConfig) validate() error {
	var errs []error

	switch config.LogLevel {
	case LevelInfo, LevelDebug, LevelWarning, LevelError, LevelFatal:
	case "":
		errs = append(errs, fmt.Errorf("missing variable: log_level"))
	default:
		errs = append(errs, fmt.Errorf("unknown log_level %q", config.LogLevel))
	}
	if config.OutputFile == "" {
		errs = append(errs, fmt.Errorf("missing variable: output_file"))
	}
	if config.Loki.Enabled() {
		switch config.Loki.MinLevel {
		case LevelInfo, LevelDebug, LevelWarning, LevelError, LevelFatal, "":
		default:
			errs = append(errs, fmt.Errorf("unknown loki.min_level %q", config.Loki.MinLevel))
		}
		if config.Loki.BatchSize < 0 {
			errs = append(errs, fmt.Errorf("loki.batch_size must not be negative"))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred: %w", errors.Join(errs...))
	}

	return nil
}

func (config LoggerConfig) bindEnvironmentVariables(v *viper.Viper) error {

	err := v.BindEnv("logger.app_name", "APP_NAME")
	if err != nil {
		return err
	}

	err = v.BindEnv("logger.output_file", "LOG_OUTPUT_FILE")
	if err != nil {
		return err
	}

	for key, env := range map[string]string{
		"logger.loki.url":       "LOKI_URL",
		"logger.loki.username":  "LOKI_USERNAME",
		"logger.loki.password":  "LOKI_PASSWORD",
		"logger.loki.tenant_id": "LOKI_TENANT_ID",
	} {
		if err = v.BindEnv(key, env); err != nil {
			return err
		}
	}

	return v.BindEnv("logger.log_level", "LOG_LEVEL")
}
