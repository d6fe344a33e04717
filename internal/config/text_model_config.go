package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	ProviderLexical   = "lexical"
	ProviderEmbedding = "embedding"
	ProviderGemini    = "gemini"
)

type TextModelConfig struct {
	Provider             string        `mapstructure:"provider"`
	URL                  string        `mapstructure:"url"`
	APIKey               string        `mapstructure:"api_key"`
	Model                string        `mapstructure:"model"`
	Timeout              time.Duration `mapstructure:"timeout"`
	MaxRequestsPerMinute float32       `mapstructure:"max_requests_per_minute"`
	MaxRequestsPerDay    float32       `mapstructure:"max_requests_per_day"`
}

func (config TextModelConfig) validate() error {

	var missingFields []string

	switch config.Provider {
	case ProviderLexical:
	case ProviderEmbedding:
		if config.URL == "" {
			missingFields = append(missingFields, "url")
		}
	case ProviderGemini:
		if config.APIKey == "" {
			missingFields = append(missingFields, "api_key")
		}
	default:
		return fmt.Errorf("unknown text model provider %q", config.Provider)
	}

	if len(missingFields) > 0 {
		return fmt.Errorf("missing required variables: %s", strings.Join(missingFields, ", "))
	}

	if config.Timeout <= 0 {
		return errors.New("timeout must be positive")
	}

	return nil
}

func (config TextModelConfig) bindEnvironmentVariables(v *viper.Viper) error {
	var errs []error
	if err := v.BindEnv("text_model.provider", "TEXT_MODEL_PROVIDER"); err != nil {
		errs = append(errs, err)
	}

	if err := v.BindEnv("text_model.url", "TEXT_MODEL_URL"); err != nil {
		errs = append(errs, err)
	}

	if err := v.BindEnv("text_model.api_key", "AI_KEY"); err != nil {
		errs = append(errs, err)
	}

	if err := v.BindEnv("text_model.timeout", "TEXT_MODEL_TIMEOUT"); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}
