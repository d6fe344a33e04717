package config

import (
	"errors"

	"github.com/spf13/viper"
)

type MatchingConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

func (config MatchingConfig) validate() error {
	if config.Concurrency <= 0 {
		return errors.New("concurrency must be greater than zero")
	}
	return nil
}

func (config MatchingConfig) bindEnvironmentVariables(v *viper.Viper) error {
	return v.BindEnv("matching.concurrency", "MATCHING_CONCURRENCY")
}

// EvaluationConfig points the harness at its inputs. An empty dataset path means
// the built-in dataset.
type EvaluationConfig struct {
	DatasetPath  string `mapstructure:"dataset_path"`
	BaselinePath string `mapstructure:"baseline_path"`
	Endpoint     string `mapstructure:"endpoint"`
	Concurrency  int    `mapstructure:"concurrency"`
}

func (config EvaluationConfig) validate() error {
	if config.Concurrency <= 0 {
		return errors.New("concurrency must be greater than zero")
	}
	return nil
}

func (config EvaluationConfig) bindEnvironmentVariables(v *viper.Viper) error {
	return errors.Join(
		v.BindEnv("evaluation.dataset_path", "EVALUATION_DATASET"),
		v.BindEnv("evaluation.baseline_path", "EVALUATION_BASELINE"),
		v.BindEnv("evaluation.endpoint", "EVALUATION_ENDPOINT"),
	)
}
