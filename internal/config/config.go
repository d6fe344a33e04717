package config

import (
	"errors"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	Logger     LoggerConfig     `mapstructure:"logger"`
	DB         DBConfig         `mapstructure:"db"`
	Server     ServerConfig     `mapstructure:"server"`
	Scoring    ScoringConfig    `mapstructure:"scoring"`
	TextModel  TextModelConfig  `mapstructure:"text_model"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Matching   MatchingConfig   `mapstructure:"matching"`
	Evaluation EvaluationConfig `mapstructure:"evaluation"`
}

var configFile = "./configs/config.yaml"

type section interface {
	validate() error
	bindEnvironmentVariables(v *viper.Viper) error
}

func (config *Config) sections() map[string]section {
	return map[string]section{
		"LoggerConfig":     config.Logger,
		"DBConfig":         config.DB,
		"ServerConfig":     config.Server,
		"ScoringConfig":    config.Scoring,
		"TextModelConfig":  config.TextModel,
		"CacheConfig":      config.Cache,
		"MatchingConfig":   config.Matching,
		"EvaluationConfig": config.Evaluation,
	}
}

func Get() *Config {

	file := configFile
	if value, _ := os.LookupEnv("MODE"); value == "test" {
		file = "../../configs/config.yaml"
	}
	if value, ok := os.LookupEnv("CONFIG_PATH"); ok && value != "" {
		file = value
	}

	config, err := Load(file)
	if err != nil {
		log.Fatal(err)
	}

	return config
}

// Load reads file, applies environment overrides and validates every section.
func Load(file string) (*Config, error) {

	v := viper.New()
	v.SetConfigFile(file)
	v.AutomaticEnv()
	setDefaults(v)

	if err := bindEnvironmentVariables(v); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", file, err)
	}

	config := Config{}
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.log_level", LevelInfo)
	v.SetDefault("logger.output_file", "./logs/errors.log")
	v.SetDefault("db.driver", DriverSqlite)
	v.SetDefault("server.address", ":8081")
	v.SetDefault("server.metrics_address", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("scoring.weights.skill_overlap", 0.25)
	v.SetDefault("scoring.weights.textual_relevance", 0.10)
	v.SetDefault("scoring.weights.domain_affinity", 0.35)
	v.SetDefault("scoring.weights.title_relevance", 0.15)
	v.SetDefault("scoring.weights.experience_match", 0.15)
	v.SetDefault("text_model.provider", ProviderLexical)
	v.SetDefault("text_model.timeout", "15s")
	v.SetDefault("cache.memory_ttl", "10m")
	v.SetDefault("cache.cleanup_schedule", "0 0 * * *")
	v.SetDefault("matching.concurrency", 10)
	v.SetDefault("evaluation.concurrency", 5)
}

func bindEnvironmentVariables(v *viper.Viper) error {
	var errs []error

	for name, s := range (&Config{}).sections() {
		if err := s.bindEnvironmentVariables(v); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred: %w", errors.Join(errs...))
	}

	return nil
}

func (config Config) validate() error {
	var errs []error

	for name, s := range config.sections() {
		if err := s.validate(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred: %w", errors.Join(errs...))
	}

	return nil
}
