package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Address        string        `mapstructure:"address"`
	MetricsAddress string        `mapstructure:"metrics_address"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
}

func (config ServerConfig) validate() error {
	var errs []error

	if config.Address == "" {
		errs = append(errs, fmt.Errorf("missing variable: address"))
	}
	if config.MetricsAddress != "" && config.MetricsAddress == config.Address {
		errs = append(errs, fmt.Errorf("metrics_address must differ from address"))
	}
	if config.ReadTimeout <= 0 || config.WriteTimeout <= 0 {
		errs = append(errs, fmt.Errorf("read_timeout and write_timeout must be positive"))
	}

	return errors.Join(errs...)
}

func (config ServerConfig) bindEnvironmentVariables(v *viper.Viper) error {
	return errors.Join(
		v.BindEnv("server.address", "SERVER_ADDRESS"),
		v.BindEnv("server.metrics_address", "METRICS_ADDRESS"),
	)
}
