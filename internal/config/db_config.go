package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

const (
	DriverSqlite   = "sqlite"
	DriverPostgres = "postgres"
)

type DBConfig struct {
	Driver           string `mapstructure:"driver"`
	ConnectionString string `mapstructure:"connection_string"`
}

func (config DBConfig) validate() error {
	var errs []error

	if config.Driver != DriverSqlite && config.Driver != DriverPostgres {
		errs = append(errs, fmt.Errorf("unsupported db driver %q", config.Driver))
	}
	if config.ConnectionString == "" {
		errs = append(errs, fmt.Errorf("missing variable: db connection string"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

func (config DBConfig) bindEnvironmentVariables(v *viper.Viper) error {
	return errors.Join(
		v.BindEnv("db.driver", "DB_DRIVER"),
		v.BindEnv("db.connection_string", "DB_CONNECTION_STRING"),
	)
}
