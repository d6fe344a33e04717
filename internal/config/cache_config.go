package config

import (
	"errors"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

type CacheConfig struct {
	MemoryTTL       time.Duration `mapstructure:"memory_ttl"`
	RetentionDays   int           `mapstructure:"retention_days"`
	CleanupSchedule string        `mapstructure:"cleanup_schedule"`
}

// RetentionEnabled reports whether old scores should be removed at all. Scores are
// kept forever by default.
func (config CacheConfig) RetentionEnabled() bool {
	return config.RetentionDays > 0
}

func (config CacheConfig) validate() error {
	var errs []error

	if config.MemoryTTL < 0 {
		errs = append(errs, errors.New("memory_ttl can't be negative"))
	}
	if config.RetentionDays < 0 {
		errs = append(errs, errors.New("retention_days can't be negative"))
	}
	if config.RetentionEnabled() {
		if _, err := cron.ParseStandard(config.CleanupSchedule); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (config CacheConfig) bindEnvironmentVariables(v *viper.Viper) error {
	return errors.Join(
		v.BindEnv("cache.retention_days", "SCORE_RETENTION_DAYS"),
		v.BindEnv("cache.memory_ttl", "SCORE_MEMORY_TTL"),
	)
}
