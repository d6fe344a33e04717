package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// WeightsConfig mirrors the aggregator weights. Whether they add up to 1 is checked
// when the scoring pipeline is built, which is fatal at startup.
type WeightsConfig struct {
	SkillOverlap     float64 `mapstructure:"skill_overlap"`
	TextualRelevance float64 `mapstructure:"textual_relevance"`
	DomainAffinity   float64 `mapstructure:"domain_affinity"`
	TitleRelevance   float64 `mapstructure:"title_relevance"`
	ExperienceMatch  float64 `mapstructure:"experience_match"`
}

type ScoringConfig struct {
	Weights WeightsConfig `mapstructure:"weights"`
}

func (config ScoringConfig) validate() error {
	w := config.Weights
	if w.SkillOverlap < 0 || w.TextualRelevance < 0 || w.DomainAffinity < 0 || w.TitleRelevance < 0 || w.ExperienceMatch < 0 {
		return fmt.Errorf("weights can't be negative")
	}
	return nil
}

func (config ScoringConfig) bindEnvironmentVariables(v *viper.Viper) error {
	return errors.Join(
		v.BindEnv("scoring.weights.skill_overlap", "WEIGHT_SKILL_OVERLAP"),
		v.BindEnv("scoring.weights.textual_relevance", "WEIGHT_TEXTUAL_RELEVANCE"),
		v.BindEnv("scoring.weights.domain_affinity", "WEIGHT_DOMAIN_AFFINITY"),
		v.BindEnv("scoring.weights.title_relevance", "WEIGHT_TITLE_RELEVANCE"),
		v.BindEnv("scoring.weights.experience_match", "WEIGHT_EXPERIENCE_MATCH"),
	)
}
