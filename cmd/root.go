package main

import (
	"context"

	"github.com/lukeperry/ssu-career-connect/internal/config"
	"github.com/lukeperry/ssu-career-connect/internal/scoring"
	"github.com/lukeperry/ssu-career-connect/internal/services"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const app = "matcher"

var (
	cfgFile string

	rootCmd = &cobra.Command{
		Use:          app,
		Short:        "matcher scores how well a talent fits a job and measures the scoring quality",
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is ./configs/config.yaml or CONFIG_PATH)")
}

func loadConfig() *config.Config {
	if cfgFile == "" {
		return config.Get()
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		log.Fatal(err)
	}
	return cfg
}

// newPipeline builds the scoring pipeline. Bad weights are a deployment error and
// stop the process.
func newPipeline(ctx context.Context, cfg *config.Config) (*scoring.Pipeline, services.TextModel) {
	textModel, err := services.NewTextModel(ctx, cfg.TextModel)
	if err != nil {
		log.Fatalf("can't create text model: %v", err)
	}

	var opts []scoring.Option
	if textModel.Model != nil {
		opts = append(opts, scoring.WithTextModel(textModel.Model, cfg.TextModel.Timeout))
	}

	w := cfg.Scoring.Weights
	pipeline, err := scoring.NewPipeline(scoring.Weights{
		SkillOverlap:     w.SkillOverlap,
		TextualRelevance: w.TextualRelevance,
		DomainAffinity:   w.DomainAffinity,
		TitleRelevance:   w.TitleRelevance,
		ExperienceMatch:  w.ExperienceMatch,
	}, opts...)

	var weightErr *scoring.WeightConfigurationError
	if errors.As(err, &weightErr) {
		log.Fatalf("invalid scoring weights: %v", weightErr)
	}
	if err != nil {
		log.Fatalf("can't create scoring pipeline: %v", err)
	}

	return pipeline, textModel
}
