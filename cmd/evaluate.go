package main

import (
	"fmt"
	"os"
	"time"

	"github.com/lukeperry/ssu-career-connect/internal/clients/matcher"
	"github.com/lukeperry/ssu-career-connect/internal/evaluation"
	"github.com/lukeperry/ssu-career-connect/internal/logger"
	"github.com/lukeperry/ssu-career-connect/internal/metrics"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Score the labeled dataset and report classification quality",
	Long: "Scores every labeled pair of the dataset, prints the confusion matrix, per-band metrics and heatmap, " +
		"and fails when accuracy falls below the recorded baseline or any pair can't be classified.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return evaluate(cmd)
	},
}

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evaluateCmd.Flags().String("dataset", "", "labeled dataset file (default is the built-in dataset)")
	evaluateCmd.Flags().String("endpoint", "", "score through a running matcher at this base URL instead of in-process")
	evaluateCmd.Flags().String("baseline", "", "baseline file for the regression gate")
	evaluateCmd.Flags().Bool("record", false, "write this run as the new baseline instead of checking it")
	evaluateCmd.Flags().Int("concurrency", 0, "pairs scored at the same time")
}

func evaluate(cmd *cobra.Command) error {
	ctx := cmd.Context()
	cfg := loadConfig()

	logger.Setup(cfg.Logger)
	defer logger.Cleanup()
	metrics.Register()

	flags := cmd.Flags()
	evalCfg := cfg.Evaluation
	if flags.Changed("dataset") {
		evalCfg.DatasetPath, _ = flags.GetString("dataset")
	}
	if flags.Changed("endpoint") {
		evalCfg.Endpoint, _ = flags.GetString("endpoint")
	}
	if flags.Changed("baseline") {
		evalCfg.BaselinePath, _ = flags.GetString("baseline")
	}
	if concurrency, _ := flags.GetInt("concurrency"); concurrency > 0 {
		evalCfg.Concurrency = concurrency
	}
	record, _ := flags.GetBool("record")

	dataset, err := evaluation.LoadDataset(evalCfg.DatasetPath)
	if err != nil {
		return err
	}

	var scorer evaluation.Scorer
	if evalCfg.Endpoint != "" {
		log.Infof("evaluating remote matcher at %v", evalCfg.Endpoint)
		scorer = matcher.NewClient(evalCfg.Endpoint)
	} else {
		pipeline, textModel := newPipeline(ctx, cfg)
		defer textModel.Close()
		scorer = pipeline
	}

	result, err := evaluation.NewRunner(scorer, evalCfg.Concurrency).Run(ctx, dataset)
	if err != nil {
		return err
	}

	if err := evaluation.WriteReport(os.Stdout, result); err != nil {
		return err
	}

	if unclassified := len(result.Unclassified()); unclassified > 0 {
		return fmt.Errorf("%d pairs could not be classified", unclassified)
	}

	if evalCfg.BaselinePath == "" {
		return nil
	}

	if record {
		if err := evaluation.SaveBaseline(evalCfg.BaselinePath, evaluation.NewBaseline(result.Metrics, time.Now())); err != nil {
			return err
		}
		log.Infof("baseline recorded to %v", evalCfg.BaselinePath)
		return nil
	}

	baseline, err := evaluation.LoadBaseline(evalCfg.BaselinePath)
	if err != nil {
		return err
	}
	if baseline == nil {
		log.Warnf("no baseline at %v, run with --record to create one", evalCfg.BaselinePath)
		return nil
	}

	if err := evaluation.CheckRegression(*baseline, result.Metrics); err != nil {
		return err
	}
	log.Info("no regression against baseline")
	return nil
}
