package evaluation

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/lukeperry/ssu-career-connect/internal/logger"
	"github.com/lukeperry/ssu-career-connect/internal/scoring"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Scorer is the scoring entry point under evaluation: the in-process pipeline or a
// remote matcher.
type Scorer interface {
	Score(ctx context.Context, job scoring.JobDescriptor, talent scoring.TalentDescriptor) (scoring.Result, error)
}

// Outcome is the evaluation of one labeled pair. Err is set when the pair couldn't
// be scored or its score couldn't be classified.
type Outcome struct {
	Pair      Pair
	Score     float64
	Predicted scoring.QualityBand
	Result    scoring.Result
	Err       error
}

func (o Outcome) Classified() bool {
	return o.Err == nil
}

type Evaluation struct {
	Outcomes []Outcome
	Matrix   ConfusionMatrix
	Metrics  Metrics
}

// Unclassified returns the outcomes that didn't make it into the matrix.
func (e *Evaluation) Unclassified() []Outcome {
	var failed []Outcome
	for _, outcome := range e.Outcomes {
		if !outcome.Classified() {
			failed = append(failed, outcome)
		}
	}
	return failed
}

// Mismatches returns classified outcomes whose band differs from the label, worst first.
func (e *Evaluation) Mismatches() []Outcome {
	var mismatches []Outcome
	for _, outcome := range e.Outcomes {
		if outcome.Classified() && outcome.Predicted != outcome.Pair.Expected {
			mismatches = append(mismatches, outcome)
		}
	}
	sort.SliceStable(mismatches, func(i, j int) bool {
		di := mismatches[i].Predicted.Distance(mismatches[i].Pair.Expected)
		dj := mismatches[j].Predicted.Distance(mismatches[j].Pair.Expected)
		return di > dj
	})
	return mismatches
}

type Runner struct {
	scorer      Scorer
	concurrency int
}

func NewRunner(scorer Scorer, concurrency int) *Runner {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Runner{scorer: scorer, concurrency: concurrency}
}

// Run scores every labeled pair. A pair that fails is kept as an unclassified
// outcome; only cancellation aborts the run.
func (r *Runner) Run(ctx context.Context, dataset *Dataset) (*Evaluation, error) {
	pairs := dataset.Pairs()
	outcomes := make([]Outcome, len(pairs))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(r.concurrency)

	for i, pair := range pairs {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			outcomes[i] = r.evaluate(groupCtx, pair)
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	evaluation := &Evaluation{Outcomes: outcomes}
	for _, outcome := range outcomes {
		if outcome.Classified() {
			evaluation.Matrix.Add(outcome.Pair.Expected, outcome.Predicted)
		}
	}
	evaluation.Metrics = ComputeMetrics(&evaluation.Matrix)

	log.Infof("evaluated %d pairs, %d unclassified", len(outcomes), len(evaluation.Unclassified()))
	return evaluation, nil
}

func (r *Runner) evaluate(ctx context.Context, pair Pair) Outcome {
	outcome := Outcome{Pair: pair}

	result, err := r.scorer.Score(ctx, pair.Job.JobDescriptor, pair.Talent.TalentDescriptor)
	if err == nil && (math.IsNaN(result.Score) || result.Score < 0 || result.Score > 1) {
		err = fmt.Errorf("score %v is outside [0,1]", result.Score)
	}
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeEvaluation).
			Warnf("talent %v vs job %v: %v", pair.Talent.ID, pair.Job.ID, err)
		outcome.Err = err
		return outcome
	}

	outcome.Result = result
	outcome.Score = result.Score
	outcome.Predicted = scoring.ClassifyScore(result.Score)
	return outcome
}
