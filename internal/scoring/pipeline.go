package scoring

import (
	"context"
	"strings"
	"time"

	"github.com/lukeperry/ssu-career-connect/internal/logger"
	"github.com/lukeperry/ssu-career-connect/internal/metrics"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

// Result is the outcome of scoring one job/talent pair.
type Result struct {
	Score      float64
	Percentage float64
	Band       QualityBand
	Breakdown  Breakdown
	Adjustment Adjustment
}

func (r Result) Degraded() bool {
	return r.Breakdown.Degraded()
}

// Pipeline scores pairs. It holds no mutable state and is safe for concurrent use.
type Pipeline struct {
	weights Weights
	text    *TextScorer
	rules   AffinityRules
}

type Option func(*Pipeline)

// WithTextModel makes the text scorer ask model first, bounded by timeout.
func WithTextModel(model SimilarityModel, timeout time.Duration) Option {
	return func(p *Pipeline) {
		p.text = NewTextScorer(model, timeout)
	}
}

func WithAffinityRules(rules AffinityRules) Option {
	return func(p *Pipeline) {
		p.rules = rules
	}
}

// NewPipeline validates weights once; a bad configuration never reaches Score.
func NewPipeline(weights Weights, opts ...Option) (*Pipeline, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	p := &Pipeline{
		weights: weights,
		text:    NewTextScorer(nil, 0),
		rules:   DefaultAffinityRules,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

func (p *Pipeline) Weights() Weights {
	return p.weights
}

func (p *Pipeline) Rules() AffinityRules {
	return p.rules
}

func (p *Pipeline) HasTextModel() bool {
	return p.text.HasModel()
}

// Score runs the full pipeline. The only error it returns is an *InvalidInputError.
func (p *Pipeline) Score(ctx context.Context, job JobDescriptor, talent TalentDescriptor) (Result, error) {
	if err := ValidateJob(job); err != nil {
		return Result{}, err
	}
	if err := ValidateTalent(talent); err != nil {
		return Result{}, err
	}

	start := time.Now()
	defer func() {
		metrics.ScoringDuration.Observe(time.Since(start).Seconds())
	}()

	experience := ExperienceMatch(lo.Ternary(strings.TrimSpace(job.Requirements) != "", job.Requirements, job.Description),
		talent.Experience)

	job, talent = NormalizeJob(job), NormalizeTalent(talent)

	skills := SkillOverlap(job.Skills, talent.Skills)

	textStart := time.Now()
	text := p.text.Score(ctx, job.Description+" "+job.Requirements, talent.Experience)
	metrics.ComponentDuration.WithLabelValues(ComponentTextualRelevance).Observe(time.Since(textStart).Seconds())
	if text.Degraded {
		metrics.DegradedScoresCounter.Inc()
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeTextModel).
			Warnf("text model failed, lexical fallback used: %v", text.Err)
	}

	adjustment := p.rules.Adjust(job, talent)
	title := TitleRelevance(job.Title, talent.Experience, talent.Skills)

	score, breakdown := Aggregate(p.weights, []ComponentResult{
		{Name: ComponentSkillOverlap, RawScore: clamp01(skills * adjustment.Factor)},
		{Name: ComponentTextualRelevance, RawScore: clamp01(text.Value * adjustment.Factor), Degraded: text.Degraded},
		{Name: ComponentDomainAffinity, RawScore: adjustment.Affinity, Rule: adjustment.Rule},
		{Name: ComponentTitleRelevance, RawScore: title},
		{Name: ComponentExperienceMatch, RawScore: experience},
	})

	band := ClassifyScore(score)
	metrics.ScoredBandsCounter.WithLabelValues(band.String()).Inc()

	return Result{
		Score:      score,
		Percentage: Percentage(score),
		Band:       band,
		Breakdown:  breakdown,
		Adjustment: adjustment,
	}, nil
}
