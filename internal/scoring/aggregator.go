package scoring

import (
	"fmt"
	"iter"
	"math"
)

// Component names, in breakdown order.
const (
	ComponentSkillOverlap     = "skill_overlap"
	ComponentTextualRelevance = "textual_relevance"
	ComponentDomainAffinity   = "domain_affinity"
	ComponentTitleRelevance   = "title_relevance"
	ComponentExperienceMatch  = "experience_match"
)

const weightTolerance = 1e-9

// Weights are fixed per deployment and must sum to 1.
type Weights struct {
	SkillOverlap     float64
	TextualRelevance float64
	DomainAffinity   float64
	TitleRelevance   float64
	ExperienceMatch  float64
}

func DefaultWeights() Weights {
	return Weights{
		SkillOverlap:     0.25,
		TextualRelevance: 0.10,
		DomainAffinity:   0.35,
		TitleRelevance:   0.15,
		ExperienceMatch:  0.15,
	}
}

func (w Weights) Sum() float64 {
	return w.SkillOverlap + w.TextualRelevance + w.DomainAffinity + w.TitleRelevance + w.ExperienceMatch
}

// Validate returns a *WeightConfigurationError when a weight is outside [0,1] or the
// weights don't add up to 1.
func (w Weights) Validate() error {
	named := []struct {
		name  string
		value float64
	}{
		{ComponentSkillOverlap, w.SkillOverlap},
		{ComponentTextualRelevance, w.TextualRelevance},
		{ComponentDomainAffinity, w.DomainAffinity},
		{ComponentTitleRelevance, w.TitleRelevance},
		{ComponentExperienceMatch, w.ExperienceMatch},
	}
	for _, n := range named {
		if math.IsNaN(n.value) || n.value < 0 || n.value > 1 {
			return &WeightConfigurationError{Sum: w.Sum(), Reason: fmt.Sprintf("%s weight %v is outside [0,1]", n.name, n.value)}
		}
	}
	if sum := w.Sum(); math.Abs(sum-1) > weightTolerance {
		return &WeightConfigurationError{Sum: sum}
	}
	return nil
}

func (w Weights) of(component string) float64 {
	switch component {
	case ComponentSkillOverlap:
		return w.SkillOverlap
	case ComponentTextualRelevance:
		return w.TextualRelevance
	case ComponentDomainAffinity:
		return w.DomainAffinity
	case ComponentTitleRelevance:
		return w.TitleRelevance
	case ComponentExperienceMatch:
		return w.ExperienceMatch
	}
	return 0
}

// ComponentResult is one line of the score breakdown.
type ComponentResult struct {
	Name                 string  `json:"name"`
	RawScore             float64 `json:"raw_score"`
	Weight               float64 `json:"weight"`
	WeightedContribution float64 `json:"weighted_contribution"`
	Degraded             bool    `json:"degraded,omitempty"`
	Rule                 string  `json:"rule,omitempty"`
}

// Breakdown is the ordered audit trail of a scoring run.
type Breakdown []ComponentResult

// All iterates the breakdown in order; the sequence can be ranged over repeatedly.
func (b Breakdown) All() iter.Seq[ComponentResult] {
	return func(yield func(ComponentResult) bool) {
		for _, r := range b {
			if !yield(r) {
				return
			}
		}
	}
}

func (b Breakdown) Sum() float64 {
	total := 0.0
	for r := range b.All() {
		total += r.WeightedContribution
	}
	return total
}

func (b Breakdown) Degraded() bool {
	for r := range b.All() {
		if r.Degraded {
			return true
		}
	}
	return false
}

func (b Breakdown) Get(name string) (ComponentResult, bool) {
	for r := range b.All() {
		if r.Name == name {
			return r, true
		}
	}
	return ComponentResult{}, false
}

// Aggregate fills in weights and contributions and sums them.
func Aggregate(weights Weights, results []ComponentResult) (float64, Breakdown) {
	breakdown := make(Breakdown, 0, len(results))
	score := 0.0
	for _, r := range results {
		r.RawScore = clamp01(r.RawScore)
		r.Weight = weights.of(r.Name)
		r.WeightedContribution = r.RawScore * r.Weight
		score += r.WeightedContribution
		breakdown = append(breakdown, r)
	}
	return clamp01(score), breakdown
}
