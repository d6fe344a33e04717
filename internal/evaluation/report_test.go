package evaluation

import (
	"bytes"
	"testing"

	"github.com/lukeperry/ssu-career-connect/internal/scoring"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Heat(t *testing.T) {
	assert.Equal(t, HeatHigh, Heat(100))
	assert.Equal(t, HeatHigh, Heat(60))
	assert.Equal(t, HeatMedium, Heat(59.9))
	assert.Equal(t, HeatMedium, Heat(30))
	assert.Equal(t, HeatLow, Heat(29.9))
	assert.Equal(t, HeatLow, Heat(0.1))
	assert.Equal(t, HeatNone, Heat(0))
}

func Test_WriteReport(t *testing.T) {
	evaluation := &Evaluation{Matrix: *sampleMatrix()}
	evaluation.Metrics = ComputeMetrics(&evaluation.Matrix)
	evaluation.Outcomes = []Outcome{
		{
			Pair: Pair{
				Job:      Job{ID: "2", JobDescriptor: scoring.JobDescriptor{Title: "IT Instructor"}},
				Talent:   Talent{ID: "12", Name: "Amanda"},
				Expected: scoring.Perfect,
			},
			Score:     0.836,
			Predicted: scoring.Excellent,
			Result: scoring.Result{Breakdown: scoring.Breakdown{
				{Name: scoring.ComponentDomainAffinity, RawScore: 0.9, Weight: 0.25, WeightedContribution: 0.225,
					Rule: "cross_functional_transfer"},
			}},
		},
		{
			Pair: Pair{Job: Job{ID: "1"}, Talent: Talent{ID: "3"}, Expected: scoring.Poor},
			Err:  errors.New("timeout"),
		},
	}

	var out bytes.Buffer
	require.NoError(t, WriteReport(&out, evaluation))
	report := out.String()

	assert.Contains(t, report, "CONFUSION MATRIX")
	assert.Contains(t, report, "Exact accuracy: 60.0%")
	assert.Contains(t, report, "Off-by-one accuracy: 80.0%")
	assert.Contains(t, report, "HEATMAP")
	assert.Contains(t, report, "expected PERFECT, got EXCELLENT (83.6%)")
	assert.Contains(t, report, "[cross_functional_transfer]")
	assert.Contains(t, report, "Unclassified pairs: 1")
	assert.Contains(t, report, "talent 3 vs job 1: timeout")
}
