package scoring

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	pharmacistJob = JobDescriptor{
		Title:        "Pharmacist",
		Description:  "Dispense prescription medication and counsel patients in a retail pharmacy.",
		Requirements: "Licensed pharmacist with pharmacy inventory experience.",
		Skills:       []string{"Pharmacy", "Medication Management", "Customer Service", "Inventory"},
	}
	pharmacistTalent = TalentDescriptor{
		Experience: "Licensed pharmacist with six years in a retail pharmacy. Dispense prescription medication, " +
			"counsel patients and manage pharmacy inventory.",
		Skills: []string{"pharmacy", "medication management", "patient care", "inventory"},
	}
	developerJob = JobDescriptor{
		Title:       "Software Developer",
		Description: "Build web applications with React and Node.",
		Skills:      []string{"javascript", "react"},
	}
)

func newTestPipeline(t *testing.T, opts ...Option) *Pipeline {
	t.Helper()
	p, err := NewPipeline(DefaultWeights(), opts...)
	require.NoError(t, err)
	return p
}

func Test_NewPipeline_RejectsBadWeights(t *testing.T) {
	_, err := NewPipeline(Weights{SkillOverlap: 0.5, TextualRelevance: 0.5, DomainAffinity: 0.5})

	var weightErr *WeightConfigurationError
	assert.True(t, errors.As(err, &weightErr))
}

func Test_Pipeline_Score_InvalidInput(t *testing.T) {
	p := newTestPipeline(t)

	_, err := p.Score(context.Background(), JobDescriptor{Skills: []string{}}, pharmacistTalent)
	assert.ErrorContains(t, err, "job.title")

	_, err = p.Score(context.Background(), pharmacistJob, TalentDescriptor{Experience: "x"})
	var invalid *InvalidInputError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "talent.skills", invalid.Field)
}

func Test_Pipeline_Score_SameDomainIsPerfect(t *testing.T) {
	p := newTestPipeline(t)

	result, err := p.Score(context.Background(), pharmacistJob, pharmacistTalent)
	require.NoError(t, err)

	assert.Equal(t, "same_domain", result.Adjustment.Rule)
	assert.GreaterOrEqual(t, result.Score, 0.85)
	assert.Equal(t, Perfect, result.Band)
	assert.False(t, result.Degraded())
}

func Test_Pipeline_Score_UnrelatedDomainIsPoor(t *testing.T) {
	p := newTestPipeline(t)

	result, err := p.Score(context.Background(), developerJob, pharmacistTalent)
	require.NoError(t, err)

	assert.Equal(t, "unrelated_domain", result.Adjustment.Rule)
	// Neither side states years, so only the open experience credit is left.
	assert.InDelta(t, 0.6*DefaultWeights().ExperienceMatch, result.Score, 1e-9)
	assert.Equal(t, Poor, result.Band)
}

func Test_Pipeline_Score_BreakdownInvariants(t *testing.T) {
	p := newTestPipeline(t)

	for _, job := range []JobDescriptor{pharmacistJob, developerJob} {
		result, err := p.Score(context.Background(), job, pharmacistTalent)
		require.NoError(t, err)

		require.Len(t, result.Breakdown, 5)
		assert.InDelta(t, result.Score, result.Breakdown.Sum(), 1e-9)
		assert.Equal(t, Percentage(result.Score), result.Percentage)
		assert.Equal(t, ClassifyScore(result.Score), result.Band)

		weights := 0.0
		for c := range result.Breakdown.All() {
			assert.GreaterOrEqual(t, c.RawScore, 0.0)
			assert.LessOrEqual(t, c.RawScore, 1.0)
			weights += c.Weight
		}
		assert.InDelta(t, 1.0, weights, 1e-9)

		affinity, ok := result.Breakdown.Get(ComponentDomainAffinity)
		require.True(t, ok)
		assert.Equal(t, result.Adjustment.Rule, affinity.Rule)
	}
}

func Test_Pipeline_Score_IsDeterministic(t *testing.T) {
	p := newTestPipeline(t)

	first, err := p.Score(context.Background(), pharmacistJob, pharmacistTalent)
	require.NoError(t, err)

	shuffled := pharmacistTalent
	shuffled.Skills = []string{"Inventory", "PATIENT CARE", "pharmacy", "medication  management"}
	second, err := p.Score(context.Background(), pharmacistJob, shuffled)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func Test_Pipeline_Score_ModelFailureDegrades(t *testing.T) {
	model := &mockModel{}
	model.On("Similarity", mock.Anything, mock.Anything, mock.Anything).Return(0.0, errors.New("503"))

	lexical, err := newTestPipeline(t).Score(context.Background(), pharmacistJob, pharmacistTalent)
	require.NoError(t, err)

	p := newTestPipeline(t, WithTextModel(model, time.Second))
	assert.True(t, p.HasTextModel())

	result, err := p.Score(context.Background(), pharmacistJob, pharmacistTalent)
	require.NoError(t, err)

	assert.True(t, result.Degraded())
	text, _ := result.Breakdown.Get(ComponentTextualRelevance)
	assert.True(t, text.Degraded)
	assert.Equal(t, lexical.Score, result.Score)
}

func Test_Pipeline_Score_UsesModelValue(t *testing.T) {
	model := &mockModel{}
	model.On("Similarity", mock.Anything, mock.Anything, mock.Anything).Return(0.2, nil)

	result, err := newTestPipeline(t, WithTextModel(model, time.Second)).
		Score(context.Background(), pharmacistJob, pharmacistTalent)
	require.NoError(t, err)

	text, _ := result.Breakdown.Get(ComponentTextualRelevance)
	assert.InDelta(t, 0.2, text.RawScore, 1e-9)
	assert.False(t, result.Degraded())
}

func Test_Pipeline_Score_CrossFunctionalTransfer(t *testing.T) {
	job := JobDescriptor{
		Title:       "IT Instructor",
		Description: "Teach programming courses to students.",
		Skills:      []string{"javascript", "teaching"},
	}
	talent := TalentDescriptor{
		Experience: "Software developer who mentors junior developers and runs javascript workshops.",
		Skills:     []string{"javascript", "react", "mentoring"},
	}

	result, err := newTestPipeline(t).Score(context.Background(), job, talent)
	require.NoError(t, err)

	assert.Equal(t, "cross_functional_transfer", result.Adjustment.Rule)
	assert.Equal(t, 1.35, result.Adjustment.Factor)
	affinity, _ := result.Breakdown.Get(ComponentDomainAffinity)
	assert.Equal(t, 0.9, affinity.RawScore)

	// javascript is exact and mentoring is a teaching synonym, so the boosted skill score clamps.
	skills, _ := result.Breakdown.Get(ComponentSkillOverlap)
	assert.Equal(t, 1.0, skills.RawScore)
}

func Test_Pipeline_Score_DeveloperTurnedInstructorIsExcellent(t *testing.T) {
	job := JobDescriptor{
		Title:        "IT Instructor",
		Description:  "Teach programming, web development, and computer science",
		Requirements: "Experience with software development and teaching",
		Skills:       []string{"JavaScript", "Python", "Teaching", "Communication"},
	}
	talent := TalentDescriptor{
		Experience: "Software Developer with 6 years of programming experience, now transitioning to education. " +
			"Experience mentoring junior developers and teaching programming workshops.",
		Skills: []string{"JavaScript", "Python", "Teaching", "Mentoring", "Communication"},
	}

	result, err := newTestPipeline(t).Score(context.Background(), job, talent)
	require.NoError(t, err)

	assert.Equal(t, "cross_functional_transfer", result.Adjustment.Rule)
	assert.GreaterOrEqual(t, result.Score, 0.70)
	assert.LessOrEqual(t, result.Score, 0.84)
	assert.Equal(t, Excellent, result.Band)
}

func Test_Pipeline_Score_ExperienceMatch(t *testing.T) {
	job := JobDescriptor{
		Title:        "Registered Nurse",
		Description:  "Provide patient care in hospital setting",
		Requirements: "Valid RN license, 2+ years clinical experience",
		Skills:       []string{"Patient Care"},
	}
	junior := TalentDescriptor{Experience: "Nursing student finishing clinical rotations", Skills: []string{"patient care"}}
	senior := TalentDescriptor{Experience: "Registered nurse with 4 years of ICU experience", Skills: []string{"patient care"}}

	p := newTestPipeline(t)
	juniorResult, err := p.Score(context.Background(), job, junior)
	require.NoError(t, err)
	seniorResult, err := p.Score(context.Background(), job, senior)
	require.NoError(t, err)

	juniorExperience, ok := juniorResult.Breakdown.Get(ComponentExperienceMatch)
	require.True(t, ok)
	seniorExperience, _ := seniorResult.Breakdown.Get(ComponentExperienceMatch)
	assert.Equal(t, 0.4, juniorExperience.RawScore)
	assert.Equal(t, 1.0, seniorExperience.RawScore)
}

func Test_Pipeline_Score_BlankJobText_SkipsModel(t *testing.T) {
	model := &mockModel{}
	job := JobDescriptor{Title: "Software Developer", Skills: []string{"javascript", "react"}}
	talent := TalentDescriptor{Experience: "Frontend developer building React apps", Skills: []string{"javascript", "react"}}

	result, err := newTestPipeline(t, WithTextModel(model, time.Second)).Score(context.Background(), job, talent)
	require.NoError(t, err)

	text, _ := result.Breakdown.Get(ComponentTextualRelevance)
	assert.Equal(t, NeutralScore, text.RawScore)
	assert.False(t, result.Degraded())
	model.AssertNotCalled(t, "Similarity", mock.Anything, mock.Anything, mock.Anything)
}

func Test_Pipeline_WithAffinityRules(t *testing.T) {
	rules := AffinityRules{{Name: "always", Affinity: 0.3, Factor: 1, Matches: func(AffinityContext) bool { return true }}}
	p := newTestPipeline(t, WithAffinityRules(rules))

	result, err := p.Score(context.Background(), developerJob, pharmacistTalent)
	require.NoError(t, err)

	assert.Equal(t, "always", result.Adjustment.Rule)
	assert.Equal(t, []string{"always"}, p.Rules().Names())
	assert.Equal(t, DefaultWeights(), p.Weights())
}
