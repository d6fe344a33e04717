package scoring

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_NormalizeSkills(t *testing.T) {
	got := NormalizeSkills([]string{" React ", "react", "Node  JS", "", "   "})
	assert.Equal(t, []string{"node js", "react"}, got)
}

func Test_NormalizeSkills_OrderAndCaseDoNotMatter(t *testing.T) {
	a := NormalizeSkills([]string{"SQL", "Go", "docker"})
	b := NormalizeSkills([]string{"docker", "go", "sql", "Go"})
	assert.Equal(t, a, b)
}

func Test_NormalizeText(t *testing.T) {
	assert.Equal(t, "full stack web dev inc", NormalizeText("  Full-Stack/Web_Dev, Inc.!"))
	assert.Equal(t, "", NormalizeText("!!!"))
}

func Test_Keywords_DropsStopwordsShortTokensAndNumbers(t *testing.T) {
	got := Keywords("The Senior Developer with 5 years of React experience, react 2024")
	assert.Equal(t, []string{"senior", "developer", "react"}, got)
}

func Test_ValidateJob(t *testing.T) {
	tests := []struct {
		name  string
		job   JobDescriptor
		field string
	}{
		{"missing title", JobDescriptor{Skills: []string{}}, "job.title"},
		{"blank title", JobDescriptor{Title: "  ", Skills: []string{}}, "job.title"},
		{"missing skills", JobDescriptor{Title: "Nurse"}, "job.skills"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateJob(tt.job)
			var invalid *InvalidInputError
			require.True(t, errors.As(err, &invalid))
			assert.Equal(t, tt.field, invalid.Field)
			assert.True(t, IsInvalidInput(err))
		})
	}

	assert.NoError(t, ValidateJob(JobDescriptor{Title: "Nurse", Skills: []string{}}))
}

func Test_ValidateTalent(t *testing.T) {
	err := ValidateTalent(TalentDescriptor{Skills: []string{"care"}})
	assert.ErrorContains(t, err, "talent.experience")

	err = ValidateTalent(TalentDescriptor{Experience: "ten years on a ward"})
	assert.ErrorContains(t, err, "talent.skills")

	assert.NoError(t, ValidateTalent(TalentDescriptor{Experience: "ten years on a ward", Skills: []string{}}))
}

func Test_NormalizeJob_IsIdempotent(t *testing.T) {
	job := JobDescriptor{
		Title:        "Senior  Pharmacist",
		Description:  "Dispense medication; counsel patients.",
		Requirements: "Licensed",
		Skills:       []string{"Pharmacy", "pharmacy", "Patient Care"},
	}
	once := NormalizeJob(job)
	assert.Equal(t, once, NormalizeJob(once))
	assert.Equal(t, []string{"patient care", "pharmacy"}, once.Skills)
}
