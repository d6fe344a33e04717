package matcher

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/lukeperry/ssu-career-connect/internal/scoring"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockHTTPClient struct {
	mock.Mock
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	args := m.Called(req)
	response, _ := args.Get(0).(*http.Response)
	return response, args.Error(1)
}

func response(status int, body string) *http.Response {
	return &http.Response{StatusCode: status, Body: io.NopCloser(bytes.NewBufferString(body))}
}

var (
	job    = scoring.JobDescriptor{Title: "IT Instructor", Skills: []string{"Teaching"}}
	talent = scoring.TalentDescriptor{Experience: "Developer", Skills: []string{"Python"}}
)

func Test_MatcherClient_Score_ShouldDecodeResult(t *testing.T) {

	mockClient := &mockHTTPClient{}
	mockClient.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		var payload matchRequest
		_ = json.NewDecoder(req.Body).Decode(&payload)
		return req.URL.String() == "http://matcher:8081/api/v1/match" && payload.Job.Title == "IT Instructor"
	})).Return(response(200, `{
		"score": 0.745, "percentage": 74.5, "band": "EXCELLENT", "degraded": false,
		"details": {"rule": "cross_functional_transfer", "breakdown": [
			{"name": "skill_overlap", "raw_score": 0.675, "weight": 0.4, "weighted_contribution": 0.27}
		]}
	}`), nil)

	client := NewClient("http://matcher:8081/")
	client.SetHTTPClient(mockClient)

	result, err := client.Score(context.Background(), job, talent)

	require.NoError(t, err)
	assert.Equal(t, 0.745, result.Score)
	assert.Equal(t, scoring.Excellent, result.Band)
	assert.Equal(t, "cross_functional_transfer", result.Adjustment.Rule)
	require.Len(t, result.Breakdown, 1)
	assert.Equal(t, scoring.ComponentSkillOverlap, result.Breakdown[0].Name)
}

func Test_MatcherClient_BadRequest_ShouldBeInvalidInput(t *testing.T) {

	mockClient := &mockHTTPClient{}
	mockClient.On("Do", mock.Anything).Return(response(400,
		`{"error":{"code":"INVALID_INPUT","message":"invalid input: job.skills is required","field":"job.skills"}}`), nil).Once()

	client := NewClient("http://matcher:8081")
	client.SetHTTPClient(mockClient)

	_, err := client.Score(context.Background(), job, talent)

	var invalid *scoring.InvalidInputError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "job.skills", invalid.Field)
	mockClient.AssertNumberOfCalls(t, "Do", 1)
}

func Test_MatcherClient_ServerError_IsRetried(t *testing.T) {

	mockClient := &mockHTTPClient{}
	mockClient.On("Do", mock.Anything).Return(response(503, `unavailable`), nil).Once()
	mockClient.On("Do", mock.Anything).Return(response(200, `{"score": 0.1, "band": "POOR", "details": {"breakdown": []}}`), nil).Once()

	client := NewClient("http://matcher:8081")
	client.SetHTTPClient(mockClient)

	result, err := client.Score(context.Background(), job, talent)

	require.NoError(t, err)
	assert.Equal(t, scoring.Poor, result.Band)
	mockClient.AssertExpectations(t)
}

func Test_MatcherClient_UnknownBand_ShouldFail(t *testing.T) {

	mockClient := &mockHTTPClient{}
	mockClient.On("Do", mock.Anything).Return(response(200, `{"score": 0.1, "band": "SUPERB"}`), nil)

	client := NewClient("http://matcher:8081")
	client.SetHTTPClient(mockClient)

	_, err := client.Score(context.Background(), job, talent)
	assert.Error(t, err)
}
