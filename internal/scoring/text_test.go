package scoring

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockModel struct {
	mock.Mock
}

func (m *mockModel) Similarity(ctx context.Context, query, candidate string) (float64, error) {
	args := m.Called(ctx, query, candidate)
	return args.Get(0).(float64), args.Error(1)
}

type modelFunc func(ctx context.Context, query, candidate string) (float64, error)

func (f modelFunc) Similarity(ctx context.Context, query, candidate string) (float64, error) {
	return f(ctx, query, candidate)
}

func Test_LexicalRelevance(t *testing.T) {
	assert.Equal(t, 1.0, LexicalRelevance("react developer", "I am a React developer"))
	assert.Equal(t, 0.5, LexicalRelevance("react developer", "I am a React engineer"))
	assert.Equal(t, NeutralScore, LexicalRelevance("the and of", "anything"))
	assert.Equal(t, 1.0, LexicalRelevance("teaching", "teaches children"))
	assert.Equal(t, 0.0, LexicalRelevance("pharmacy", ""))
}

func Test_TitleRelevance(t *testing.T) {
	assert.InDelta(t, 1.0/3, TitleRelevance("Senior React Developer", "built react apps", []string{"javascript"}), 1e-9)
	assert.Equal(t, 1.0, TitleRelevance("Pharmacist", "", []string{"pharmacist"}))
	assert.Equal(t, NeutralScore, TitleRelevance("", "anything", nil))
}

func Test_TextScorer_WithoutModel_IsLexicalAndNotDegraded(t *testing.T) {
	scorer := NewTextScorer(nil, 0)

	got := scorer.Score(context.Background(), "react developer", "react developer")

	assert.False(t, scorer.HasModel())
	assert.Equal(t, TextScore{Value: 1.0}, got)
}

func Test_TextScorer_UsesModel(t *testing.T) {
	model := &mockModel{}
	model.On("Similarity", mock.Anything, "query text", "candidate text").Return(0.8, nil).Once()

	got := NewTextScorer(model, time.Second).Score(context.Background(), "query text", "candidate text")

	assert.Equal(t, TextScore{Value: 0.8}, got)
	model.AssertExpectations(t)
}

func Test_TextScorer_BlankQuery_SkipsModel(t *testing.T) {
	model := &mockModel{}
	scorer := NewTextScorer(model, time.Second)

	got := scorer.Score(context.Background(), " ", "taught programming for five years")

	assert.Equal(t, TextScore{Value: NeutralScore}, got)
	model.AssertNotCalled(t, "Similarity", mock.Anything, mock.Anything, mock.Anything)
}

func Test_TextScorer_ClampsModelValue(t *testing.T) {
	model := &mockModel{}
	model.On("Similarity", mock.Anything, mock.Anything, mock.Anything).Return(1.5, nil)

	got := NewTextScorer(model, time.Second).Score(context.Background(), "a", "b")

	assert.Equal(t, 1.0, got.Value)
	assert.False(t, got.Degraded)
}

func Test_TextScorer_ModelError_FallsBackDegraded(t *testing.T) {
	model := &mockModel{}
	model.On("Similarity", mock.Anything, mock.Anything, mock.Anything).Return(0.0, errors.New("connection refused"))

	got := NewTextScorer(model, time.Second).Score(context.Background(), "react developer", "react engineer")

	assert.True(t, got.Degraded)
	assert.Equal(t, 0.5, got.Value)
	assert.ErrorIs(t, got.Err, ErrModelUnavailable)
	assert.ErrorContains(t, got.Err, "connection refused")
}

func Test_TextScorer_ModelNaN_FallsBackDegraded(t *testing.T) {
	model := &mockModel{}
	model.On("Similarity", mock.Anything, mock.Anything, mock.Anything).Return(math.NaN(), nil)

	got := NewTextScorer(model, time.Second).Score(context.Background(), "react", "react")

	assert.True(t, got.Degraded)
	assert.Equal(t, 1.0, got.Value)
}

func Test_TextScorer_ModelTimeout(t *testing.T) {
	slow := modelFunc(func(ctx context.Context, _, _ string) (float64, error) {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(5 * time.Second):
			return 1, nil
		}
	})

	start := time.Now()
	got := NewTextScorer(slow, 20*time.Millisecond).Score(context.Background(), "react", "vue")

	assert.Less(t, time.Since(start), 2*time.Second)
	assert.True(t, got.Degraded)
	assert.Equal(t, 0.0, got.Value)
	assert.ErrorIs(t, got.Err, ErrModelUnavailable)
}

func Test_NewTextScorer_DefaultTimeout(t *testing.T) {
	assert.Equal(t, DefaultModelTimeout, NewTextScorer(nil, -1).timeout)
}
