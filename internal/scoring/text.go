package scoring

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

const (
	// prefixMatchLen lets "teaching" match "teaches" and "develop" match "development".
	prefixMatchLen = 5

	DefaultModelTimeout = 15 * time.Second
)

// SimilarityModel is an external semantic similarity model. Implementations return a
// similarity in [0,1] where query is the job text and candidate the talent narrative.
type SimilarityModel interface {
	Similarity(ctx context.Context, query, candidate string) (float64, error)
}

// TextScorer measures how close the talent narrative is to the job text. Without a
// model it uses lexical overlap; with a model it falls back to lexical overlap when
// the model fails.
type TextScorer struct {
	model   SimilarityModel
	timeout time.Duration
}

func NewTextScorer(model SimilarityModel, timeout time.Duration) *TextScorer {
	if timeout <= 0 {
		timeout = DefaultModelTimeout
	}
	return &TextScorer{model: model, timeout: timeout}
}

// TextScore is the outcome of one text comparison.
type TextScore struct {
	Value    float64
	Degraded bool
	Err      error
}

func (s *TextScorer) HasModel() bool {
	return s != nil && s.model != nil
}

// Score asks the model when there is one and both texts have content. A blank query
// is neutral and never reaches the model.
func (s *TextScorer) Score(ctx context.Context, query, candidate string) TextScore {
	if !s.HasModel() || strings.TrimSpace(query) == "" || strings.TrimSpace(candidate) == "" {
		return TextScore{Value: LexicalRelevance(query, candidate)}
	}

	value, err := s.modelScore(ctx, query, candidate)
	if err != nil {
		return TextScore{Value: LexicalRelevance(query, candidate), Degraded: true, Err: err}
	}
	return TextScore{Value: value}
}

func (s *TextScorer) modelScore(ctx context.Context, query, candidate string) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	value, err := s.model.Similarity(ctx, query, candidate)
	if err != nil {
		return 0, errors.Wrap(ErrModelUnavailable, err.Error())
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, errors.Wrapf(ErrModelUnavailable, "model returned %v", value)
	}
	return clamp01(value), nil
}

// LexicalRelevance is the share of query keywords found in the candidate text.
// An empty query is neutral.
func LexicalRelevance(query, candidate string) float64 {
	queryWords := Keywords(query)
	if len(queryWords) == 0 {
		return NeutralScore
	}
	return keywordCoverage(queryWords, Keywords(candidate))
}

// TitleRelevance is the share of job title keywords that appear in the talent's
// narrative or skills.
func TitleRelevance(title, experience string, skills []string) float64 {
	titleWords := Keywords(title)
	if len(titleWords) == 0 {
		return NeutralScore
	}
	return keywordCoverage(titleWords, Keywords(experience+" "+strings.Join(skills, " ")))
}

func keywordCoverage(query, candidate []string) float64 {
	matched := lo.CountBy(query, func(word string) bool {
		return lo.ContainsBy(candidate, func(other string) bool {
			return wordsMatch(word, other)
		})
	})
	return float64(matched) / float64(len(query))
}

func wordsMatch(a, b string) bool {
	if a == b {
		return true
	}
	ra, rb := []rune(a), []rune(b)
	if len(ra) < prefixMatchLen || len(rb) < prefixMatchLen {
		return false
	}
	for i := 0; i < prefixMatchLen; i++ {
		if ra[i] != rb[i] {
			return false
		}
	}
	return true
}
