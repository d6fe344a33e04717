package services

import (
	"context"
	"time"

	"github.com/lukeperry/ssu-career-connect/internal/entities"
	"github.com/lukeperry/ssu-career-connect/internal/metrics"
	"github.com/lukeperry/ssu-career-connect/internal/scoring"
)

type matchScoreStore interface {
	Get(ctx context.Context, jobID, talentID string) (*entities.MatchScore, error)
	Upsert(ctx context.Context, score entities.MatchScore) error
	TopForTalent(ctx context.Context, talentID string, limit int) ([]entities.MatchScore, error)
}

// ScoreCache serves a stored score only while both skill sets still hash to what
// the score was computed from.
type ScoreCache struct {
	store matchScoreStore
	now   func() time.Time
}

func NewScoreCache(store matchScoreStore) *ScoreCache {
	return &ScoreCache{store: store, now: time.Now}
}

// Get returns false when the pair was never scored or either skill set changed.
func (c *ScoreCache) Get(ctx context.Context, jobID, talentID string, jobSkills, talentSkills []string) (float64, bool, error) {
	return c.GetByHash(ctx, jobID, talentID, scoring.SkillsHash(jobSkills), scoring.SkillsHash(talentSkills))
}

func (c *ScoreCache) GetByHash(ctx context.Context, jobID, talentID, jobHash, talentHash string) (float64, bool, error) {
	stored, err := c.store.Get(ctx, jobID, talentID)
	if err != nil {
		return 0, false, err
	}
	if stored == nil {
		metrics.CacheLookupsCounter.WithLabelValues("miss").Inc()
		return 0, false, nil
	}
	if !stored.IsFresh(jobHash, talentHash) {
		metrics.CacheLookupsCounter.WithLabelValues("stale").Inc()
		return 0, false, nil
	}
	metrics.CacheLookupsCounter.WithLabelValues("hit").Inc()
	return stored.Score, true, nil
}

// Put stores the score for the pair, replacing whatever was there.
func (c *ScoreCache) Put(ctx context.Context, jobID, talentID string, score float64, jobHash, talentHash string) error {
	return c.store.Upsert(ctx, entities.MatchScore{
		JobID:            jobID,
		TalentID:         talentID,
		Score:            score,
		JobSkillsHash:    jobHash,
		TalentSkillsHash: talentHash,
		CalculatedAt:     c.now().UTC(),
	})
}

// Top lists stored scores of a talent, best first, whatever their freshness.
func (c *ScoreCache) Top(ctx context.Context, talentID string, limit int) ([]entities.MatchScore, error) {
	return c.store.TopForTalent(ctx, talentID, limit)
}
