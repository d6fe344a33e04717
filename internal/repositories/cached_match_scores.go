package repositories

import (
	"context"
	"time"

	"github.com/lukeperry/ssu-career-connect/internal/entities"
	gocache "github.com/patrickmn/go-cache"
)

type matchScoreRepository interface {
	Get(ctx context.Context, jobID, talentID string) (*entities.MatchScore, error)
	Upsert(ctx context.Context, score entities.MatchScore) error
	TopForTalent(ctx context.Context, talentID string, limit int) ([]entities.MatchScore, error)
}

// CachedMatchScores keeps recently read or written rows in memory. Writes always go
// to the repository first so the table stays the source of truth.
type CachedMatchScores struct {
	repo  matchScoreRepository
	cache *gocache.Cache
}

func NewCachedMatchScores(repo matchScoreRepository, ttl time.Duration) *CachedMatchScores {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &CachedMatchScores{repo: repo, cache: gocache.New(ttl, 2*ttl)}
}

func (c *CachedMatchScores) Get(ctx context.Context, jobID, talentID string) (*entities.MatchScore, error) {
	key := pairKey(jobID, talentID)
	if value, found := c.cache.Get(key); found {
		score := value.(entities.MatchScore)
		return &score, nil
	}

	score, err := c.repo.Get(ctx, jobID, talentID)
	if score != nil {
		c.cache.Set(key, *score, gocache.DefaultExpiration)
	}

	return score, err
}

func (c *CachedMatchScores) Upsert(ctx context.Context, score entities.MatchScore) error {
	if score.CalculatedAt.IsZero() {
		score.CalculatedAt = time.Now().UTC()
	}
	if err := c.repo.Upsert(ctx, score); err != nil {
		c.cache.Delete(pairKey(score.JobID, score.TalentID))
		return err
	}
	c.cache.Set(pairKey(score.JobID, score.TalentID), score, gocache.DefaultExpiration)
	return nil
}

func (c *CachedMatchScores) TopForTalent(ctx context.Context, talentID string, limit int) ([]entities.MatchScore, error) {
	return c.repo.TopForTalent(ctx, talentID, limit)
}

func pairKey(jobID, talentID string) string {
	return jobID + "\x1f" + talentID
}
