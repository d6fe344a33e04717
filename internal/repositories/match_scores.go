package repositories

import (
	"context"
	"time"

	"github.com/lukeperry/ssu-career-connect/internal/entities"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MatchScores struct {
	db *gorm.DB
}

func NewMatchScoresRepository(db *gorm.DB) *MatchScores {
	return &MatchScores{db: db}
}

// Get returns nil without an error when the pair has never been scored.
func (repo *MatchScores) Get(ctx context.Context, jobID, talentID string) (*entities.MatchScore, error) {
	var score entities.MatchScore
	err := repo.db.WithContext(ctx).
		Where("job_id = ? AND talent_id = ?", jobID, talentID).
		First(&score).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &score, nil
}

// Upsert inserts the row or, when the pair exists, overwrites score, hashes and
// calculation time in place. Concurrent writers end up with one row.
func (repo *MatchScores) Upsert(ctx context.Context, score entities.MatchScore) error {
	score.ID = 0
	if score.CalculatedAt.IsZero() {
		score.CalculatedAt = time.Now()
	}
	score.CalculatedAt = score.CalculatedAt.UTC()

	return repo.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "job_id"}, {Name: "talent_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"score", "job_skills_hash", "talent_skills_hash", "calculated_at"}),
	}).Create(&score).Error
}

// TopForTalent lists stored scores for a talent, best first, ties by job id.
func (repo *MatchScores) TopForTalent(ctx context.Context, talentID string, limit int) ([]entities.MatchScore, error) {
	var scores []entities.MatchScore
	query := repo.db.WithContext(ctx).
		Where("talent_id = ?", talentID).
		Order("score DESC").Order("job_id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&scores).Error; err != nil {
		return nil, err
	}
	return scores, nil
}

func (repo *MatchScores) RemoveCalculatedBefore(ctx context.Context, expirationTime time.Time) (int64, error) {
	res := repo.db.WithContext(ctx).Delete(&entities.MatchScore{}, "calculated_at < ?", expirationTime.UTC())
	return res.RowsAffected, res.Error
}
