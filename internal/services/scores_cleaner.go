package services

import (
	"context"
	"time"

	"github.com/lukeperry/ssu-career-connect/internal/logger"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

type ScoreCleanupRepository interface {
	RemoveCalculatedBefore(ctx context.Context, expirationTime time.Time) (int64, error)
}

// ScoresCleaner periodically drops scores that were not recalculated for a while.
type ScoresCleaner struct {
	scores        ScoreCleanupRepository
	cron          *cron.Cron
	retentionDays int
}

func NewScoresCleaner(scores ScoreCleanupRepository, retentionDays int, schedule string) (*ScoresCleaner, error) {

	if retentionDays <= 0 {
		return nil, errors.New("retention in days must be greater than zero")
	}

	sc := &ScoresCleaner{
		scores:        scores,
		cron:          cron.New(),
		retentionDays: retentionDays,
	}

	_, err := sc.cron.AddFunc(schedule, sc.cleanOldScores)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid cleanup schedule %q", schedule)
	}

	sc.cron.Start()
	log.Infof("scores cleaner started, retention in days: %d, schedule: %s", sc.retentionDays, schedule)
	return sc, nil
}

func (sc *ScoresCleaner) Stop() {
	<-sc.cron.Stop().Done()
}

func (sc *ScoresCleaner) cleanOldScores() {
	expirationTime := time.Now().UTC().Add(-time.Duration(sc.retentionDays) * 24 * time.Hour)
	rowsAffected, err := sc.scores.RemoveCalculatedBefore(context.Background(), expirationTime)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("Failed to clean old scores: %v", err)
	} else {
		log.Infof("Old scores were cleaned at %v, affected rows: %v", time.Now(), rowsAffected)
	}
}
