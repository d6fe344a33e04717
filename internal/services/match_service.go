package services

import (
	"context"
	"sort"
	"strings"

	"github.com/lukeperry/ssu-career-connect/internal/logger"
	"github.com/lukeperry/ssu-career-connect/internal/scoring"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type pairScorer interface {
	Score(ctx context.Context, job scoring.JobDescriptor, talent scoring.TalentDescriptor) (scoring.Result, error)
}

// CachedScore is a score for an identified pair and where it came from.
type CachedScore struct {
	JobID    string
	TalentID string
	Score    float64
	Band     scoring.QualityBand
	Cached   bool
}

// JobCandidate is a job the talent could be matched against.
type JobCandidate struct {
	ID  string
	Job scoring.JobDescriptor
}

// RankedMatch is one line of a best matches listing. Err is set when the job could
// not be scored; such jobs rank with a zero score.
type RankedMatch struct {
	JobID string
	Score float64
	Band  scoring.QualityBand
	Err   error
}

type MatchService struct {
	scorer      pairScorer
	cache       *ScoreCache
	concurrency int
}

func NewMatchService(scorer pairScorer, cache *ScoreCache, concurrency int) *MatchService {
	if concurrency <= 0 {
		concurrency = 10
	}
	return &MatchService{scorer: scorer, cache: cache, concurrency: concurrency}
}

// Score runs the pipeline without touching the cache.
func (s *MatchService) Score(ctx context.Context, job scoring.JobDescriptor, talent scoring.TalentDescriptor) (scoring.Result, error) {
	return s.scorer.Score(ctx, job, talent)
}

// GetOrCalculate serves a hash-valid cached score or computes and stores a new one.
// A failing cache never fails the request.
func (s *MatchService) GetOrCalculate(ctx context.Context, jobID, talentID string,
	job scoring.JobDescriptor, talent scoring.TalentDescriptor) (CachedScore, error) {

	if err := validatePair(jobID, talentID, job, talent); err != nil {
		return CachedScore{}, err
	}

	jobHash, talentHash := scoring.SkillsHash(job.Skills), scoring.SkillsHash(talent.Skills)

	score, found, err := s.cache.GetByHash(ctx, jobID, talentID, jobHash, talentHash)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
			Errorf("failed to read cached score for job %v talent %v: %v", jobID, talentID, err)
	}
	if found {
		return CachedScore{JobID: jobID, TalentID: talentID, Score: score, Band: scoring.ClassifyScore(score), Cached: true}, nil
	}

	result, err := s.scorer.Score(ctx, job, talent)
	if err != nil {
		return CachedScore{}, err
	}
	if err = ctx.Err(); err != nil {
		return CachedScore{}, err
	}

	if err = s.cache.Put(ctx, jobID, talentID, result.Score, jobHash, talentHash); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
			Errorf("failed to store score for job %v talent %v: %v", jobID, talentID, err)
	}

	return CachedScore{JobID: jobID, TalentID: talentID, Score: result.Score, Band: result.Band}, nil
}

// BestMatchesForTalent scores every candidate job, using cached scores where they
// are still valid, and returns them best first. Equal scores are ordered by job id.
func (s *MatchService) BestMatchesForTalent(ctx context.Context, talentID string, talent scoring.TalentDescriptor,
	jobs []JobCandidate, limit int) ([]RankedMatch, error) {

	if strings.TrimSpace(talentID) == "" {
		return nil, scoring.NewInvalidInput("talent_id", "is required")
	}
	if err := scoring.ValidateTalent(talent); err != nil {
		return nil, err
	}

	matches := make([]RankedMatch, len(jobs))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.concurrency)

	for i, candidate := range jobs {
		group.Go(func() error {
			score, err := s.GetOrCalculate(groupCtx, candidate.ID, talentID, candidate.Job, talent)
			if err != nil {
				if groupCtx.Err() != nil {
					return groupCtx.Err()
				}
				log.Warnf("could not score job %v for talent %v: %v", candidate.ID, talentID, err)
				matches[i] = RankedMatch{JobID: candidate.ID, Band: scoring.Poor, Err: err}
				return nil
			}
			matches[i] = RankedMatch{JobID: candidate.ID, Score: score.Score, Band: score.Band}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, errors.Wrap(err, "best matches")
	}

	SortMatches(matches)
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// StoredMatches lists what the cache already holds for a talent, without scoring
// anything.
func (s *MatchService) StoredMatches(ctx context.Context, talentID string, limit int) ([]RankedMatch, error) {
	if strings.TrimSpace(talentID) == "" {
		return nil, scoring.NewInvalidInput("talent_id", "is required")
	}

	stored, err := s.cache.Top(ctx, talentID, limit)
	if err != nil {
		return nil, errors.Wrap(err, "stored matches")
	}

	matches := make([]RankedMatch, 0, len(stored))
	for _, score := range stored {
		matches = append(matches, RankedMatch{JobID: score.JobID, Score: score.Score, Band: scoring.ClassifyScore(score.Score)})
	}
	return matches, nil
}

// SortMatches orders by score descending, then job id ascending.
func SortMatches(matches []RankedMatch) {
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].JobID < matches[j].JobID
	})
}

func validatePair(jobID, talentID string, job scoring.JobDescriptor, talent scoring.TalentDescriptor) error {
	if strings.TrimSpace(jobID) == "" {
		return scoring.NewInvalidInput("job_id", "is required")
	}
	if strings.TrimSpace(talentID) == "" {
		return scoring.NewInvalidInput("talent_id", "is required")
	}
	if err := scoring.ValidateJob(job); err != nil {
		return err
	}
	return scoring.ValidateTalent(talent)
}
