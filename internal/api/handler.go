package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lukeperry/ssu-career-connect/internal/logger"
	"github.com/lukeperry/ssu-career-connect/internal/scoring"
	"github.com/lukeperry/ssu-career-connect/internal/services"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

type matchService interface {
	Score(ctx context.Context, job scoring.JobDescriptor, talent scoring.TalentDescriptor) (scoring.Result, error)
	GetOrCalculate(ctx context.Context, jobID, talentID string,
		job scoring.JobDescriptor, talent scoring.TalentDescriptor) (services.CachedScore, error)
	BestMatchesForTalent(ctx context.Context, talentID string, talent scoring.TalentDescriptor,
		jobs []services.JobCandidate, limit int) ([]services.RankedMatch, error)
	StoredMatches(ctx context.Context, talentID string, limit int) ([]services.RankedMatch, error)
}

// ModelHealth reports on the service behind the text model.
type ModelHealth interface {
	Health(ctx context.Context) (model string, checked bool, err error)
}

const modelHealthTimeout = 3 * time.Second

type MatchHandler struct {
	matches     matchService
	textModel   string
	modelHealth ModelHealth
}

// NewMatchHandler serves the scoring endpoints. textModel is the provider name
// reported by the health check.
func NewMatchHandler(matches matchService, textModel string) *MatchHandler {
	return &MatchHandler{matches: matches, textModel: textModel}
}

// WithModelHealth makes the health check ask the text model service as well.
func (h *MatchHandler) WithModelHealth(health ModelHealth) *MatchHandler {
	h.modelHealth = health
	return h
}

func (h *MatchHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/match", h.Match)
	r.POST("/scores", h.GetOrCalculateScore)
	r.POST("/talents/:talentId/best-matches", h.BestMatches)
	r.GET("/talents/:talentId/scores", h.StoredMatches)
}

// Match scores a job/talent pair without touching the score cache.
func (h *MatchHandler) Match(c *gin.Context) {
	var req MatchRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.matches.Score(c.Request.Context(), req.Job.descriptor(), req.Talent.descriptor())
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, newMatchResponse(result))
}

func (h *MatchHandler) GetOrCalculateScore(c *gin.Context) {
	var req ScoreRequest
	if !bindJSON(c, &req) {
		return
	}

	score, err := h.matches.GetOrCalculate(c.Request.Context(), req.JobID, req.TalentID,
		req.Job.descriptor(), req.Talent.descriptor())
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, ScoreResponse{
		JobID:    score.JobID,
		TalentID: score.TalentID,
		Score:    score.Score,
		Band:     score.Band.String(),
		Cached:   score.Cached,
	})
}

func (h *MatchHandler) BestMatches(c *gin.Context) {
	talentID := c.Param("talentId")

	var req BestMatchesRequest
	if !bindJSON(c, &req) {
		return
	}

	jobs := lo.Map(req.Jobs, func(job JobCandidateRequest, _ int) services.JobCandidate {
		return services.JobCandidate{ID: job.ID, Job: job.Job.descriptor()}
	})

	matches, err := h.matches.BestMatchesForTalent(c.Request.Context(), talentID, req.Talent.descriptor(), jobs, req.Limit)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, newBestMatchesResponse(talentID, matches))
}

// StoredMatches lists cached scores of a talent without recomputing them.
func (h *MatchHandler) StoredMatches(c *gin.Context) {
	talentID := c.Param("talentId")

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 0 {
		handleError(c, invalidInput("limit", "invalid input: limit must be a non-negative integer"))
		return
	}

	matches, err := h.matches.StoredMatches(c.Request.Context(), talentID, limit)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, newBestMatchesResponse(talentID, matches))
}

func newBestMatchesResponse(talentID string, matches []services.RankedMatch) BestMatchesResponse {
	return BestMatchesResponse{
		TalentID: talentID,
		Matches: lo.Map(matches, func(match services.RankedMatch, _ int) RankedMatchResponse {
			response := RankedMatchResponse{JobID: match.JobID, Score: match.Score, Band: match.Band.String()}
			if match.Err != nil {
				response.Error = match.Err.Error()
			}
			return response
		}),
	}
}

// Health stays 200 when the text model is down: scoring falls back to lexical
// relevance, so the service is degraded rather than unavailable.
func (h *MatchHandler) Health(c *gin.Context) {
	response := HealthResponse{Status: "ok", TextModel: h.textModel}
	if h.modelHealth != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), modelHealthTimeout)
		defer cancel()

		model, checked, err := h.modelHealth.Health(ctx)
		switch {
		case err != nil:
			response.Status = "degraded"
			response.TextModelError = err.Error()
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeTextModel).
				Warnf("text model health check failed: %v", err)
		case checked:
			response.Model = model
		}
	}
	c.JSON(http.StatusOK, response)
}
