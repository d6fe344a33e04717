package api

import "github.com/lukeperry/ssu-career-connect/internal/scoring"

type JobRequest struct {
	Title        string   `json:"title" binding:"required"`
	Description  string   `json:"description"`
	Requirements string   `json:"requirements"`
	Skills       []string `json:"skills" binding:"required"`
}

func (r JobRequest) descriptor() scoring.JobDescriptor {
	return scoring.JobDescriptor{
		Title:        r.Title,
		Description:  r.Description,
		Requirements: r.Requirements,
		Skills:       r.Skills,
	}
}

type TalentRequest struct {
	Experience string   `json:"experience" binding:"required"`
	Skills     []string `json:"skills" binding:"required"`
}

func (r TalentRequest) descriptor() scoring.TalentDescriptor {
	return scoring.TalentDescriptor{Experience: r.Experience, Skills: r.Skills}
}

type MatchRequest struct {
	Job    JobRequest    `json:"job"`
	Talent TalentRequest `json:"talent"`
}

type MatchDetails struct {
	Breakdown scoring.Breakdown `json:"breakdown"`
	Rule      string            `json:"rule"`
}

type MatchResponse struct {
	Score      float64      `json:"score"`
	Percentage float64      `json:"percentage"`
	Band       string       `json:"band"`
	Degraded   bool         `json:"degraded"`
	Details    MatchDetails `json:"details"`
}

func newMatchResponse(result scoring.Result) MatchResponse {
	return MatchResponse{
		Score:      result.Score,
		Percentage: result.Percentage,
		Band:       result.Band.String(),
		Degraded:   result.Degraded(),
		Details: MatchDetails{
			Breakdown: result.Breakdown,
			Rule:      result.Adjustment.Rule,
		},
	}
}

type ScoreRequest struct {
	JobID    string        `json:"job_id" binding:"required"`
	TalentID string        `json:"talent_id" binding:"required"`
	Job      JobRequest    `json:"job"`
	Talent   TalentRequest `json:"talent"`
}

type ScoreResponse struct {
	JobID    string  `json:"job_id"`
	TalentID string  `json:"talent_id"`
	Score    float64 `json:"score"`
	Band     string  `json:"band"`
	Cached   bool    `json:"cached"`
}

type JobCandidateRequest struct {
	ID  string     `json:"id" binding:"required"`
	Job JobRequest `json:"job"`
}

type BestMatchesRequest struct {
	Talent TalentRequest         `json:"talent"`
	Jobs   []JobCandidateRequest `json:"jobs" binding:"required"`
	Limit  int                   `json:"limit" binding:"min=0"`
}

type RankedMatchResponse struct {
	JobID string  `json:"job_id"`
	Score float64 `json:"score"`
	Band  string  `json:"band"`
	Error string  `json:"error,omitempty"`
}

type BestMatchesResponse struct {
	TalentID string                `json:"talent_id"`
	Matches  []RankedMatchResponse `json:"matches"`
}

type HealthResponse struct {
	Status         string `json:"status"`
	TextModel      string `json:"text_model"`
	Model          string `json:"model,omitempty"`
	TextModelError string `json:"text_model_error,omitempty"`
}
