package entities

import "time"

// MatchScore is a cached score for one job/talent pair. The pair is unique; the
// hashes record which skill sets the score was computed from.
type MatchScore struct {
	ID               uint      `gorm:"primaryKey"`
	JobID            string    `gorm:"not null;uniqueIndex:idx_match_scores_job_talent,priority:1"`
	TalentID         string    `gorm:"not null;uniqueIndex:idx_match_scores_job_talent,priority:2"`
	Score            float64   `gorm:"not null"`
	JobSkillsHash    string    `gorm:"not null;size:64"`
	TalentSkillsHash string    `gorm:"not null;size:64"`
	CalculatedAt     time.Time `gorm:"not null;index:idx_match_scores_calculated_at"`
}

// IsFresh reports whether the row was computed from the given skill hashes.
func (m MatchScore) IsFresh(jobSkillsHash, talentSkillsHash string) bool {
	return m.JobSkillsHash == jobSkillsHash && m.TalentSkillsHash == talentSkillsHash
}
