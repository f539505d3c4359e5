package models

import "time"

// ProcessingStatus tracks a resume through the scoring pipeline.
type ProcessingStatus string

const (
	// StatusPending means the resume is queued but not yet scored.
	StatusPending ProcessingStatus = "pending"
	// StatusProcessing means a worker is currently scoring the resume.
	StatusProcessing ProcessingStatus = "processing"
	// StatusCompleted means scoring finished and scores are persisted.
	// A completed resume may still carry a scoring error (usage errors are final).
	StatusCompleted ProcessingStatus = "completed"
	// StatusFailed means scoring failed after all retries.
	StatusFailed ProcessingStatus = "failed"
)

// Resume is an uploaded candidate resume bound to a job.
// Score columns are populated once processing completes.
type Resume struct {
	ID              string           `json:"id" db:"id"`
	JobID           string           `json:"job_id" db:"job_id"`
	Filename        string           `json:"filename" db:"filename"`
	StoredPath      string           `json:"-" db:"stored_path"`
	ExtractedText   string           `json:"-" db:"extracted_text"`
	Status          ProcessingStatus `json:"status" db:"status"`
	SemanticScore   float64          `json:"semantic_score" db:"semantic_score"`
	SkillScore      float64          `json:"skill_score" db:"skill_score"`
	ExperienceScore float64          `json:"experience_score" db:"experience_score"`
	FinalScore      float64          `json:"final_score" db:"final_score"`
	ScoreError      string           `json:"score_error,omitempty" db:"score_error"`
	CreatedAt       time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at" db:"updated_at"`
}
