// Package models defines core data structures for jobs, resumes, and scores.
package models

import "time"

// Job is a job posting that resumes are scored against.
type Job struct {
	ID            string    `json:"id" db:"id"`
	Title         string    `json:"title" db:"title"`
	Description   string    `json:"description" db:"description"`
	RequiredYears int       `json:"required_experience_years" db:"required_experience_years"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// JobInput is the input for creating a job.
type JobInput struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	RequiredYears int    `json:"required_experience_years,omitempty"`
}
