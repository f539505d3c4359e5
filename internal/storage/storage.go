// Package storage defines persistence for jobs and scored resumes.
package storage

import (
	"context"
	"errors"

	"github.com/hireloop/shortlist/internal/models"
)

// ErrNotFound is returned when the requested row does not exist.
var ErrNotFound = errors.New("not found")

// Storage persists jobs and resumes.
type Storage interface {
	// Job operations
	CreateJob(ctx context.Context, job *models.Job) error
	GetJob(ctx context.Context, id string) (*models.Job, error)
	UpdateJob(ctx context.Context, job *models.Job) error
	DeleteJob(ctx context.Context, id string) error
	ListJobs(ctx context.Context, offset, limit int) ([]*models.Job, error)

	// Resume operations
	CreateResume(ctx context.Context, resume *models.Resume) error
	GetResume(ctx context.Context, id string) (*models.Resume, error)
	DeleteResume(ctx context.Context, id string) error
	// ListResumesByJob returns a job's resumes ranked by final score,
	// completed first, unscored resumes last by upload time.
	ListResumesByJob(ctx context.Context, jobID string) ([]*models.Resume, error)
	ListResumesByStatus(ctx context.Context, status models.ProcessingStatus) ([]*models.Resume, error)

	// Scoring lifecycle
	SetResumeStatus(ctx context.Context, id string, status models.ProcessingStatus) error
	SaveScores(ctx context.Context, resume *models.Resume) error

	// Stats
	CountJobs(ctx context.Context) (int64, error)
	CountResumes(ctx context.Context) (int64, error)

	Close() error
}
