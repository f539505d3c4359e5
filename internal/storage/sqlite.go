package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hireloop/shortlist/internal/models"
)

// SQLiteStorage implements Storage on a local SQLite database.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens or creates the database at dbPath and applies
// the schema. Parent directories are created as needed.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS jobs (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		required_experience_years INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_jobs_created_at ON jobs(created_at);

	CREATE TABLE IF NOT EXISTS resumes (
		id TEXT PRIMARY KEY,
		job_id TEXT NOT NULL,
		filename TEXT NOT NULL,
		stored_path TEXT NOT NULL DEFAULT '',
		extracted_text TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'pending',
		semantic_score REAL NOT NULL DEFAULT 0,
		skill_score REAL NOT NULL DEFAULT 0,
		experience_score REAL NOT NULL DEFAULT 0,
		final_score REAL NOT NULL DEFAULT 0,
		score_error TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (job_id) REFERENCES jobs(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_resumes_job_id ON resumes(job_id);
	CREATE INDEX IF NOT EXISTS idx_resumes_status ON resumes(status);
	CREATE INDEX IF NOT EXISTS idx_resumes_job_score ON resumes(job_id, final_score DESC);
	`
	_, err := db.Exec(schema)
	return err
}

// CreateJob inserts a job and stamps its timestamps.
func (s *SQLiteStorage) CreateJob(ctx context.Context, job *models.Job) error {
	now := time.Now()
	job.CreatedAt = now
	job.UpdatedAt = now

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO jobs (id, title, description, required_experience_years, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		job.ID, job.Title, job.Description, job.RequiredYears, job.CreatedAt, job.UpdatedAt,
	)
	return err
}

// GetJob returns a job by ID.
func (s *SQLiteStorage) GetJob(ctx context.Context, id string) (*models.Job, error) {
	var job models.Job
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, description, required_experience_years, created_at, updated_at
		 FROM jobs WHERE id = ?`, id,
	).Scan(&job.ID, &job.Title, &job.Description, &job.RequiredYears, &job.CreatedAt, &job.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("job %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// UpdateJob updates an existing job.
func (s *SQLiteStorage) UpdateJob(ctx context.Context, job *models.Job) error {
	job.UpdatedAt = time.Now()

	result, err := s.db.ExecContext(ctx,
		`UPDATE jobs SET title = ?, description = ?, required_experience_years = ?, updated_at = ?
		 WHERE id = ?`,
		job.Title, job.Description, job.RequiredYears, job.UpdatedAt, job.ID,
	)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("job %s: %w", job.ID, ErrNotFound)
	}
	return nil
}

// DeleteJob removes a job; its resumes cascade.
func (s *SQLiteStorage) DeleteJob(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM jobs WHERE id = ?`, id)
	return err
}

// ListJobs returns jobs newest first.
func (s *SQLiteStorage) ListJobs(ctx context.Context, offset, limit int) ([]*models.Job, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, description, required_experience_years, created_at, updated_at
		 FROM jobs ORDER BY created_at DESC LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []*models.Job
	for rows.Next() {
		var job models.Job
		if err := rows.Scan(&job.ID, &job.Title, &job.Description, &job.RequiredYears, &job.CreatedAt, &job.UpdatedAt); err != nil {
			return nil, err
		}
		jobs = append(jobs, &job)
	}
	return jobs, rows.Err()
}

const resumeColumns = `id, job_id, filename, stored_path, extracted_text, status,
	semantic_score, skill_score, experience_score, final_score, score_error,
	created_at, updated_at`

func scanResume(row interface{ Scan(...any) error }) (*models.Resume, error) {
	var r models.Resume
	err := row.Scan(&r.ID, &r.JobID, &r.Filename, &r.StoredPath, &r.ExtractedText, &r.Status,
		&r.SemanticScore, &r.SkillScore, &r.ExperienceScore, &r.FinalScore, &r.ScoreError,
		&r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// CreateResume inserts a resume in pending state unless a status is
// already set.
func (s *SQLiteStorage) CreateResume(ctx context.Context, resume *models.Resume) error {
	now := time.Now()
	resume.CreatedAt = now
	resume.UpdatedAt = now
	if resume.Status == "" {
		resume.Status = models.StatusPending
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO resumes (`+resumeColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		resume.ID, resume.JobID, resume.Filename, resume.StoredPath, resume.ExtractedText, resume.Status,
		resume.SemanticScore, resume.SkillScore, resume.ExperienceScore, resume.FinalScore, resume.ScoreError,
		resume.CreatedAt, resume.UpdatedAt,
	)
	return err
}

// GetResume returns a resume by ID.
func (s *SQLiteStorage) GetResume(ctx context.Context, id string) (*models.Resume, error) {
	resume, err := scanResume(s.db.QueryRowContext(ctx,
		`SELECT `+resumeColumns+` FROM resumes WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("resume %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return resume, nil
}

// DeleteResume removes a resume by ID.
func (s *SQLiteStorage) DeleteResume(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM resumes WHERE id = ?`, id)
	return err
}

// ListResumesByJob returns the shortlist ordering: completed resumes
// by descending final score, then everything still in flight by
// upload time.
func (s *SQLiteStorage) ListResumesByJob(ctx context.Context, jobID string) ([]*models.Resume, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+resumeColumns+` FROM resumes WHERE job_id = ?
		 ORDER BY CASE WHEN status = 'completed' THEN 0 ELSE 1 END,
		          final_score DESC, created_at ASC`,
		jobID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectResumes(rows)
}

// ListResumesByStatus returns resumes in the given state, oldest
// first, so the worker drains the backlog in upload order.
func (s *SQLiteStorage) ListResumesByStatus(ctx context.Context, status models.ProcessingStatus) ([]*models.Resume, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+resumeColumns+` FROM resumes WHERE status = ? ORDER BY created_at ASC`,
		status,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectResumes(rows)
}

func collectResumes(rows *sql.Rows) ([]*models.Resume, error) {
	var resumes []*models.Resume
	for rows.Next() {
		resume, err := scanResume(rows)
		if err != nil {
			return nil, err
		}
		resumes = append(resumes, resume)
	}
	return resumes, rows.Err()
}

// SetResumeStatus moves a resume through the processing lifecycle.
func (s *SQLiteStorage) SetResumeStatus(ctx context.Context, id string, status models.ProcessingStatus) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE resumes SET status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now(), id,
	)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("resume %s: %w", id, ErrNotFound)
	}
	return nil
}

// SaveScores persists the scoring outcome: component scores, status,
// extracted text, and any scoring error.
func (s *SQLiteStorage) SaveScores(ctx context.Context, resume *models.Resume) error {
	resume.UpdatedAt = time.Now()

	result, err := s.db.ExecContext(ctx,
		`UPDATE resumes SET extracted_text = ?, status = ?,
		 semantic_score = ?, skill_score = ?, experience_score = ?, final_score = ?,
		 score_error = ?, updated_at = ?
		 WHERE id = ?`,
		resume.ExtractedText, resume.Status,
		resume.SemanticScore, resume.SkillScore, resume.ExperienceScore, resume.FinalScore,
		resume.ScoreError, resume.UpdatedAt, resume.ID,
	)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return fmt.Errorf("resume %s: %w", resume.ID, ErrNotFound)
	}
	return nil
}

// CountJobs returns the total number of jobs.
func (s *SQLiteStorage) CountJobs(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM jobs`).Scan(&count)
	return count, err
}

// CountResumes returns the total number of resumes.
func (s *SQLiteStorage) CountResumes(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM resumes`).Scan(&count)
	return count, err
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
