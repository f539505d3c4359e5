// Package worker runs resume scoring in the background. Uploads are
// acknowledged immediately and scored by a small pool, with capped
// retries for transient failures.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hireloop/shortlist/internal/extract"
	"github.com/hireloop/shortlist/internal/models"
	"github.com/hireloop/shortlist/internal/relevance"
	"github.com/hireloop/shortlist/internal/storage"
)

// ErrQueueFull is returned when the scoring queue cannot accept more work.
var ErrQueueFull = errors.New("scoring queue is full")

// Options tunes the pool.
type Options struct {
	Concurrency int
	QueueSize   int
	MaxRetries  int
	RetryDelay  time.Duration
}

// Pool scores queued resumes against their jobs.
type Pool struct {
	store     storage.Storage
	engine    *relevance.Engine
	extractor *extract.Extractor
	logger    *zap.Logger
	opts      Options

	queue chan string
	wg    sync.WaitGroup

	startOnce sync.Once
	stopOnce  sync.Once
}

// NewPool builds a pool; call Start before Enqueue.
func NewPool(store storage.Storage, engine *relevance.Engine, extractor *extract.Extractor, opts Options, logger *zap.Logger) *Pool {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 2
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 100
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	return &Pool{
		store:     store,
		engine:    engine,
		extractor: extractor,
		logger:    logger,
		opts:      opts,
		queue:     make(chan string, opts.QueueSize),
	}
}

// Start launches the workers and requeues any resumes left pending or
// mid-processing by a previous run.
func (p *Pool) Start(ctx context.Context) {
	p.startOnce.Do(func() {
		for i := 0; i < p.opts.Concurrency; i++ {
			p.wg.Add(1)
			go p.run(ctx)
		}
		p.recover(ctx)
	})
}

// Stop closes the queue and waits for in-flight scoring to finish.
func (p *Pool) Stop() {
	p.stopOnce.Do(func() {
		close(p.queue)
	})
	p.wg.Wait()
}

// Enqueue submits a resume for scoring without blocking.
func (p *Pool) Enqueue(resumeID string) error {
	select {
	case p.queue <- resumeID:
		return nil
	default:
		return ErrQueueFull
	}
}

// recover requeues work orphaned by a crash or restart.
func (p *Pool) recover(ctx context.Context) {
	for _, status := range []models.ProcessingStatus{models.StatusProcessing, models.StatusPending} {
		resumes, err := p.store.ListResumesByStatus(ctx, status)
		if err != nil {
			p.logger.Warn("backlog recovery failed", zap.String("status", string(status)), zap.Error(err))
			continue
		}
		for _, r := range resumes {
			if err := p.Enqueue(r.ID); err != nil {
				p.logger.Warn("backlog resume not requeued", zap.String("resume_id", r.ID), zap.Error(err))
			}
		}
	}
}

func (p *Pool) run(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case resumeID, ok := <-p.queue:
			if !ok {
				return
			}
			p.score(ctx, resumeID)
		}
	}
}

// score drives one resume through the pipeline. Usage errors (empty
// documents, unsupported formats) are final: the resume completes with
// an error message and zero scores. Anything else is retried with a
// delay, up to the cap, then marked failed.
func (p *Pool) score(ctx context.Context, resumeID string) {
	if err := p.store.SetResumeStatus(ctx, resumeID, models.StatusProcessing); err != nil {
		p.logger.Error("resume not marked processing", zap.String("resume_id", resumeID), zap.Error(err))
		return
	}

	var lastErr error
	for attempt := 0; attempt <= p.opts.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(p.opts.RetryDelay):
			}
			p.logger.Info("retrying resume",
				zap.String("resume_id", resumeID),
				zap.Int("attempt", attempt))
		}

		err := p.attempt(ctx, resumeID)
		if err == nil {
			return
		}
		if isFinal(err) {
			p.completeWithError(ctx, resumeID, err)
			return
		}
		lastErr = err
		p.logger.Warn("scoring attempt failed",
			zap.String("resume_id", resumeID),
			zap.Int("attempt", attempt),
			zap.Error(err))
	}

	p.fail(ctx, resumeID, lastErr)
}

// attempt runs a single scoring pass and persists the outcome.
func (p *Pool) attempt(ctx context.Context, resumeID string) error {
	resume, err := p.store.GetResume(ctx, resumeID)
	if err != nil {
		return fmt.Errorf("load resume: %w", err)
	}
	job, err := p.store.GetJob(ctx, resume.JobID)
	if err != nil {
		return fmt.Errorf("load job: %w", err)
	}

	if resume.ExtractedText == "" && resume.StoredPath != "" {
		text, err := p.extractor.Extract(resume.StoredPath)
		if err != nil {
			return fmt.Errorf("extract text: %w", err)
		}
		resume.ExtractedText = text
	}

	result, err := p.engine.Score(ctx, job.Description, float64(job.RequiredYears), resume.ExtractedText)
	if err != nil {
		return err
	}

	resume.Status = models.StatusCompleted
	resume.SemanticScore = result.SemanticScore
	resume.SkillScore = result.SkillScore
	resume.ExperienceScore = result.ExperienceScore
	resume.FinalScore = result.FinalScore
	resume.ScoreError = ""
	if err := p.store.SaveScores(ctx, resume); err != nil {
		return fmt.Errorf("persist scores: %w", err)
	}

	p.logger.Info("resume scored",
		zap.String("resume_id", resume.ID),
		zap.String("job_id", job.ID),
		zap.Float64("final_score", result.FinalScore))
	return nil
}

// completeWithError records a final zero-score outcome for unusable input.
func (p *Pool) completeWithError(ctx context.Context, resumeID string, cause error) {
	resume, err := p.store.GetResume(ctx, resumeID)
	if err != nil {
		p.logger.Error("resume vanished during completion", zap.String("resume_id", resumeID), zap.Error(err))
		return
	}
	resume.Status = models.StatusCompleted
	resume.SemanticScore = 0
	resume.SkillScore = 0
	resume.ExperienceScore = 0
	resume.FinalScore = 0
	resume.ScoreError = cause.Error()
	if err := p.store.SaveScores(ctx, resume); err != nil {
		p.logger.Error("completion not persisted", zap.String("resume_id", resumeID), zap.Error(err))
	}
}

func (p *Pool) fail(ctx context.Context, resumeID string, cause error) {
	resume, err := p.store.GetResume(ctx, resumeID)
	if err != nil {
		p.logger.Error("resume vanished during failure", zap.String("resume_id", resumeID), zap.Error(err))
		return
	}
	resume.Status = models.StatusFailed
	if cause != nil {
		resume.ScoreError = cause.Error()
	}
	if err := p.store.SaveScores(ctx, resume); err != nil {
		p.logger.Error("failure not persisted", zap.String("resume_id", resumeID), zap.Error(err))
	}
	p.logger.Error("resume failed after retries",
		zap.String("resume_id", resumeID),
		zap.Int("attempts", p.opts.MaxRetries+1),
		zap.Error(cause))
}

// isFinal reports whether err can never succeed on retry.
func isFinal(err error) bool {
	var unsupported *extract.ErrUnsupportedFormat
	return relevance.IsUsageError(err) || errors.As(err, &unsupported)
}
