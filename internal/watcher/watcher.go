// Package watcher ingests resumes dropped into inbox directories.
// Each inbox is bound to one job; files appearing in it are handed to
// the ingest callback after a write debounce, the same path resumes
// take when uploaded over HTTP.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/hireloop/shortlist/internal/extract"
)

const defaultDebounce = 500 * time.Millisecond

// Inbox is one watched directory bound to a job.
type Inbox struct {
	Dir   string
	JobID string
}

// IngestFunc receives a settled resume file and its target job.
type IngestFunc func(jobID, path string)

// Service watches inbox directories. Inboxes are flat: subdirectories
// are ignored, and only allow-listed resume extensions are ingested.
type Service struct {
	jobByDir map[string]string
	ingest   IngestFunc
	debounce time.Duration
	logger   *zap.Logger

	fsw      *fsnotify.Watcher
	mu       sync.Mutex
	timers   map[string]*time.Timer
	done     chan struct{}
	started  bool
	stopOnce sync.Once
}

// NewService builds a service over the given inboxes. A non-positive
// debounce falls back to the default.
func NewService(inboxes []Inbox, debounce time.Duration, ingest IngestFunc, logger *zap.Logger) *Service {
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	jobByDir := make(map[string]string, len(inboxes))
	for _, inbox := range inboxes {
		jobByDir[filepath.Clean(inbox.Dir)] = inbox.JobID
	}
	return &Service{
		jobByDir: jobByDir,
		ingest:   ingest,
		debounce: debounce,
		logger:   logger,
		timers:   make(map[string]*time.Timer),
		done:     make(chan struct{}),
	}
}

// Start creates missing inbox directories, begins watching them, and
// runs until ctx is cancelled or Stop is called.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("create watcher: %w", err)
	}
	for dir := range s.jobByDir {
		if err := os.MkdirAll(dir, 0755); err != nil {
			_ = fsw.Close()
			s.mu.Unlock()
			return fmt.Errorf("create inbox %s: %w", dir, err)
		}
		if err := fsw.Add(dir); err != nil {
			_ = fsw.Close()
			s.mu.Unlock()
			return fmt.Errorf("watch inbox %s: %w", dir, err)
		}
	}
	s.fsw = fsw
	s.started = true
	s.mu.Unlock()

	s.logger.Info("inbox watcher started", zap.Int("inboxes", len(s.jobByDir)))
	go s.run(ctx)
	return nil
}

func (s *Service) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			s.Stop()
			return
		case <-s.done:
			return
		case ev, ok := <-s.fsw.Events:
			if !ok {
				return
			}
			s.handleEvent(ev)
		case err, ok := <-s.fsw.Errors:
			if !ok {
				return
			}
			if err != nil {
				s.logger.Warn("inbox watch error", zap.Error(err))
			}
		}
	}
}

func (s *Service) handleEvent(ev fsnotify.Event) {
	if !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Write) {
		return
	}
	jobID, ok := s.jobFor(ev.Name)
	if !ok {
		return
	}
	if info, err := os.Stat(ev.Name); err != nil || info.IsDir() {
		return
	}
	if !extract.Supported(ev.Name) {
		s.logger.Debug("ignoring non-resume file", zap.String("path", ev.Name))
		return
	}
	s.scheduleIngest(jobID, ev.Name)
}

// scheduleIngest (re)arms the per-file debounce timer. Editors and
// copies emit bursts of writes; we ingest once the file settles.
func (s *Service) scheduleIngest(jobID, path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.timers[path]; ok {
		t.Stop()
	}
	s.timers[path] = time.AfterFunc(s.debounce, func() {
		s.mu.Lock()
		delete(s.timers, path)
		s.mu.Unlock()

		s.logger.Info("ingesting dropped resume",
			zap.String("path", path),
			zap.String("job_id", jobID))
		s.ingest(jobID, path)
	})
}

func (s *Service) jobFor(path string) (string, bool) {
	jobID, ok := s.jobByDir[filepath.Clean(filepath.Dir(path))]
	return jobID, ok
}

// SyncExisting ingests resume files already sitting in the inboxes,
// covering drops that happened while the service was down.
func (s *Service) SyncExisting() {
	for dir, jobID := range s.jobByDir {
		entries, err := os.ReadDir(dir)
		if err != nil {
			s.logger.Warn("inbox not readable", zap.String("dir", dir), zap.Error(err))
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			path := filepath.Join(dir, entry.Name())
			if !extract.Supported(path) {
				continue
			}
			s.logger.Info("ingesting existing resume",
				zap.String("path", path),
				zap.String("job_id", jobID))
			s.ingest(jobID, path)
		}
	}
}

// Inboxes returns the watched directories and their jobs.
func (s *Service) Inboxes() []Inbox {
	out := make([]Inbox, 0, len(s.jobByDir))
	for dir, jobID := range s.jobByDir {
		out = append(out, Inbox{Dir: dir, JobID: jobID})
	}
	return out
}

// Stop halts watching and cancels pending debounce timers.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started || s.fsw == nil {
		s.mu.Unlock()
		return
	}
	for path, t := range s.timers {
		t.Stop()
		delete(s.timers, path)
	}
	_ = s.fsw.Close()
	s.fsw = nil
	s.started = false
	s.mu.Unlock()
	s.stopOnce.Do(func() { close(s.done) })
}
