package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

type recorder struct {
	mu    sync.Mutex
	files map[string]string // path -> job id
}

func newRecorder() *recorder {
	return &recorder{files: make(map[string]string)}
}

func (r *recorder) ingest(jobID, path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.files[path] = jobID
}

func (r *recorder) get(path string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	jobID, ok := r.files[path]
	return jobID, ok
}

func (r *recorder) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.files)
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return cond()
}

func TestService_IngestsDroppedResume(t *testing.T) {
	dir := t.TempDir()
	rec := newRecorder()
	svc := NewService([]Inbox{{Dir: dir, JobID: "job-1"}}, 20*time.Millisecond, rec.ingest, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := svc.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer svc.Stop()

	path := filepath.Join(dir, "candidate.txt")
	if err := os.WriteFile(path, []byte("resume body"), 0644); err != nil {
		t.Fatal(err)
	}

	if !waitFor(t, 3*time.Second, func() bool { _, ok := rec.get(path); return ok }) {
		t.Fatal("dropped resume was not ingested")
	}
	if jobID, _ := rec.get(path); jobID != "job-1" {
		t.Errorf("job id = %q", jobID)
	}
}

func TestService_IgnoresNonResumeFiles(t *testing.T) {
	dir := t.TempDir()
	rec := newRecorder()
	svc := NewService([]Inbox{{Dir: dir, JobID: "job-1"}}, 20*time.Millisecond, rec.ingest, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := svc.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer svc.Stop()

	if err := os.WriteFile(filepath.Join(dir, "notes.exe"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	good := filepath.Join(dir, "ok.txt")
	if err := os.WriteFile(good, []byte("resume"), 0644); err != nil {
		t.Fatal(err)
	}

	if !waitFor(t, 3*time.Second, func() bool { _, ok := rec.get(good); return ok }) {
		t.Fatal("allow-listed file not ingested")
	}
	if rec.len() != 1 {
		t.Errorf("ingested %d files, want only the .txt", rec.len())
	}
}

func TestService_CreatesMissingInbox(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "inbox")
	rec := newRecorder()
	svc := NewService([]Inbox{{Dir: dir, JobID: "job-1"}}, 20*time.Millisecond, rec.ingest, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := svc.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer svc.Stop()

	if _, err := os.Stat(dir); err != nil {
		t.Errorf("inbox not created: %v", err)
	}
}

func TestService_SyncExisting(t *testing.T) {
	dir := t.TempDir()
	pre := filepath.Join(dir, "already-there.pdf")
	if err := os.WriteFile(pre, []byte("pdfish"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "skip.bin"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	rec := newRecorder()
	svc := NewService([]Inbox{{Dir: dir, JobID: "job-9"}}, 20*time.Millisecond, rec.ingest, nil)
	svc.SyncExisting()

	if jobID, ok := rec.get(pre); !ok || jobID != "job-9" {
		t.Errorf("existing resume not synced: %v, %v", jobID, ok)
	}
	if rec.len() != 1 {
		t.Errorf("synced %d files, want 1", rec.len())
	}
}

func TestService_Inboxes(t *testing.T) {
	dir := t.TempDir()
	svc := NewService([]Inbox{{Dir: dir, JobID: "j"}}, 0, func(string, string) {}, nil)
	inboxes := svc.Inboxes()
	if len(inboxes) != 1 || inboxes[0].JobID != "j" {
		t.Errorf("inboxes = %v", inboxes)
	}
	if svc.debounce != defaultDebounce {
		t.Errorf("debounce = %v, want default", svc.debounce)
	}
}
