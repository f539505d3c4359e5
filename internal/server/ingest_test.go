package server

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hireloop/shortlist/internal/extract"
	"github.com/hireloop/shortlist/internal/models"
	"github.com/hireloop/shortlist/internal/storage"
)

func TestIngestFile(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewSQLiteStorage(filepath.Join(dir, "shortlist.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStorage: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	job := &models.Job{ID: "job-1", Title: "Backend Engineer", Description: "Go and SQL"}
	if err := store.CreateJob(ctx, job); err != nil {
		t.Fatalf("CreateJob: %v", err)
	}

	src := filepath.Join(dir, "inbox", "jane doe.txt")
	if err := os.MkdirAll(filepath.Dir(src), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(src, []byte("5 years of Go experience"), 0644); err != nil {
		t.Fatal(err)
	}

	uploadDir := filepath.Join(dir, "uploads")
	resume, err := IngestFile(ctx, store, uploadDir, job.ID, src)
	if err != nil {
		t.Fatalf("IngestFile: %v", err)
	}
	if resume.Filename != "jane doe.txt" {
		t.Errorf("Filename = %q, want %q", resume.Filename, "jane doe.txt")
	}
	if resume.Status != models.StatusPending {
		t.Errorf("Status = %q, want %q", resume.Status, models.StatusPending)
	}

	content, err := os.ReadFile(resume.StoredPath)
	if err != nil {
		t.Fatalf("stored copy not readable: %v", err)
	}
	if string(content) != "5 years of Go experience" {
		t.Errorf("stored content = %q", content)
	}

	stored, err := store.GetResume(ctx, resume.ID)
	if err != nil {
		t.Fatalf("GetResume: %v", err)
	}
	if stored.JobID != job.ID {
		t.Errorf("JobID = %q, want %q", stored.JobID, job.ID)
	}
}

func TestIngestFile_UnsupportedFormat(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewSQLiteStorage(filepath.Join(dir, "shortlist.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStorage: %v", err)
	}
	defer store.Close()

	src := filepath.Join(dir, "report.xlsx")
	if err := os.WriteFile(src, []byte("not a resume"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err = IngestFile(context.Background(), store, filepath.Join(dir, "uploads"), "job-1", src)
	var unsupported *extract.ErrUnsupportedFormat
	if !errors.As(err, &unsupported) {
		t.Fatalf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestIngestFile_MissingSource(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewSQLiteStorage(filepath.Join(dir, "shortlist.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStorage: %v", err)
	}
	defer store.Close()

	_, err = IngestFile(context.Background(), store, filepath.Join(dir, "uploads"), "job-1", filepath.Join(dir, "gone.txt"))
	if err == nil {
		t.Fatal("expected error for missing source file")
	}
}
