package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/hireloop/shortlist/internal/extract"
	"github.com/hireloop/shortlist/internal/models"
	"github.com/hireloop/shortlist/internal/storage"
)

// IngestFile registers an on-disk resume file for a job: the file is
// copied under uploadDir keyed by the new resume ID and a pending
// resume row is created. Used by the inbox watcher; HTTP uploads go
// through the same storage layout.
func IngestFile(ctx context.Context, store storage.Storage, uploadDir, jobID, path string) (*models.Resume, error) {
	if !extract.Supported(path) {
		return nil, &extract.ErrUnsupportedFormat{Ext: filepath.Ext(path)}
	}

	src, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open resume file: %w", err)
	}
	defer src.Close()

	resumeID := uuid.NewString()
	storedPath, err := copyToUploads(src, uploadDir, resumeID, path)
	if err != nil {
		return nil, err
	}

	resume := &models.Resume{
		ID:         resumeID,
		JobID:      jobID,
		Filename:   filepath.Base(path),
		StoredPath: storedPath,
	}
	if err := store.CreateResume(ctx, resume); err != nil {
		_ = os.Remove(storedPath)
		return nil, fmt.Errorf("register resume: %w", err)
	}
	return resume, nil
}

// copyToUploads writes the resume content under uploadDir, named by
// resume ID to avoid collisions between same-named files.
func copyToUploads(src io.Reader, uploadDir, resumeID, filename string) (string, error) {
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	path := filepath.Join(uploadDir, resumeID+strings.ToLower(filepath.Ext(filename)))
	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("write upload: %w", err)
	}
	return path, nil
}
