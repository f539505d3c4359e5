package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hireloop/shortlist/internal/extract"
	"github.com/hireloop/shortlist/internal/models"
	"github.com/hireloop/shortlist/internal/report"
	"github.com/hireloop/shortlist/internal/storage"
	"github.com/hireloop/shortlist/internal/worker"
)

func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	var input models.JobInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validateJobInput(&input); msg != "" {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}

	job := &models.Job{
		ID:            uuid.NewString(),
		Title:         input.Title,
		Description:   input.Description,
		RequiredYears: input.RequiredYears,
	}
	if err := s.store.CreateJob(r.Context(), job); err != nil {
		s.logger.Error("create job failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.logger.Info("job created", zap.String("job_id", job.ID), zap.String("title", job.Title))
	s.respondJSON(w, http.StatusCreated, job)
}

func validateJobInput(input *models.JobInput) string {
	if strings.TrimSpace(input.Title) == "" {
		return "title is required"
	}
	if strings.TrimSpace(input.Description) == "" {
		return "description is required"
	}
	if input.RequiredYears < 0 {
		return "required_experience_years must not be negative"
	}
	return ""
}

// handleUpdateJob replaces a job's title, description, and required
// years. Existing resume scores are not recomputed; clients re-score
// explicitly after edits that change the description.
func (s *Server) handleUpdateJob(w http.ResponseWriter, r *http.Request) {
	var input models.JobInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validateJobInput(&input); msg != "" {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}

	job, err := s.store.GetJob(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondNotFoundOr500(w, err, "job not found")
		return
	}
	job.Title = input.Title
	job.Description = input.Description
	job.RequiredYears = input.RequiredYears
	if err := s.store.UpdateJob(r.Context(), job); err != nil {
		s.respondNotFoundOr500(w, err, "job not found")
		return
	}
	s.logger.Info("job updated", zap.String("job_id", job.ID))
	s.respondJSON(w, http.StatusOK, job)
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	offset := queryInt(r, "offset", 0)
	limit := queryInt(r, "limit", 50)
	if limit > 200 {
		limit = 200
	}
	jobs, err := s.store.ListJobs(r.Context(), offset, limit)
	if err != nil {
		s.logger.Error("list jobs failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if jobs == nil {
		jobs = []*models.Job{}
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"jobs": jobs})
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.store.GetJob(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondNotFoundOr500(w, err, "job not found")
		return
	}
	s.respondJSON(w, http.StatusOK, job)
}

func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.store.GetJob(r.Context(), id); err != nil {
		s.respondNotFoundOr500(w, err, "job not found")
		return
	}
	if err := s.store.DeleteJob(r.Context(), id); err != nil {
		s.logger.Error("delete job failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"id": id, "status": "deleted"})
}

func (s *Server) handleUploadResume(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "id")
	if _, err := s.store.GetJob(r.Context(), jobID); err != nil {
		s.respondNotFoundOr500(w, err, "job not found")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.config.Server.MaxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "multipart field \"file\" is required")
		return
	}
	defer file.Close()

	if !extract.Supported(header.Filename) {
		s.respondError(w, http.StatusUnsupportedMediaType,
			fmt.Sprintf("unsupported resume format %q", filepath.Ext(header.Filename)))
		return
	}

	resumeID := uuid.NewString()
	storedPath, err := copyToUploads(file, s.config.Storage.UploadDir, resumeID, header.Filename)
	if err != nil {
		s.logger.Error("upload not stored", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resume := &models.Resume{
		ID:         resumeID,
		JobID:      jobID,
		Filename:   filepath.Base(header.Filename),
		StoredPath: storedPath,
	}
	if err := s.store.CreateResume(r.Context(), resume); err != nil {
		s.logger.Error("create resume failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := s.queue.Enqueue(resume.ID); err != nil {
		if errors.Is(err, worker.ErrQueueFull) {
			s.respondError(w, http.StatusServiceUnavailable, "scoring queue is full, try again later")
			return
		}
		s.logger.Error("enqueue failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.logger.Info("resume uploaded",
		zap.String("resume_id", resume.ID),
		zap.String("job_id", jobID),
		zap.String("filename", resume.Filename))
	s.respondJSON(w, http.StatusAccepted, map[string]string{
		"id":     resume.ID,
		"status": string(models.StatusPending),
	})
}

func (s *Server) handleListResumes(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "id")
	if _, err := s.store.GetJob(r.Context(), jobID); err != nil {
		s.respondNotFoundOr500(w, err, "job not found")
		return
	}
	resumes, err := s.store.ListResumesByJob(r.Context(), jobID)
	if err != nil {
		s.logger.Error("list resumes failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if resumes == nil {
		resumes = []*models.Resume{}
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"resumes": resumes})
}

func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request) {
	resume, err := s.store.GetResume(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondNotFoundOr500(w, err, "resume not found")
		return
	}
	s.respondJSON(w, http.StatusOK, resume)
}

func (s *Server) handleDeleteResume(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	resume, err := s.store.GetResume(r.Context(), id)
	if err != nil {
		s.respondNotFoundOr500(w, err, "resume not found")
		return
	}
	if err := s.store.DeleteResume(r.Context(), id); err != nil {
		s.respondNotFoundOr500(w, err, "resume not found")
		return
	}
	if resume.StoredPath != "" {
		if err := os.Remove(resume.StoredPath); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("stored resume file not removed",
				zap.String("path", resume.StoredPath), zap.Error(err))
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRescoreResume(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	resume, err := s.store.GetResume(r.Context(), id)
	if err != nil {
		s.respondNotFoundOr500(w, err, "resume not found")
		return
	}
	if err := s.store.SetResumeStatus(r.Context(), resume.ID, models.StatusPending); err != nil {
		s.logger.Error("rescore reset failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := s.queue.Enqueue(resume.ID); err != nil {
		if errors.Is(err, worker.ErrQueueFull) {
			s.respondError(w, http.StatusServiceUnavailable, "scoring queue is full, try again later")
			return
		}
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusAccepted, map[string]string{
		"id":     resume.ID,
		"status": string(models.StatusPending),
	})
}

func (s *Server) handleJobReport(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "id")
	job, err := s.store.GetJob(r.Context(), jobID)
	if err != nil {
		s.respondNotFoundOr500(w, err, "job not found")
		return
	}
	resumes, err := s.store.ListResumesByJob(r.Context(), jobID)
	if err != nil {
		s.logger.Error("report listing failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "shortlist-"+jobID+".xlsx"))
	if err := report.Write(w, job, resumes); err != nil {
		// Headers are already out; all we can do is log.
		s.logger.Error("report write failed", zap.String("job_id", jobID), zap.Error(err))
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	jobCount, err := s.store.CountJobs(ctx)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resumeCount, err := s.store.CountResumes(ctx)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := map[string]any{
		"jobs":    jobCount,
		"resumes": resumeCount,
		"config": map[string]any{
			"database_path":    s.config.Storage.DatabasePath,
			"upload_dir":       s.config.Storage.UploadDir,
			"embedding_model":  s.config.Embedding.ModelPath,
			"semantic_backend": semanticBackend(s.config.Embedding.ModelPath),
		},
	}
	if diskBytes, err := storage.DiskUsageBytes(s.config.Storage.DatabasePath, s.config.Storage.UploadDir); err == nil {
		resp["disk_usage_bytes"] = diskBytes
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func semanticBackend(modelPath string) string {
	if modelPath == "" {
		return "tfidf"
	}
	return "onnx"
}

func (s *Server) respondNotFoundOr500(w http.ResponseWriter, err error, msg string) {
	if errors.Is(err, storage.ErrNotFound) {
		s.respondError(w, http.StatusNotFound, msg)
		return
	}
	s.logger.Error("storage error", zap.Error(err))
	s.respondError(w, http.StatusInternalServerError, err.Error())
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
