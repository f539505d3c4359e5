// Package server exposes the shortlist HTTP API.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/hireloop/shortlist/internal/config"
	"github.com/hireloop/shortlist/internal/storage"
)

// Enqueuer submits resumes for background scoring.
type Enqueuer interface {
	Enqueue(resumeID string) error
}

// Server is the HTTP front of the service.
type Server struct {
	store   storage.Storage
	queue   Enqueuer
	config  *config.Config
	logger  *zap.Logger
	httpSrv *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(store storage.Storage, queue Enqueuer, cfg *config.Config, logger *zap.Logger) *Server {
	return &Server{
		store:  store,
		queue:  queue,
		config: cfg,
		logger: logger,
	}
}

// Router builds the chi router with all API routes mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/jobs", s.handleCreateJob)
		r.Get("/jobs", s.handleListJobs)
		r.Get("/jobs/{id}", s.handleGetJob)
		r.Put("/jobs/{id}", s.handleUpdateJob)
		r.Delete("/jobs/{id}", s.handleDeleteJob)
		r.Post("/jobs/{id}/resumes", s.handleUploadResume)
		r.Get("/jobs/{id}/resumes", s.handleListResumes)
		r.Get("/jobs/{id}/report", s.handleJobReport)
		r.Get("/resumes/{id}", s.handleGetResume)
		r.Delete("/resumes/{id}", s.handleDeleteResume)
		r.Post("/resumes/{id}/rescore", s.handleRescoreResume)
		r.Get("/status", s.handleStatus)
	})
	r.Get("/health", s.handleHealth)

	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.httpSrv = &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}
	s.logger.Info("starting server", zap.String("addr", addr))
	return s.httpSrv.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpSrv != nil {
		return s.httpSrv.Shutdown(ctx)
	}
	return nil
}
