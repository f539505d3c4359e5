// Package main is the shortlist CLI entry point.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hireloop/shortlist/internal/config"
	"github.com/hireloop/shortlist/internal/embedding"
	"github.com/hireloop/shortlist/internal/extract"
	"github.com/hireloop/shortlist/internal/relevance"
	"github.com/hireloop/shortlist/internal/server"
	"github.com/hireloop/shortlist/internal/skills"
	"github.com/hireloop/shortlist/internal/storage"
	"github.com/hireloop/shortlist/internal/watcher"
	"github.com/hireloop/shortlist/internal/worker"
	"github.com/hireloop/shortlist/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/shortlist/config.yaml"

// loadConfig loads config from path. When path is the default, a
// config.yaml in the current directory wins, so running from the
// project directory picks up the project's config.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	switch os.Args[1] {
	case "server":
		runServer()
	case "score":
		runScore()
	case "export":
		runExport()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("shortlist version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`Usage: shortlist <command> [flags]

Commands:
  server    Run the API server, scoring workers, and inbox watcher
  score     Score one resume against one job description, print JSON
  export    Download the ranked .xlsx shortlist for a job
  status    Show service counters and configuration
  version   Print version

Run "shortlist <command> -h" for command flags.
`)
}

// buildEngine assembles the scoring pipeline from config. A missing
// NER model or embedding model degrades with a warning instead of
// refusing to start.
func buildEngine(cfg *config.Config, logger *zap.Logger) (*relevance.Engine, embedding.Embedder, error) {
	vocab := skills.NewVocabulary(cfg.Skills.ExtraTerms, cfg.Skills.ExtraBrands)

	var tagger skills.EntityTagger
	if !cfg.Skills.DisableNER {
		t, err := skills.NewProseTagger()
		if err != nil {
			logger.Warn("entity tagger unavailable, keyword matching only", zap.Error(err))
		} else {
			tagger = t
		}
	}
	extractor := skills.NewExtractor(vocab, tagger, logger)

	var embedder embedding.Embedder
	if cfg.Embedding.ModelPath != "" {
		onnx, err := embedding.NewONNXEmbedder(embedding.Options{
			ModelPath:  cfg.Embedding.ModelPath,
			Dimensions: cfg.Embedding.Dimensions,
			MaxTokens:  cfg.Embedding.MaxTokens,
			CacheSize:  cfg.Embedding.CacheSize,
		})
		if err != nil {
			logger.Warn("embedding model unavailable, using TF-IDF similarity", zap.Error(err))
		} else {
			embedder = onnx
		}
	}

	engine, err := relevance.NewEngine(embedder, extractor, cfg.Scoring.Weights, logger)
	if err != nil {
		if embedder != nil {
			_ = embedder.Close()
		}
		return nil, nil, err
	}
	return engine, embedder, nil
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedPath),
		zap.Bool("debug", debugMode))

	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		logger.Fatal("storage init failed", zap.Error(err))
	}
	defer store.Close()

	engine, embedder, err := buildEngine(cfg, logger)
	if err != nil {
		logger.Fatal("engine init failed", zap.Error(err))
	}
	if embedder != nil {
		defer embedder.Close()
	}

	pool := worker.NewPool(store, engine, extract.NewExtractor(), worker.Options{
		Concurrency: cfg.Worker.Concurrency,
		QueueSize:   cfg.Worker.QueueSize,
		MaxRetries:  cfg.Worker.MaxRetries,
		RetryDelay:  time.Duration(cfg.Worker.RetryDelayMillis) * time.Millisecond,
	}, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pool.Start(ctx)

	var watchSvc *watcher.Service
	if len(cfg.Watch.Inboxes) > 0 {
		inboxes := make([]watcher.Inbox, 0, len(cfg.Watch.Inboxes))
		for _, in := range cfg.Watch.Inboxes {
			inboxes = append(inboxes, watcher.Inbox{Dir: in.Directory, JobID: in.JobID})
		}
		ingest := newInboxIngest(store, pool, cfg.Storage.UploadDir, logger)
		watchSvc = watcher.NewService(inboxes,
			time.Duration(cfg.Watch.DebounceMillis)*time.Millisecond, ingest, logger)
		if err := watchSvc.Start(ctx); err != nil {
			logger.Fatal("inbox watcher failed", zap.Error(err))
		}
		watchSvc.SyncExisting()
	}

	srv := server.NewServer(store, pool, cfg, logger)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down")
	if watchSvc != nil {
		watchSvc.Stop()
	}
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
	cancel()
	pool.Stop()
}

// newInboxIngest copies a dropped file into the upload directory,
// registers it as a resume, and queues it for scoring.
func newInboxIngest(store storage.Storage, pool *worker.Pool, uploadDir string, logger *zap.Logger) watcher.IngestFunc {
	return func(jobID, path string) {
		ctx := context.Background()
		if _, err := store.GetJob(ctx, jobID); err != nil {
			logger.Warn("inbox bound to unknown job",
				zap.String("job_id", jobID), zap.String("path", path), zap.Error(err))
			return
		}

		resume, err := server.IngestFile(ctx, store, uploadDir, jobID, path)
		if err != nil {
			logger.Warn("inbox ingest failed", zap.String("path", path), zap.Error(err))
			return
		}
		if err := pool.Enqueue(resume.ID); err != nil {
			logger.Warn("inbox resume not enqueued",
				zap.String("resume_id", resume.ID), zap.Error(err))
		}
	}
}

func runScore() {
	fs := flag.NewFlagSet("score", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	jdPath := fs.String("jd", "", "job description file (required)")
	resumePath := fs.String("resume", "", "resume file (required)")
	years := fs.Int("years", 0, "required years of experience")
	_ = fs.Parse(os.Args[2:])

	if *jdPath == "" || *resumePath == "" {
		fmt.Fprintln(os.Stderr, "both -jd and -resume are required")
		fs.Usage()
		os.Exit(1)
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		// One-off scoring works without a config file.
		cfg = &config.Config{}
		config.ApplyDefaults(cfg)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	extractor := extract.NewExtractor()
	jd, err := extractor.Extract(*jdPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read job description: %v\n", err)
		os.Exit(1)
	}
	resumeText, err := extractor.Extract(*resumePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read resume: %v\n", err)
		os.Exit(1)
	}

	engine, embedder, err := buildEngine(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build engine: %v\n", err)
		os.Exit(1)
	}
	if embedder != nil {
		defer embedder.Close()
	}

	result, err := engine.Score(context.Background(), jd, float64(*years), resumeText)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Scoring failed: %v\n", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runExport() {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8080", "server URL")
	jobID := fs.String("job", "", "job id (required)")
	outPath := fs.String("out", "", "output .xlsx path (default shortlist-<job>.xlsx)")
	_ = fs.Parse(os.Args[2:])

	if *jobID == "" {
		fmt.Fprintln(os.Stderr, "-job is required")
		fs.Usage()
		os.Exit(1)
	}
	out := *outPath
	if out == "" {
		out = "shortlist-" + *jobID + ".xlsx"
	}

	resp, err := http.Get(*serverURL + "/api/v1/jobs/" + *jobID + "/report")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Request failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		fmt.Fprintf(os.Stderr, "Server returned %d: %s\n", resp.StatusCode, body)
		os.Exit(1)
	}

	f, err := os.Create(out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create %s: %v\n", out, err)
		os.Exit(1)
	}
	defer f.Close()
	if _, err := io.Copy(f, resp.Body); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", out, err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s\n", out)
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8080", "server URL")
	_ = fs.Parse(os.Args[2:])

	resp, err := http.Get(*serverURL + "/api/v1/status")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Request failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		fmt.Fprintf(os.Stderr, "Server returned %d: %s\n", resp.StatusCode, body)
		os.Exit(1)
	}
	var status map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		fmt.Fprintf(os.Stderr, "Decode failed: %v\n", err)
		os.Exit(1)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(status)
}
