// Package config loads and validates the shortlist service configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hireloop/shortlist/internal/relevance"
)

// Config holds all configuration for the service.
type Config struct {
	Debug     bool            `yaml:"debug"`
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Scoring   ScoringConfig   `yaml:"scoring"`
	Skills    SkillsConfig    `yaml:"skills"`
	Watch     WatchConfig     `yaml:"watch"`
	Worker    WorkerConfig    `yaml:"worker"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	// MaxUploadBytes caps a single resume upload.
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`
}

// StorageConfig holds database and upload paths.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
	UploadDir    string `yaml:"upload_dir"`
}

// EmbeddingConfig holds ONNX embedder settings. An empty model path
// disables the embedder and scoring falls back to TF-IDF similarity.
type EmbeddingConfig struct {
	ModelPath  string `yaml:"model_path"`
	Dimensions int    `yaml:"dimensions"`
	MaxTokens  int    `yaml:"max_tokens"`
	CacheSize  int    `yaml:"cache_size"`
}

// ScoringConfig holds signal weights and retry policy defaults.
type ScoringConfig struct {
	Weights relevance.Weights `yaml:"weights"`
}

// SkillsConfig extends the built-in skill vocabulary.
type SkillsConfig struct {
	ExtraTerms  []string `yaml:"extra_terms"`
	ExtraBrands []string `yaml:"extra_brands"`
	// DisableNER skips the prose entity tagger even when available.
	DisableNER bool `yaml:"disable_ner"`
}

// WatchConfig binds drop-folder directories to jobs. Files dropped
// into a directory are ingested as uploads for its job.
type WatchConfig struct {
	Inboxes []InboxConfig `yaml:"inboxes"`
	// DebounceMillis delays ingestion after the last write event.
	DebounceMillis int `yaml:"debounce_millis"`
}

// InboxConfig is one watched directory bound to one job.
type InboxConfig struct {
	Directory string `yaml:"directory"`
	JobID     string `yaml:"job_id"`
}

// WorkerConfig tunes the background scoring pool.
type WorkerConfig struct {
	Concurrency int `yaml:"concurrency"`
	QueueSize   int `yaml:"queue_size"`
	MaxRetries  int `yaml:"max_retries"`
	// RetryDelayMillis spaces retry attempts.
	RetryDelayMillis int `yaml:"retry_delay_millis"`
}

// Load reads the config file at path, applies defaults, and expands
// relative paths.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	ApplyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	configDir := filepath.Dir(path)
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)
	cfg.Storage.UploadDir = expandPath(cfg.Storage.UploadDir, configDir)
	if cfg.Embedding.ModelPath != "" {
		cfg.Embedding.ModelPath = expandPath(cfg.Embedding.ModelPath, configDir)
	}
	for i := range cfg.Watch.Inboxes {
		cfg.Watch.Inboxes[i].Directory = expandPath(cfg.Watch.Inboxes[i].Directory, configDir)
	}

	return &cfg, nil
}

// Validate rejects configurations that would silently misbehave.
func Validate(cfg *Config) error {
	w := cfg.Scoring.Weights
	if w.Semantic < 0 || w.Skill < 0 || w.Experience < 0 {
		return fmt.Errorf("scoring weights must be non-negative, got %+v", w)
	}
	sum := w.Semantic + w.Skill + w.Experience
	if sum < 0.999 || sum > 1.001 {
		return fmt.Errorf("scoring weights must sum to 1, got %v", sum)
	}
	for _, inbox := range cfg.Watch.Inboxes {
		if inbox.Directory == "" || inbox.JobID == "" {
			return fmt.Errorf("watch inbox needs both directory and job_id, got %+v", inbox)
		}
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are
// relative to configDir; other relative paths are relative to the home
// directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
