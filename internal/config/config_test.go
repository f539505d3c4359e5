package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  host: "127.0.0.1"
  port: 9000
storage:
  database_path: "./shortlist.db"
  upload_dir: "./uploads"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9000 {
		t.Errorf("server config: %+v", cfg.Server)
	}
	if cfg.Debug {
		t.Error("debug should default to false")
	}
	if !filepath.IsAbs(cfg.Storage.DatabasePath) {
		t.Errorf("database path not expanded: %q", cfg.Storage.DatabasePath)
	}
	if filepath.Dir(cfg.Storage.DatabasePath) != filepath.Dir(path) {
		t.Errorf("./ path should resolve relative to config dir, got %q", cfg.Storage.DatabasePath)
	}
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `{}`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.Server.MaxUploadBytes != 10<<20 {
		t.Errorf("max upload = %d", cfg.Server.MaxUploadBytes)
	}
	if cfg.Embedding.Dimensions != 384 || cfg.Embedding.MaxTokens != 256 {
		t.Errorf("embedding defaults: %+v", cfg.Embedding)
	}
	if cfg.Embedding.ModelPath != "" {
		t.Error("model path should default to empty (TF-IDF fallback)")
	}
	w := cfg.Scoring.Weights
	if w.Semantic != 0.35 || w.Skill != 0.45 || w.Experience != 0.20 {
		t.Errorf("weights = %+v", w)
	}
	if cfg.Worker.Concurrency != 2 || cfg.Worker.MaxRetries != 3 {
		t.Errorf("worker defaults: %+v", cfg.Worker)
	}
}

func TestLoad_CustomWeights(t *testing.T) {
	path := writeConfig(t, `
scoring:
  weights:
    semantic: 0.5
    skill: 0.3
    experience: 0.2
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Scoring.Weights.Semantic != 0.5 {
		t.Errorf("weights = %+v", cfg.Scoring.Weights)
	}
}

func TestLoad_RejectsBadWeights(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"sum not one", `
scoring:
  weights:
    semantic: 0.5
    skill: 0.5
    experience: 0.5
`},
		{"negative weight", `
scoring:
  weights:
    semantic: -0.2
    skill: 1.0
    experience: 0.2
`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.yaml)); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoad_RejectsIncompleteInbox(t *testing.T) {
	path := writeConfig(t, `
watch:
  inboxes:
    - directory: "./inbox"
`)
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "job_id") {
		t.Errorf("err = %v, want inbox validation error", err)
	}
}

func TestLoad_InboxPathsExpanded(t *testing.T) {
	path := writeConfig(t, `
watch:
  inboxes:
    - directory: "./inbox"
      job_id: "job-1"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !filepath.IsAbs(cfg.Watch.Inboxes[0].Directory) {
		t.Errorf("inbox dir not expanded: %q", cfg.Watch.Inboxes[0].Directory)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoad_SkillExtensions(t *testing.T) {
	path := writeConfig(t, `
skills:
  extra_terms: ["terraform", "pulumi"]
  extra_brands: ["Snowflake"]
  disable_ner: true
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Skills.ExtraTerms) != 2 || cfg.Skills.ExtraTerms[0] != "terraform" {
		t.Errorf("extra terms = %v", cfg.Skills.ExtraTerms)
	}
	if !cfg.Skills.DisableNER {
		t.Error("disable_ner should parse")
	}
}
