package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/hireloop/shortlist/internal/config"
	"github.com/hireloop/shortlist/internal/embedding"
	"github.com/hireloop/shortlist/internal/extract"
	"github.com/hireloop/shortlist/internal/models"
	"github.com/hireloop/shortlist/internal/relevance"
	"github.com/hireloop/shortlist/internal/server"
	"github.com/hireloop/shortlist/internal/skills"
	"github.com/hireloop/shortlist/internal/storage"
	"github.com/hireloop/shortlist/internal/worker"
)

const (
	e2eDimensions = 16
	e2eDeadline   = 15 * time.Second
)

type e2eStack struct {
	ts    *httptest.Server
	store *storage.SQLiteStorage
	pool  *worker.Pool
}

func newE2EStack(t *testing.T) *e2eStack {
	t.Helper()
	dir := t.TempDir()

	store, err := storage.NewSQLiteStorage(filepath.Join(dir, "shortlist.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	logger := zap.NewNop()
	embedder := embedding.NewMockEmbedder(e2eDimensions)
	t.Cleanup(func() { embedder.Close() })

	// Keyword-only extraction keeps the pipeline deterministic; NER
	// cross-checking is covered by the skills package tests.
	extractor := skills.NewExtractor(skills.NewVocabulary(nil, nil), nil, logger)
	engine, err := relevance.NewEngine(embedder, extractor, relevance.Weights{}, logger)
	if err != nil {
		t.Fatal(err)
	}

	pool := worker.NewPool(store, engine, extract.NewExtractor(), worker.Options{
		Concurrency: 2,
		QueueSize:   50,
		MaxRetries:  1,
		RetryDelay:  10 * time.Millisecond,
	}, logger)
	ctx, cancel := context.WithCancel(context.Background())
	pool.Start(ctx)
	t.Cleanup(func() {
		pool.Stop()
		cancel()
	})

	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	cfg.Storage.DatabasePath = filepath.Join(dir, "shortlist.db")
	cfg.Storage.UploadDir = filepath.Join(dir, "uploads")

	ts := httptest.NewServer(server.NewServer(store, pool, cfg, logger).Router())
	t.Cleanup(ts.Close)

	return &e2eStack{ts: ts, store: store, pool: pool}
}

func (s *e2eStack) createJob(t *testing.T, tc RankingCase) string {
	t.Helper()
	body, _ := json.Marshal(models.JobInput{
		Title:         tc.Title,
		Description:   tc.JD,
		RequiredYears: tc.RequiredYears,
	})
	resp, err := http.Post(s.ts.URL+"/api/v1/jobs", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create job: status %d", resp.StatusCode)
	}
	var job models.Job
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		t.Fatal(err)
	}
	return job.ID
}

func (s *e2eStack) uploadResume(t *testing.T, jobID string, c CandidateResume) string {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", c.Filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write([]byte(c.Content)); err != nil {
		t.Fatal(err)
	}
	mw.Close()

	resp, err := http.Post(
		fmt.Sprintf("%s/api/v1/jobs/%s/resumes", s.ts.URL, jobID),
		mw.FormDataContentType(), &buf)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("upload %s: status %d body %s", c.Filename, resp.StatusCode, raw)
	}
	var out struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	return out.ID
}

func (s *e2eStack) listResumes(t *testing.T, jobID string) []models.Resume {
	t.Helper()
	resp, err := http.Get(fmt.Sprintf("%s/api/v1/jobs/%s/resumes", s.ts.URL, jobID))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list resumes: status %d", resp.StatusCode)
	}
	var resumes []models.Resume
	if err := json.NewDecoder(resp.Body).Decode(&resumes); err != nil {
		t.Fatal(err)
	}
	return resumes
}

// waitScored polls the shortlist until every resume reaches a terminal status.
func (s *e2eStack) waitScored(t *testing.T, jobID string, n int) []models.Resume {
	t.Helper()
	deadline := time.Now().Add(e2eDeadline)
	for time.Now().Before(deadline) {
		resumes := s.listResumes(t, jobID)
		done := 0
		for _, r := range resumes {
			if r.Status == models.StatusCompleted || r.Status == models.StatusFailed {
				done++
			}
		}
		if len(resumes) == n && done == n {
			return resumes
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatalf("resumes for job %s not scored within %s", jobID, e2eDeadline)
	return nil
}

func TestE2E_ShortlistRanking(t *testing.T) {
	stack := newE2EStack(t)

	for _, tc := range BuildCorpus() {
		t.Run(tc.Description, func(t *testing.T) {
			jobID := stack.createJob(t, tc)

			idByKey := make(map[string]string, len(tc.Candidates))
			for _, c := range tc.Candidates {
				idByKey[c.Key] = stack.uploadResume(t, jobID, c)
			}

			resumes := stack.waitScored(t, jobID, len(tc.Candidates))
			for _, r := range resumes {
				if r.Status != models.StatusCompleted {
					t.Errorf("resume %s status = %s, error %q", r.Filename, r.Status, r.ScoreError)
				}
			}

			if got := resumes[0].ID; got != idByKey[tc.TopKey] {
				t.Errorf("top of shortlist = %s, want %s", resumes[0].Filename, tc.TopKey)
			}
			if got := resumes[len(resumes)-1].ID; got != idByKey[tc.BottomKey] {
				t.Errorf("bottom of shortlist = %s, want %s",
					resumes[len(resumes)-1].Filename, tc.BottomKey)
			}
			for i := 1; i < len(resumes); i++ {
				if resumes[i].FinalScore > resumes[i-1].FinalScore {
					t.Errorf("shortlist not sorted: %s (%.3f) after %s (%.3f)",
						resumes[i].Filename, resumes[i].FinalScore,
						resumes[i-1].Filename, resumes[i-1].FinalScore)
				}
			}
		})
	}
}

func TestE2E_ReportMatchesShortlist(t *testing.T) {
	stack := newE2EStack(t)
	tc := BuildCorpus()[0]

	jobID := stack.createJob(t, tc)
	for _, c := range tc.Candidates {
		stack.uploadResume(t, jobID, c)
	}
	resumes := stack.waitScored(t, jobID, len(tc.Candidates))

	resp, err := http.Get(fmt.Sprintf("%s/api/v1/jobs/%s/report", stack.ts.URL, jobID))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("report: status %d", resp.StatusCode)
	}

	f, err := excelize.OpenReader(resp.Body)
	if err != nil {
		t.Fatalf("report is not a valid workbook: %v", err)
	}
	defer f.Close()

	// Row 3 is rank 1; column B is the filename.
	topName, err := f.GetCellValue("Shortlist", "B3")
	if err != nil {
		t.Fatal(err)
	}
	if topName != resumes[0].Filename {
		t.Errorf("report rank 1 = %q, want %q", topName, resumes[0].Filename)
	}
}
