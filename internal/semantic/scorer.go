// Package semantic scores how close a resume reads to a job
// description, as cosine similarity between their embeddings.
package semantic

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/hireloop/shortlist/internal/embedding"
	"github.com/hireloop/shortlist/pkg/utils"
)

// Scorer computes semantic similarity between two documents. A nil
// embedder degrades to a neutral zero score rather than failing the
// whole scoring run.
type Scorer struct {
	embedder embedding.Embedder
	logger   *zap.Logger
}

// NewScorer returns a scorer backed by emb. emb may be nil.
func NewScorer(emb embedding.Embedder, logger *zap.Logger) *Scorer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scorer{embedder: emb, logger: logger}
}

// Similarity returns the cosine similarity of jd and resume clamped to
// [0, 1]. Empty input on either side scores 0.
func (s *Scorer) Similarity(ctx context.Context, jd, resume string) (float64, error) {
	if s.embedder == nil {
		s.logger.Debug("no embedder configured, semantic score is 0")
		return 0, nil
	}
	if embedding.PrepareText(jd) == "" || embedding.PrepareText(resume) == "" {
		return 0, nil
	}

	vectors, err := s.embedder.EmbedBatch(ctx, []string{jd, resume})
	if err != nil {
		return 0, fmt.Errorf("embed documents: %w", err)
	}

	return utils.Clamp01(cosine(vectors[0], vectors[1])), nil
}

// cosine returns the cosine of the angle between a and b, or 0 when
// either has zero norm or the lengths differ.
func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
