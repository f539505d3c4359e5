package embedding

import (
	"context"
	"hash/fnv"
	"math"

	"github.com/hireloop/shortlist/pkg/utils"
)

// MockEmbedder produces deterministic unit vectors derived from the
// text content. Identical texts map to identical vectors and similar
// word sets to nearby ones, which is enough for scoring tests and for
// running the service without a model file.
type MockEmbedder struct {
	dimensions int
}

// NewMockEmbedder returns a mock of the given dimensionality.
func NewMockEmbedder(dimensions int) *MockEmbedder {
	if dimensions <= 0 {
		dimensions = 384
	}
	return &MockEmbedder{dimensions: dimensions}
}

// Embed builds a pseudo bag-of-words vector: each word contributes to
// a hash-selected set of components, so overlapping vocabularies yield
// positive cosine similarity.
func (e *MockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	vector := make([]float32, e.dimensions)
	ids, mask, _ := (&HashTokenizer{}).Tokenize(PrepareText(text), 256)
	for i, id := range ids {
		if mask[i] == 0 || id == clsTokenID || id == sepTokenID {
			continue
		}
		seed := seedFor(id)
		for k := 0; k < 4; k++ {
			idx := int((seed + uint32(k)*2654435761) % uint32(e.dimensions))
			vector[idx] += float32(math.Sin(float64(seed) + float64(k)))
		}
	}
	if isZero(vector) {
		vector[0] = 1
	}
	utils.NormalizeL2(vector)
	return vector, nil
}

// EmbedBatch embeds each text with Embed.
func (e *MockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vector, err := e.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors[i] = vector
	}
	return vectors, nil
}

// Dimensions returns the vector width.
func (e *MockEmbedder) Dimensions() int {
	return e.dimensions
}

// Close is a no-op.
func (e *MockEmbedder) Close() error {
	return nil
}

func seedFor(id int64) uint32 {
	h := fnv.New32a()
	h.Write([]byte{byte(id), byte(id >> 8), byte(id >> 16), byte(id >> 24)})
	return h.Sum32()
}

func isZero(x []float32) bool {
	for _, v := range x {
		if v != 0 {
			return false
		}
	}
	return true
}
