// Package embedding produces dense vectors for job descriptions and
// resume text, backed by an ONNX sentence-transformer model when built
// with CGO and by a deterministic mock otherwise.
package embedding

import (
	"context"
	"strings"
)

// Embedder turns text into a fixed-dimension vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Close() error
}

// Options configures an ONNX embedder.
type Options struct {
	ModelPath  string
	Dimensions int
	MaxTokens  int
	CacheSize  int
}

// maxEmbedWords bounds how much of a document is fed to the model.
// Resumes routinely run to several pages; the model's token window
// covers at most the first few hundred words anyway.
const maxEmbedWords = 512

// PrepareText collapses whitespace and truncates the document to the
// word budget the model can actually attend to. Both sides of a
// comparison go through the same preparation so cached vectors stay
// consistent.
func PrepareText(text string) string {
	words := strings.Fields(text)
	if len(words) > maxEmbedWords {
		words = words[:maxEmbedWords]
	}
	return strings.Join(words, " ")
}
