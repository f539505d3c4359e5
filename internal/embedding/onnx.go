//go:build cgo
// +build cgo

package embedding

import (
	"context"
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/hireloop/shortlist/pkg/utils"
)

// ONNXEmbedder runs a sentence-transformer exported to ONNX. Tensors
// are allocated once and reused across calls; Run is serialized by a
// mutex since the session writes into shared output memory.
type ONNXEmbedder struct {
	session    *ort.AdvancedSession
	dimensions int
	maxTokens  int
	cache      *Cache
	tokenizer  Tokenizer

	inputIDs      *ort.Tensor[int64]
	attentionMask *ort.Tensor[int64]
	tokenTypeIDs  *ort.Tensor[int64]
	output        *ort.Tensor[float32]
	mu            sync.Mutex
}

// NewONNXEmbedder loads the model at opts.ModelPath and prepares the
// session. The onnxruntime environment is initialized on first use.
func NewONNXEmbedder(opts Options) (*ONNXEmbedder, error) {
	if err := ort.InitializeEnvironment(); err != nil {
		return nil, fmt.Errorf("initialize onnxruntime: %w", err)
	}

	tokenizer := &HashTokenizer{}
	ids, mask, types := tokenizer.Tokenize("", opts.MaxTokens)

	shape := ort.NewShape(1, int64(opts.MaxTokens))
	idsTensor, err := ort.NewTensor(shape, ids)
	if err != nil {
		return nil, fmt.Errorf("create input_ids tensor: %w", err)
	}
	maskTensor, err := ort.NewTensor(shape, mask)
	if err != nil {
		idsTensor.Destroy()
		return nil, fmt.Errorf("create attention_mask tensor: %w", err)
	}
	typesTensor, err := ort.NewTensor(shape, types)
	if err != nil {
		idsTensor.Destroy()
		maskTensor.Destroy()
		return nil, fmt.Errorf("create token_type_ids tensor: %w", err)
	}
	outTensor, err := ort.NewTensor(ort.NewShape(1, int64(opts.Dimensions)), make([]float32, opts.Dimensions))
	if err != nil {
		idsTensor.Destroy()
		maskTensor.Destroy()
		typesTensor.Destroy()
		return nil, fmt.Errorf("create output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(
		opts.ModelPath,
		[]string{"input_ids", "attention_mask", "token_type_ids"},
		[]string{"output"},
		[]ort.ArbitraryTensor{idsTensor, maskTensor, typesTensor},
		[]ort.ArbitraryTensor{outTensor},
		nil,
	)
	if err != nil {
		idsTensor.Destroy()
		maskTensor.Destroy()
		typesTensor.Destroy()
		outTensor.Destroy()
		return nil, fmt.Errorf("create onnx session: %w", err)
	}

	return &ONNXEmbedder{
		session:       session,
		dimensions:    opts.Dimensions,
		maxTokens:     opts.MaxTokens,
		cache:         NewCache(opts.CacheSize),
		tokenizer:     tokenizer,
		inputIDs:      idsTensor,
		attentionMask: maskTensor,
		tokenTypeIDs:  typesTensor,
		output:        outTensor,
	}, nil
}

// Embed returns the L2-normalized embedding for text.
func (e *ONNXEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	prepared := PrepareText(text)
	if cached, ok := e.cache.Get(prepared); ok {
		return cached, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	ids, mask, types := e.tokenizer.Tokenize(prepared, e.maxTokens)
	copy(e.inputIDs.GetData(), ids)
	copy(e.attentionMask.GetData(), mask)
	copy(e.tokenTypeIDs.GetData(), types)

	if err := e.session.Run(); err != nil {
		return nil, fmt.Errorf("onnx inference: %w", err)
	}

	vector := make([]float32, e.dimensions)
	copy(vector, e.output.GetData()[:e.dimensions])
	utils.NormalizeL2(vector)

	e.cache.Put(prepared, vector)
	return vector, nil
}

// EmbedBatch embeds texts one at a time, stopping at the first error
// or context cancellation.
func (e *ONNXEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		vector, err := e.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors[i] = vector
	}
	return vectors, nil
}

// Dimensions returns the width of produced vectors.
func (e *ONNXEmbedder) Dimensions() int {
	return e.dimensions
}

// Close releases the session and its tensors.
func (e *ONNXEmbedder) Close() error {
	var err error
	if e.session != nil {
		err = e.session.Destroy()
		e.session = nil
	}
	for _, t := range []*ort.Tensor[int64]{e.inputIDs, e.attentionMask, e.tokenTypeIDs} {
		if t != nil {
			_ = t.Destroy()
		}
	}
	if e.output != nil {
		_ = e.output.Destroy()
		e.output = nil
	}
	e.inputIDs, e.attentionMask, e.tokenTypeIDs = nil, nil, nil
	return err
}
