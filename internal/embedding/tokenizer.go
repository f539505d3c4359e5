package embedding

import (
	"hash/fnv"
	"strings"
)

// BERT special token IDs.
const (
	clsTokenID = 101
	sepTokenID = 102
)

const hashVocabSize = 30000

// Tokenizer produces the three input slices BERT-style models expect.
type Tokenizer interface {
	Tokenize(text string, maxTokens int) (inputIDs, attentionMask, tokenTypeIDs []int64)
}

// HashTokenizer is a whitespace tokenizer that maps each word to a
// bucket of a fixed-size vocabulary via FNV hashing. It is not a real
// WordPiece tokenizer, but it is deterministic, needs no vocab file,
// and is adequate for relative similarity between documents.
type HashTokenizer struct{}

// Tokenize splits text on whitespace and emits [CLS] word... [SEP]
// padded to maxTokens.
func (t *HashTokenizer) Tokenize(text string, maxTokens int) (inputIDs, attentionMask, tokenTypeIDs []int64) {
	if maxTokens <= 0 {
		maxTokens = 256
	}
	inputIDs = make([]int64, maxTokens)
	attentionMask = make([]int64, maxTokens)
	tokenTypeIDs = make([]int64, maxTokens)

	inputIDs[0] = clsTokenID
	attentionMask[0] = 1

	pos := 1
	for _, word := range strings.Fields(text) {
		if pos >= maxTokens-1 {
			break
		}
		inputIDs[pos] = hashWord(word)
		attentionMask[pos] = 1
		pos++
	}
	if pos < maxTokens {
		inputIDs[pos] = sepTokenID
		attentionMask[pos] = 1
	}
	return inputIDs, attentionMask, tokenTypeIDs
}

func hashWord(word string) int64 {
	h := fnv.New32a()
	h.Write([]byte(strings.ToLower(word)))
	return int64(h.Sum32() % hashVocabSize)
}
