// Package textnorm normalizes free text into comparable terms: lowercase,
// English stop-word removal, and porter stemming. It is used by the TF-IDF
// comparison path, not by the skill or experience extractors, which work on
// raw text.
package textnorm

import (
	"fmt"
	"unicode"

	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/analysis/token/porter"
	"github.com/blevesearch/bleve/v2/analysis/token/stop"
	unicodetokenizer "github.com/blevesearch/bleve/v2/analysis/tokenizer/unicode"
	"github.com/blevesearch/bleve/v2/registry"
)

// minTermLength drops single-character terms, which carry no signal for
// document comparison (initials, list bullets, stray punctuation remnants).
const minTermLength = 2

// Normalizer turns raw text into normalized terms using a Bleve analysis
// chain. It is read-only after construction and safe for concurrent use.
type Normalizer struct {
	tokenizer analysis.Tokenizer
	filters   []analysis.TokenFilter
}

// NewNormalizer builds the analysis chain: unicode tokenizer, lowercase,
// English stop words, porter stemmer.
func NewNormalizer() (*Normalizer, error) {
	cache := registry.NewCache()
	stopMap, err := cache.TokenMapNamed(en.StopName)
	if err != nil {
		return nil, fmt.Errorf("load English stop words: %w", err)
	}
	return &Normalizer{
		tokenizer: unicodetokenizer.NewUnicodeTokenizer(),
		filters: []analysis.TokenFilter{
			lowercase.NewLowerCaseFilter(),
			stop.NewStopTokensFilter(stopMap),
			porter.NewPorterStemmer(),
		},
	}, nil
}

// Terms returns the normalized terms of text, in document order.
// Empty input yields an empty slice.
func (n *Normalizer) Terms(text string) []string {
	if text == "" {
		return nil
	}
	stream := n.tokenizer.Tokenize([]byte(text))
	for _, f := range n.filters {
		stream = f.Filter(stream)
	}
	terms := make([]string, 0, len(stream))
	for _, tok := range stream {
		term := string(tok.Term)
		if len(term) < minTermLength || !alphabetic(term) {
			continue
		}
		terms = append(terms, term)
	}
	return terms
}

// alphabetic reports whether s consists only of letters.
func alphabetic(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
