// Package tfidf provides TF-IDF cosine similarity between documents.
// It is the comparison path used when no embedding model is configured:
// coarser than sentence embeddings, but dependency-free at runtime.
package tfidf

import (
	"math"

	"github.com/hireloop/shortlist/pkg/utils"
)

// Corpus holds term and document frequencies for a fixed set of documents,
// each given as normalized terms (see internal/textnorm).
type Corpus struct {
	termFreqs []map[string]float64
	docFreqs  map[string]int
	totalDocs int
}

// NewCorpus builds a corpus from tokenized documents.
func NewCorpus(docs [][]string) *Corpus {
	c := &Corpus{
		termFreqs: make([]map[string]float64, len(docs)),
		docFreqs:  make(map[string]int),
		totalDocs: len(docs),
	}
	for i, doc := range docs {
		counts := make(map[string]float64, len(doc))
		for _, term := range doc {
			counts[term]++
		}
		if n := float64(len(doc)); n > 0 {
			for term := range counts {
				counts[term] /= n
			}
		}
		c.termFreqs[i] = counts
		for term := range counts {
			c.docFreqs[term]++
		}
	}
	return c
}

// idf is the smoothed inverse document frequency: ln((1+N)/(1+df)) + 1.
// Smoothing keeps weights positive so cosine stays in [0,1].
func (c *Corpus) idf(term string) float64 {
	df := c.docFreqs[term]
	return math.Log(float64(1+c.totalDocs)/float64(1+df)) + 1
}

// vector returns the TF-IDF weight map for document i.
func (c *Corpus) vector(i int) map[string]float64 {
	if i < 0 || i >= len(c.termFreqs) {
		return nil
	}
	v := make(map[string]float64, len(c.termFreqs[i]))
	for term, tf := range c.termFreqs[i] {
		v[term] = tf * c.idf(term)
	}
	return v
}

// Similarity returns the cosine similarity of documents i and j in [0,1].
// Documents with no terms score 0.
func (c *Corpus) Similarity(i, j int) float64 {
	a, b := c.vector(i), c.vector(j)
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for term, wa := range a {
		if wb, ok := b[term]; ok {
			dot += wa * wb
		}
		normA += wa * wa
	}
	for _, wb := range b {
		normB += wb * wb
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return utils.Clamp01(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}

// Similarity is the two-document convenience form: TF-IDF cosine similarity
// between a and b, each given as normalized terms.
func Similarity(a, b []string) float64 {
	return NewCorpus([][]string{a, b}).Similarity(0, 1)
}
