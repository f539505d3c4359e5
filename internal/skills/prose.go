package skills

import (
	"fmt"

	prose "github.com/jdkato/prose/v2"
)

// ProseTagger implements EntityTagger with the prose NLP library.
type ProseTagger struct{}

// NewProseTagger builds the tagger and runs a warm-up document so that model
// loading problems surface here, once, instead of on the first scoring call.
// A construction error means the caller should run keyword-only extraction.
func NewProseTagger() (*ProseTagger, error) {
	t := &ProseTagger{}
	if _, err := t.Entities("warm up"); err != nil {
		return nil, fmt.Errorf("prose model unavailable: %w", err)
	}
	return t, nil
}

// Entities tags text and returns its named entities.
func (t *ProseTagger) Entities(text string) ([]Entity, error) {
	doc, err := prose.NewDocument(text, prose.WithSegmentation(false))
	if err != nil {
		return nil, fmt.Errorf("tag entities: %w", err)
	}
	ents := doc.Entities()
	out := make([]Entity, len(ents))
	for i, ent := range ents {
		out[i] = Entity{Text: ent.Text, Label: ent.Label}
	}
	return out, nil
}
