package skills

import (
	"sort"
	"strings"

	"go.uber.org/zap"
)

// SkillSet is a deduplicated set of canonical (lowercased) skill strings.
type SkillSet map[string]struct{}

// Add inserts the canonical form of term.
func (s SkillSet) Add(term string) {
	s[strings.ToLower(term)] = struct{}{}
}

// Has reports whether term is present (case-insensitive).
func (s SkillSet) Has(term string) bool {
	_, ok := s[strings.ToLower(term)]
	return ok
}

// Sorted returns the skills in lexical order, for logging and stable output.
func (s SkillSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for term := range s {
		out = append(out, term)
	}
	sort.Strings(out)
	return out
}

// Entity is a named entity reported by an EntityTagger.
type Entity struct {
	Text  string
	Label string
}

// EntityTagger extracts named entities from text. Implementations must be
// safe for concurrent use.
type EntityTagger interface {
	Entities(text string) ([]Entity, error)
}

// Extractor detects vocabulary skills in free text. The entity tagger is an
// optional recall boost: when nil the extractor runs keyword-only, which is
// the degraded mode when the NER model is unavailable.
type Extractor struct {
	vocab  *Vocabulary
	tagger EntityTagger
	logger *zap.Logger
}

// NewExtractor returns an extractor over vocab. tagger may be nil.
func NewExtractor(vocab *Vocabulary, tagger EntityTagger, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{vocab: vocab, tagger: tagger, logger: logger}
}

// Extract returns the set of vocabulary skills found in text.
// Empty input yields an empty set; the call never fails, since entity
// tagging errors degrade to the keyword-only result.
func (e *Extractor) Extract(text string) SkillSet {
	found := make(SkillSet)
	if text == "" {
		return found
	}

	for _, entry := range e.vocab.entries {
		if entry.pattern.MatchString(text) {
			found[entry.canonical] = struct{}{}
		}
	}

	if e.tagger != nil {
		entities, err := e.tagger.Entities(text)
		if err != nil {
			e.logger.Warn("entity tagging failed, keyword matches only", zap.Error(err))
			return found
		}
		for _, ent := range entities {
			lower := strings.ToLower(ent.Text)
			if e.vocab.Contains(lower) {
				found[lower] = struct{}{}
				continue
			}
			if e.vocab.IsAllowedBrand(ent.Text) {
				found.Add(ent.Text)
			}
		}
	}

	return found
}
