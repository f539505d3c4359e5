// Package relevance composes the individual scoring signals into the
// final fit score between a job and a resume.
package relevance

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/hireloop/shortlist/internal/embedding"
	"github.com/hireloop/shortlist/internal/experience"
	"github.com/hireloop/shortlist/internal/semantic"
	"github.com/hireloop/shortlist/internal/skills"
	"github.com/hireloop/shortlist/internal/textnorm"
	"github.com/hireloop/shortlist/internal/tfidf"
	"github.com/hireloop/shortlist/pkg/utils"
)

// Weights blends the three signals into the final score. Callers are
// expected to pass weights summing to 1.
type Weights struct {
	Semantic   float64 `yaml:"semantic"`
	Skill      float64 `yaml:"skill"`
	Experience float64 `yaml:"experience"`
}

// DefaultWeights favors concrete skill overlap over free-text
// similarity, with experience as a smaller corrective.
var DefaultWeights = Weights{Semantic: 0.35, Skill: 0.45, Experience: 0.20}

// Usage errors: the inputs cannot be scored and retrying will not help.
var (
	ErrEmptyJobDescription = errors.New("job description is empty")
	ErrEmptyResume         = errors.New("resume text is empty")
)

// IsUsageError reports whether err means the caller's input was
// unusable, as opposed to a transient scoring failure.
func IsUsageError(err error) bool {
	return errors.Is(err, ErrEmptyJobDescription) || errors.Is(err, ErrEmptyResume)
}

// Result carries the component scores and the evidence behind them.
type Result struct {
	SemanticScore   float64  `json:"semantic_score"`
	SkillScore      float64  `json:"skill_score"`
	ExperienceScore float64  `json:"experience_score"`
	FinalScore      float64  `json:"final_score"`
	JobSkills       []string `json:"job_skills"`
	ResumeSkills    []string `json:"resume_skills"`
	MatchedSkills   []string `json:"matched_skills"`
	ResumeYears     float64  `json:"resume_years"`
}

// Engine scores resumes against jobs. It is safe for concurrent use.
type Engine struct {
	normalizer *textnorm.Normalizer
	extractor  *skills.Extractor
	estimator  *experience.Estimator
	semantic   *semantic.Scorer
	embedder   embedding.Embedder
	weights    Weights
	logger     *zap.Logger
}

// NewEngine wires the scoring pipeline. embedder may be nil, in which
// case semantic similarity falls back to TF-IDF cosine over normalized
// terms.
func NewEngine(embedder embedding.Embedder, extractor *skills.Extractor, weights Weights, logger *zap.Logger) (*Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if extractor == nil {
		return nil, errors.New("skill extractor is required")
	}
	normalizer, err := textnorm.NewNormalizer()
	if err != nil {
		return nil, fmt.Errorf("build normalizer: %w", err)
	}
	if weights == (Weights{}) {
		weights = DefaultWeights
	}
	return &Engine{
		normalizer: normalizer,
		extractor:  extractor,
		estimator:  experience.NewEstimator(logger),
		semantic:   semantic.NewScorer(embedder, logger),
		embedder:   embedder,
		weights:    weights,
		logger:     logger,
	}, nil
}

// Score computes the weighted fit of resumeText for the job described
// by jd. requiredYears is the job's minimum experience; zero or
// negative means the job states no requirement.
//
// Any panic inside the pipeline is converted to an error so a single
// malformed document cannot take down a scoring batch.
func (e *Engine) Score(ctx context.Context, jd string, requiredYears float64, resumeText string) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("scoring panicked", zap.Any("panic", r))
			result = nil
			err = fmt.Errorf("scoring failed: %v", r)
		}
	}()

	if isBlank(jd) {
		return nil, ErrEmptyJobDescription
	}
	if isBlank(resumeText) {
		return nil, ErrEmptyResume
	}

	semanticScore, err := e.semanticScore(ctx, jd, resumeText)
	if err != nil {
		return nil, err
	}

	jobSkills := e.extractor.Extract(skills.FocusJD(jd))
	resumeSkills := e.extractor.Extract(resumeText)
	skillScore := skills.MatchScore(resumeSkills, jobSkills)

	resumeYears := e.estimator.EstimateYears(resumeText)
	experienceScore := experienceScore(resumeYears, requiredYears)

	final := utils.Clamp01(e.weights.Semantic*semanticScore +
		e.weights.Skill*skillScore +
		e.weights.Experience*experienceScore)

	res := &Result{
		SemanticScore:   semanticScore,
		SkillScore:      skillScore,
		ExperienceScore: experienceScore,
		FinalScore:      final,
		JobSkills:       jobSkills.Sorted(),
		ResumeSkills:    resumeSkills.Sorted(),
		MatchedSkills:   matched(jobSkills, resumeSkills),
		ResumeYears:     resumeYears,
	}

	e.logger.Debug("scored resume",
		zap.Float64("semantic", semanticScore),
		zap.Float64("skill", skillScore),
		zap.Float64("experience", experienceScore),
		zap.Float64("final", final))

	return res, nil
}

// semanticScore uses the embedder when present and TF-IDF otherwise.
func (e *Engine) semanticScore(ctx context.Context, jd, resumeText string) (float64, error) {
	if e.embedder != nil {
		score, err := e.semantic.Similarity(ctx, jd, resumeText)
		if err != nil {
			return 0, fmt.Errorf("semantic similarity: %w", err)
		}
		return score, nil
	}
	return utils.Clamp01(tfidf.Similarity(e.normalizer.Terms(jd), e.normalizer.Terms(resumeText))), nil
}

// experienceScore maps the candidate's years onto [0, 1] relative to
// the job's requirement. Jobs without a requirement get a neutral 0.5
// so experience neither helps nor hurts much; candidates with no
// detectable experience against a real requirement get a small
// non-zero floor.
func experienceScore(resumeYears, requiredYears float64) float64 {
	switch {
	case requiredYears <= 0:
		return 0.5
	case resumeYears == 0:
		return 0.1
	default:
		ratio := resumeYears / requiredYears
		if ratio > 1 {
			return 1
		}
		return ratio
	}
}

func matched(jobSkills, resumeSkills skills.SkillSet) []string {
	common := make(skills.SkillSet)
	for term := range jobSkills {
		if resumeSkills.Has(term) {
			common.Add(term)
		}
	}
	return common.Sorted()
}

func isBlank(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return true
}
