// Package similarity scores the lexical overlap of two documents with TF-IDF
// vectors and cosine similarity.
package similarity

import (
	"math"

	"resumematch/internal/errors"
)

// Config bounds the work done per comparison.
type Config struct {
	Vectorizer    VectorizerConfig
	MaxInputChars int
}

// DefaultConfig returns the settings used when none are configured.
func DefaultConfig() Config {
	return Config{
		Vectorizer:    DefaultVectorizerConfig(),
		MaxInputChars: 100000,
	}
}

// Engine computes similarity scores. It is safe for concurrent use.
type Engine struct {
	vectorizer    *Vectorizer
	maxInputChars int
	logger        *errors.Logger
}

// Info describes the engine parameters.
type Info struct {
	Method        string  `json:"method"`
	MaxFeatures   int     `json:"maxFeatures"`
	NgramRange    [2]int  `json:"ngramRange"`
	MinDF         int     `json:"minDF"`
	MaxDF         float64 `json:"maxDF"`
	MaxInputChars int     `json:"maxInputChars"`
}

func New(cfg Config, logger *errors.Logger) *Engine {
	return &Engine{
		vectorizer:    NewVectorizer(cfg.Vectorizer),
		maxInputChars: cfg.MaxInputChars,
		logger:        errors.OrDiscard(logger),
	}
}

// Compute returns the similarity of a and b scaled to [0, 100]. Either input
// normalizing to the empty string yields 0.
func (e *Engine) Compute(a, b string) float64 {
	na := Normalize(Truncate(a, e.maxInputChars))
	nb := Normalize(Truncate(b, e.maxInputChars))
	if na == "" || nb == "" {
		e.logger.Debug("similarity on empty input", "error_code", errors.ErrCodeEmptyInput)
		return 0
	}

	m := e.vectorizer.FitTransform([]string{na, nb})
	return clampScore(Cosine(m.Rows[0], m.Rows[1]) * 100)
}

// Batch compares every text in texts against reference.
func (e *Engine) Batch(texts []string, reference string) []float64 {
	scores := make([]float64, len(texts))
	for i, text := range texts {
		scores[i] = e.Compute(text, reference)
	}
	return scores
}

// Info reports the configured parameters.
func (e *Engine) Info() Info {
	cfg := e.vectorizer.Config()
	return Info{
		Method:        "tf-idf",
		MaxFeatures:   cfg.MaxFeatures,
		NgramRange:    [2]int{1, cfg.NgramMax},
		MinDF:         cfg.MinDF,
		MaxDF:         cfg.MaxDF,
		MaxInputChars: e.maxInputChars,
	}
}

func clampScore(score float64) float64 {
	if math.IsNaN(score) || score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
