package config

import (
	"fmt"

	"resumematch/internal/matcher"
	"resumematch/internal/similarity"
)

// Validate checks engine ranges.
func (e EngineConfig) Validate() error {
	s := e.Similarity
	switch {
	case s.MaxFeatures <= 0:
		return fmt.Errorf("similarity maxFeatures must be positive, got %d", s.MaxFeatures)
	case s.NgramMax < 1 || s.NgramMax > 3:
		return fmt.Errorf("similarity ngramMax must be between 1 and 3, got %d", s.NgramMax)
	case s.MinDF < 1:
		return fmt.Errorf("similarity minDF must be at least 1, got %d", s.MinDF)
	case s.MaxDF <= 0 || s.MaxDF > 1:
		return fmt.Errorf("similarity maxDF must be in (0, 1], got %g", s.MaxDF)
	case e.BatchConcurrency <= 0:
		return fmt.Errorf("batchConcurrency must be positive, got %d", e.BatchConcurrency)
	case e.MaxInputChars < 0:
		return fmt.Errorf("maxInputChars must not be negative, got %d", e.MaxInputChars)
	case e.RecommendationLimit < 0:
		return fmt.Errorf("recommendationLimit must not be negative, got %d", e.RecommendationLimit)
	}
	return nil
}

// MatcherConfig converts the engine section into matcher tuning.
func (e EngineConfig) MatcherConfig() matcher.Config {
	return matcher.Config{
		Similarity: similarity.Config{
			Vectorizer: similarity.VectorizerConfig{
				MaxFeatures: e.Similarity.MaxFeatures,
				NgramMax:    e.Similarity.NgramMax,
				MinDF:       e.Similarity.MinDF,
				MaxDF:       e.Similarity.MaxDF,
			},
			MaxInputChars: e.MaxInputChars,
		},
		BatchConcurrency:    e.BatchConcurrency,
		RecommendationLimit: e.RecommendationLimit,
	}
}

// Validate checks the entity detector section. The API key is only
// required once the detector is enabled.
func (e EntityConfig) Validate() error {
	return e.validate(true)
}

func (e EntityConfig) validate(requireKey bool) error {
	if !e.Enabled {
		return nil
	}
	if e.Provider != "gemini" {
		return fmt.Errorf("unsupported entity provider: %s", e.Provider)
	}
	if requireKey && e.APIKey == "" {
		return fmt.Errorf("entity API key is required when the entity detector is enabled (set %s_ENTITY_APIKEY)", EnvPrefix)
	}
	if e.Model == "" {
		return fmt.Errorf("entity model is required")
	}
	if e.Timeout <= 0 {
		return fmt.Errorf("entity timeout must be positive")
	}
	if e.MaxRetries < 0 {
		return fmt.Errorf("entity maxRetries must not be negative")
	}
	cb := e.CircuitBreaker
	if cb.Enabled && (cb.FailureThreshold <= 0 || cb.FailureThreshold > 1) {
		return fmt.Errorf("circuit breaker failureThreshold must be in (0, 1], got %g", cb.FailureThreshold)
	}
	return nil
}
