package cli

import (
	"resumematch/internal/ai"
	"resumematch/internal/config"
	"resumematch/internal/errors"
	"resumematch/internal/matcher"
	"resumematch/internal/observability"
	"resumematch/internal/skills"
)

// newEngine builds the matcher from configuration. obs may be nil.
func newEngine(cfg *config.Config, logger *errors.Logger, obs *observability.Manager) *matcher.Engine {
	opts := []matcher.Option{matcher.WithLogger(logger)}
	if obs != nil {
		opts = append(opts, matcher.WithObserver(obs))
	}

	if cfg.Entity.Enabled {
		aiOpts := []ai.Option{ai.WithLogger(logger)}
		if obs != nil {
			aiOpts = append(aiOpts, ai.WithObserver(obs))
		}
		provider := skills.NewModelProvider(ai.NewModelLoader(cfg.Entity, aiOpts...), logger)
		opts = append(opts, matcher.WithEntityModel(provider))
		logger.Info("Entity detector enabled", "provider", cfg.Entity.Provider, "model", cfg.Entity.Model)
	}

	return matcher.New(cfg.Engine.MatcherConfig(), opts...)
}
