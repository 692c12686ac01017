// Package matcher composes the similarity, skill and suggestion engines into
// match reports and multi-resume rankings.
package matcher

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"resumematch/internal/errors"
	"resumematch/internal/similarity"
	"resumematch/internal/skills"
	"resumematch/internal/suggestions"
	"resumematch/internal/types"
)

// Rating bands.
const (
	RatingExcellent = "Excellent"
	RatingGood      = "Good"
	RatingModerate  = "Moderate"
	RatingPoor      = "Poor"
)

// Rate maps a 0-100 score to its band.
func Rate(score float64) string {
	switch {
	case score >= 90:
		return RatingExcellent
	case score >= 70:
		return RatingGood
	case score >= 50:
		return RatingModerate
	default:
		return RatingPoor
	}
}

// Config holds engine tuning.
type Config struct {
	Similarity          similarity.Config
	BatchConcurrency    int
	RecommendationLimit int
}

func DefaultConfig() Config {
	return Config{
		Similarity:          similarity.DefaultConfig(),
		BatchConcurrency:    4,
		RecommendationLimit: skills.DefaultRecommendationLimit,
	}
}

// Observer receives per-analysis measurements. The server wires it to
// OpenTelemetry metrics.
type Observer interface {
	ObserveAnalysis(ctx context.Context, operation string, duration time.Duration, score float64, skillsFound int)
}

// Engine runs analyses. It holds only read-only components and is safe for
// concurrent use.
type Engine struct {
	cfg        Config
	similarity *similarity.Engine
	extractor  *skills.Extractor
	entity     *skills.ModelProvider
	observer   Observer
	logger     *errors.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithEntityModel enables the entity detector.
func WithEntityModel(provider *skills.ModelProvider) Option {
	return func(e *Engine) {
		e.entity = provider
	}
}

func WithObserver(o Observer) Option {
	return func(e *Engine) {
		e.observer = o
	}
}

func WithLogger(logger *errors.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

func New(cfg Config, opts ...Option) *Engine {
	e := &Engine{cfg: cfg}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = errors.OrDiscard(e.logger)
	if e.cfg.BatchConcurrency <= 0 {
		e.cfg.BatchConcurrency = 1
	}
	if e.cfg.RecommendationLimit <= 0 {
		e.cfg.RecommendationLimit = skills.DefaultRecommendationLimit
	}

	e.similarity = similarity.New(cfg.Similarity, e.logger)
	extractorOpts := []skills.Option{
		skills.WithMaxInputChars(cfg.Similarity.MaxInputChars),
		skills.WithLogger(e.logger),
	}
	if e.entity != nil {
		extractorOpts = append(extractorOpts, skills.WithEntityModel(e.entity))
	}
	e.extractor = skills.NewExtractor(extractorOpts...)
	return e
}

func (e *Engine) observe(ctx context.Context, operation string, start time.Time, score float64, found int) {
	if e.observer != nil {
		e.observer.ObserveAnalysis(ctx, operation, time.Since(start), score, found)
	}
}

// Match compares one resume with a job description. The similarity score
// and both skill extractions run concurrently.
func (e *Engine) Match(ctx context.Context, resume, job string) (*types.MatchReport, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		score                   float64
		sections                map[string]float64
		resumeSkills, jobSkills []string
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		score = e.similarity.Compute(resume, job)
		sections = e.similarity.SectionSimilarities(resume, job)
		return gCtx.Err()
	})
	g.Go(func() error {
		resumeSkills = e.extractor.ExtractContext(gCtx, resume)
		return gCtx.Err()
	})
	g.Go(func() error {
		jobSkills = e.extractor.ExtractContext(gCtx, job)
		return gCtx.Err()
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	cmp := skills.Compare(resumeSkills, jobSkills)
	report := &types.MatchReport{
		ID:                 uuid.New().String(),
		Score:              score,
		Rating:             Rate(score),
		SectionScores:      sections,
		ResumeSkills:       resumeSkills,
		JobSkills:          jobSkills,
		MatchedSkills:      cmp.Matched,
		MissingSkills:      cmp.Missing,
		MatchPercentage:    cmp.MatchPercentage(),
		CategorizedMissing: skills.CategorizeAll(cmp.Missing),
		Recommendations:    skills.Recommend(cmp.Missing, e.cfg.RecommendationLimit),
		Suggestions:        suggestions.Generate(resume, job, cmp.Missing),
	}

	e.logger.Debug("match completed",
		"report_id", report.ID,
		"score", report.Score,
		"matched", len(cmp.Matched),
		"missing", len(cmp.Missing),
	)
	e.observe(ctx, "match", start, score, len(resumeSkills)+len(jobSkills))
	return report, nil
}

// Rank matches every resume against the job with bounded concurrency and
// orders the results by score, best first. Equal scores keep input order.
func (e *Engine) Rank(ctx context.Context, resumes []types.NamedDocument, job string) (*types.RankingReport, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	jobSkills := e.extractor.ExtractContext(ctx, job)
	results := make([]types.RankedResume, len(resumes))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.BatchConcurrency)
	for i, doc := range resumes {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			score := e.similarity.Compute(doc.Text, job)
			cmp := skills.Compare(e.extractor.ExtractContext(gCtx, doc.Text), jobSkills)
			results[i] = types.RankedResume{
				Name:            doc.Name,
				Score:           score,
				Rating:          Rate(score),
				MatchPercentage: cmp.MatchPercentage(),
				MatchedCount:    len(cmp.Matched),
				MissingCount:    len(cmp.Missing),
				MatchedSkills:   cmp.Matched,
				MissingSkills:   cmp.Missing,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	report := &types.RankingReport{
		ID:      uuid.New().String(),
		Results: results,
	}
	if len(results) > 0 {
		var sum float64
		for i := range results {
			results[i].Rank = i + 1
			sum += results[i].Score
		}
		report.BestScore = results[0].Score
		report.LowestScore = results[len(results)-1].Score
		report.AverageScore = sum / float64(len(results))
	}

	e.logger.Debug("ranking completed", "report_id", report.ID, "resumes", len(results))
	e.observe(ctx, "rank", start, report.BestScore, len(jobSkills))
	return report, nil
}

// ExtractSkills returns the skills of text grouped by category.
func (e *Engine) ExtractSkills(ctx context.Context, text string) *types.SkillsResult {
	start := time.Now()
	found := e.extractor.ExtractContext(ctx, text)
	e.observe(ctx, "skills", start, 0, len(found))
	return &types.SkillsResult{
		Skills:      found,
		Count:       len(found),
		Categorized: skills.CategorizeAll(found),
	}
}

// Similarity scores two texts, optionally per section.
func (e *Engine) Similarity(ctx context.Context, a, b string, sections bool) *types.SimilarityResult {
	start := time.Now()
	score := e.similarity.Compute(a, b)
	result := &types.SimilarityResult{Score: score, Rating: Rate(score)}
	if sections {
		result.SectionScores = e.similarity.SectionSimilarities(a, b)
	}
	e.observe(ctx, "similarity", start, score, 0)
	return result
}

// Suggest generates improvement suggestions. A nil missing list is derived
// by extracting and comparing the skills of both documents.
func (e *Engine) Suggest(ctx context.Context, resume, job string, missing []string) *types.SuggestionsResult {
	start := time.Now()
	if missing == nil {
		missing = skills.Compare(
			e.extractor.ExtractContext(ctx, resume),
			e.extractor.ExtractContext(ctx, job),
		).Missing
	}
	report := suggestions.Generate(resume, job, missing)
	e.observe(ctx, "suggestions", start, 0, len(missing))
	return &types.SuggestionsResult{MissingSkills: missing, Suggestions: report}
}

// Info describes the engine configuration.
func (e *Engine) Info() *types.EngineInfo {
	return &types.EngineInfo{
		Similarity:      e.similarity.Info(),
		Detectors:       e.extractor.Detectors(),
		EntityEnabled:   e.entity != nil,
		EntityAvailable: e.extractor.EntityAvailable(),
		DictionarySize:  len(skills.KnownSkills()),
		Categories:      len(skills.AllCategories),
		SynonymGroups:   skills.SynonymGroups(),
	}
}

// EntityStats returns runtime stats of the entity recognizer, or nil when
// the detector is disabled, not loaded or reports nothing.
func (e *Engine) EntityStats() map[string]any {
	model, ok := e.entity.Model()
	if !ok {
		return nil
	}
	if s, ok := model.(interface{ Stats() map[string]any }); ok {
		return s.Stats()
	}
	return nil
}
