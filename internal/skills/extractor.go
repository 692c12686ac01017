package skills

import (
	"context"
	"sort"
	"strings"

	"resumematch/internal/errors"
	"resumematch/internal/similarity"
)

// Extractor unions the mentions of its detectors. It holds no per-call state
// and is safe for concurrent use.
type Extractor struct {
	detectors     []Detector
	entity        *ModelProvider
	maxInputChars int
	logger        *errors.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithEntityModel enables the entity detector backed by provider.
func WithEntityModel(provider *ModelProvider) Option {
	return func(e *Extractor) {
		e.entity = provider
	}
}

// WithMaxInputChars caps the text scanned per call.
func WithMaxInputChars(n int) Option {
	return func(e *Extractor) {
		e.maxInputChars = n
	}
}

func WithLogger(logger *errors.Logger) Option {
	return func(e *Extractor) {
		e.logger = logger
	}
}

func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = errors.OrDiscard(e.logger)
	e.detectors = []Detector{NewDictionaryDetector(), NewContextDetector()}
	if e.entity != nil {
		e.detectors = append(e.detectors, NewEntityDetector(e.entity, e.logger))
	}
	return e
}

// EntityAvailable reports whether the entity detector has a loaded model.
func (e *Extractor) EntityAvailable() bool {
	return e.entity.Available()
}

// Detectors returns the names of the configured detectors.
func (e *Extractor) Detectors() []string {
	names := make([]string, len(e.detectors))
	for i, d := range e.detectors {
		names[i] = d.Name()
	}
	return names
}

// Extract returns the skills found in text ordered by first mention,
// deduplicated ignoring case and keeping the first casing seen.
func (e *Extractor) Extract(text string) []string {
	return e.ExtractContext(context.Background(), text)
}

// ExtractContext is Extract with a context for the entity detector.
func (e *Extractor) ExtractContext(ctx context.Context, text string) []string {
	text = similarity.Truncate(text, e.maxInputChars)
	if strings.TrimSpace(text) == "" {
		return []string{}
	}

	var mentions []Mention
	for _, d := range e.detectors {
		found := d.Detect(ctx, text)
		e.logger.Debug("detector finished", "detector", d.Name(), "mentions", len(found))
		mentions = append(mentions, found...)
	}
	sort.SliceStable(mentions, func(i, j int) bool {
		return mentions[i].Offset < mentions[j].Offset
	})

	seen := make(map[string]struct{}, len(mentions))
	skills := make([]string, 0, len(mentions))
	for _, m := range mentions {
		key := strings.ToLower(m.Text)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		skills = append(skills, m.Text)
	}
	return skills
}
