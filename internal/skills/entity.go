package skills

import (
	"context"
	stderrors "errors"
	"sync"

	"resumematch/internal/errors"
)

// Entity labels accepted by the entity detector.
const (
	LabelOrganization = "ORG"
	LabelProduct      = "PRODUCT"
	LabelLanguage     = "LANGUAGE"
	LabelNounPhrase   = "NOUN_PHRASE"
)

// Entity is a span reported by an EntityRecognizer.
type Entity struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

// EntityRecognizer finds named entities and noun phrases in text.
type EntityRecognizer interface {
	Recognize(ctx context.Context, text string) ([]Entity, error)
}

// ModelLoader constructs an EntityRecognizer. It is called at most once.
type ModelLoader func() (EntityRecognizer, error)

// ModelProvider lazily loads a recognizer the first time it is needed and
// shares it read-only afterwards. A failed load leaves the provider absent
// for the rest of the process.
type ModelProvider struct {
	load   ModelLoader
	logger *errors.Logger

	once  sync.Once
	model EntityRecognizer
	err   error
}

func NewModelProvider(load ModelLoader, logger *errors.Logger) *ModelProvider {
	return &ModelProvider{load: load, logger: errors.OrDiscard(logger)}
}

// StaticModel wraps an already constructed recognizer.
func StaticModel(model EntityRecognizer) *ModelProvider {
	return NewModelProvider(func() (EntityRecognizer, error) { return model, nil }, nil)
}

// Model returns the loaded recognizer, loading it on first use.
func (p *ModelProvider) Model() (EntityRecognizer, bool) {
	if p == nil {
		return nil, false
	}
	p.once.Do(p.init)
	return p.model, p.model != nil
}

// Available reports whether a recognizer could be loaded.
func (p *ModelProvider) Available() bool {
	_, ok := p.Model()
	return ok
}

func (p *ModelProvider) init() {
	if p.load == nil {
		p.err = errors.NewEngineError(errors.ErrCodeModelUnavailable, "no entity model configured", nil)
	} else {
		p.model, p.err = p.load()
		if p.err == nil && p.model == nil {
			p.err = errors.NewEngineError(errors.ErrCodeModelUnavailable, "entity model loader returned nothing", nil)
		}
	}
	if p.err != nil {
		p.model = nil
		var appErr *errors.AppError
		if !stderrors.As(p.err, &appErr) {
			appErr = errors.NewEngineError(errors.ErrCodeModelUnavailable, "failed to load entity model", p.err)
		}
		p.err = appErr
		p.logger.LogWarning(appErr, "entity detector unavailable, using dictionary and context detectors only")
		return
	}
	p.logger.Info("entity model loaded")
}

// Err returns the load error, if any. It triggers loading.
func (p *ModelProvider) Err() error {
	if p == nil {
		return nil
	}
	p.once.Do(p.init)
	return p.err
}
