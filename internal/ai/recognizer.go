// Package ai implements the optional entity recognizer on top of a hosted
// language model. The matcher treats it as one more skill detector.
package ai

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"google.golang.org/genai"

	"resumematch/internal/config"
	"resumematch/internal/errors"
	"resumematch/internal/skills"
)

const entityPrompt = `Extract the named entities and noun phrases from the document below.
Report organizations as ORG, software products, frameworks and tools as PRODUCT,
programming and natural languages as LANGUAGE, and any other noun phrase that could
name a professional skill as NOUN_PHRASE. Copy each span exactly as written.

Document:
%s`

// Generator sends one prompt to a model and returns the response text.
type Generator interface {
	Generate(ctx context.Context, prompt string, cfg *genai.GenerateContentConfig) (string, error)
}

// CallObserver is notified after every recognizer call.
type CallObserver interface {
	ObserveEntityCall(ctx context.Context, duration time.Duration, err error)
}

type geminiGenerator struct {
	client *genai.Client
	model  string
}

func (g *geminiGenerator) Generate(ctx context.Context, prompt string, cfg *genai.GenerateContentConfig) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), cfg)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

// Recognizer implements skills.EntityRecognizer.
type Recognizer struct {
	gen         Generator
	cfg         config.EntityConfig
	breaker     *Breaker
	observer    CallObserver
	logger      *errors.Logger
	backoffBase time.Duration
}

var _ skills.EntityRecognizer = (*Recognizer)(nil)

// Option configures a Recognizer.
type Option func(*Recognizer)

func WithObserver(o CallObserver) Option {
	return func(r *Recognizer) { r.observer = o }
}

func WithLogger(logger *errors.Logger) Option {
	return func(r *Recognizer) { r.logger = logger }
}

// WithBackoff sets the base delay between retries.
func WithBackoff(base time.Duration) Option {
	return func(r *Recognizer) { r.backoffBase = base }
}

// NewRecognizer wraps gen with timeout, retry and circuit breaking.
func NewRecognizer(gen Generator, cfg config.EntityConfig, opts ...Option) *Recognizer {
	r := &Recognizer{gen: gen, cfg: cfg, backoffBase: time.Second}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = errors.OrDiscard(r.logger)
	r.breaker = NewBreaker("entity-"+cfg.Provider, cfg.CircuitBreaker, r.logger)
	return r
}

// NewModelLoader returns a loader that connects to the configured provider.
// Load failures carry ErrCodeModelUnavailable.
func NewModelLoader(cfg config.EntityConfig, opts ...Option) skills.ModelLoader {
	return func() (skills.EntityRecognizer, error) {
		if cfg.Provider != "gemini" {
			return nil, errors.NewAIError(errors.ErrCodeModelUnavailable,
				fmt.Sprintf("unsupported entity provider: %s", cfg.Provider), nil)
		}
		if cfg.APIKey == "" {
			return nil, errors.NewAIError(errors.ErrCodeModelUnavailable, "entity API key is not configured", nil).
				WithContext("cause_code", errors.ErrCodeMissingAPIKey)
		}
		client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
			APIKey:  cfg.APIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, errors.NewAIError(errors.ErrCodeModelUnavailable, "failed to create Gemini client", err)
		}
		return NewRecognizer(&geminiGenerator{client: client, model: cfg.Model}, cfg, opts...), nil
	}
}

func (r *Recognizer) contentConfig() *genai.GenerateContentConfig {
	temperature := r.cfg.Temperature
	return &genai.GenerateContentConfig{
		Temperature:      &temperature,
		ResponseMIMEType: "application/json",
		ResponseSchema:   responseSchema(),
	}
}

// Recognize asks the model for entities in text. Errors are AppErrors with
// ErrCodeEntityTimeout, ErrCodeInvalidResponse or ErrCodeEntityFailed.
func (r *Recognizer) Recognize(ctx context.Context, text string) (entities []skills.Entity, err error) {
	ctx, span := otel.Tracer("resumematch.ai").Start(ctx, "entity.recognize")
	defer span.End()
	span.SetAttributes(
		attribute.String("ai.provider", r.cfg.Provider),
		attribute.String("ai.model", r.cfg.Model),
		attribute.Int("input.length", len(text)),
	)

	start := time.Now()
	defer func() {
		if r.observer != nil {
			r.observer.ObserveEntityCall(ctx, time.Since(start), err)
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetAttributes(attribute.Int("output.entities", len(entities)))
		}
	}()

	callCtx := ctx
	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}

	prompt := fmt.Sprintf(entityPrompt, text)
	raw, err := r.breaker.Execute(func() (string, error) {
		return withRetry(callCtx, r.cfg.MaxRetries, r.backoffBase, r.logger, func() (string, error) {
			return r.gen.Generate(callCtx, prompt, r.contentConfig())
		})
	})
	if err != nil {
		return nil, r.classify(err)
	}

	entities, err = decodeEntities(raw)
	if err != nil {
		return nil, errors.NewAIError(errors.ErrCodeInvalidResponse, "entity model returned an unusable response", err)
	}
	r.logger.Debug("entity recognition completed", "entities", len(entities), "duration", time.Since(start))
	return entities, nil
}

func (r *Recognizer) classify(err error) error {
	switch {
	case stderrors.Is(err, context.DeadlineExceeded):
		return errors.NewAIError(errors.ErrCodeEntityTimeout, "entity recognition timed out", err).
			WithContext("timeout", r.cfg.Timeout.String())
	case stderrors.Is(err, gobreaker.ErrOpenState), stderrors.Is(err, gobreaker.ErrTooManyRequests):
		return errors.NewAIError(errors.ErrCodeEntityFailed, "entity recognition circuit open", err)
	default:
		return errors.NewAIError(errors.ErrCodeEntityFailed, "entity recognition failed", err)
	}
}

// Stats reports circuit breaker state for health endpoints.
func (r *Recognizer) Stats() map[string]any {
	return map[string]any{
		"provider":        r.cfg.Provider,
		"model":           r.cfg.Model,
		"circuit_breaker": r.breaker.Stats(),
		"healthy":         r.breaker.IsHealthy(),
	}
}
