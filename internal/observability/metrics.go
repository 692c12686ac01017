package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"resumematch/internal/errors"
)

// Metrics holds the service instruments.
type Metrics struct {
	AnalysisCount    metric.Int64Counter
	AnalysisDuration metric.Float64Histogram
	SimilarityScore  metric.Float64Histogram
	SkillsExtracted  metric.Int64Counter

	EntityCalls    metric.Int64Counter
	EntityErrors   metric.Int64Counter
	EntityDuration metric.Float64Histogram

	RateLimitHits   metric.Int64Counter
	CertReloadCount metric.Int64Counter
	CertExpiryTime  metric.Float64Gauge
}

func newMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	if m.AnalysisCount, err = meter.Int64Counter(
		"resumematch_analyses_total",
		metric.WithDescription("Total number of analyses by operation"),
	); err != nil {
		return nil, fmt.Errorf("failed to create analysis count metric: %w", err)
	}
	if m.AnalysisDuration, err = meter.Float64Histogram(
		"resumematch_analysis_duration_seconds",
		metric.WithDescription("Time spent per analysis"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("failed to create analysis duration metric: %w", err)
	}
	if m.SimilarityScore, err = meter.Float64Histogram(
		"resumematch_similarity_score",
		metric.WithDescription("Distribution of similarity percentages"),
		metric.WithExplicitBucketBoundaries(10, 20, 30, 40, 50, 60, 70, 80, 90, 100),
	); err != nil {
		return nil, fmt.Errorf("failed to create similarity score metric: %w", err)
	}
	if m.SkillsExtracted, err = meter.Int64Counter(
		"resumematch_skills_extracted_total",
		metric.WithDescription("Total number of skills found across analyses"),
	); err != nil {
		return nil, fmt.Errorf("failed to create skills extracted metric: %w", err)
	}

	if m.EntityCalls, err = meter.Int64Counter(
		"resumematch_entity_requests_total",
		metric.WithDescription("Total number of entity recognizer calls"),
	); err != nil {
		return nil, fmt.Errorf("failed to create entity request metric: %w", err)
	}
	if m.EntityErrors, err = meter.Int64Counter(
		"resumematch_entity_errors_total",
		metric.WithDescription("Total number of failed entity recognizer calls"),
	); err != nil {
		return nil, fmt.Errorf("failed to create entity error metric: %w", err)
	}
	if m.EntityDuration, err = meter.Float64Histogram(
		"resumematch_entity_duration_seconds",
		metric.WithDescription("Time spent in entity recognizer calls"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("failed to create entity duration metric: %w", err)
	}

	if m.RateLimitHits, err = meter.Int64Counter(
		"resumematch_rate_limit_hits_total",
		metric.WithDescription("Total number of rate limited requests"),
	); err != nil {
		return nil, fmt.Errorf("failed to create rate limit metric: %w", err)
	}
	if m.CertReloadCount, err = meter.Int64Counter(
		"resumematch_cert_reloads_total",
		metric.WithDescription("Total number of certificate reloads"),
	); err != nil {
		return nil, fmt.Errorf("failed to create certificate reload metric: %w", err)
	}
	if m.CertExpiryTime, err = meter.Float64Gauge(
		"resumematch_cert_expiry_seconds",
		metric.WithDescription("Seconds until certificate expiry"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("failed to create certificate expiry metric: %w", err)
	}
	return m, nil
}

// operations whose score is a similarity percentage
var scoredOperations = map[string]bool{
	"match":      true,
	"rank":       true,
	"similarity": true,
}

// ObserveAnalysis implements matcher.Observer.
func (m *Manager) ObserveAnalysis(ctx context.Context, operation string, duration time.Duration, score float64, skillsFound int) {
	if m == nil || m.metrics == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("operation", operation))
	m.metrics.AnalysisCount.Add(ctx, 1, attrs)
	m.metrics.AnalysisDuration.Record(ctx, duration.Seconds(), attrs)
	if scoredOperations[operation] {
		m.metrics.SimilarityScore.Record(ctx, score, attrs)
	}
	if skillsFound > 0 {
		m.metrics.SkillsExtracted.Add(ctx, int64(skillsFound), attrs)
	}
}

// ObserveEntityCall implements ai.CallObserver.
func (m *Manager) ObserveEntityCall(ctx context.Context, duration time.Duration, err error) {
	if m == nil || m.metrics == nil || !m.config.Metrics.TrackEntityCalls {
		return
	}
	attrs := []attribute.KeyValue{attribute.Bool("success", err == nil)}
	m.metrics.EntityCalls.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.metrics.EntityDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
	if err != nil {
		attrs = append(attrs, attribute.String("code", errorCode(err)))
		m.metrics.EntityErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// RecordRateLimitHit counts a rejected request. by names the limiter key
// kind ("ip" or "api_key").
func (m *Manager) RecordRateLimitHit(ctx context.Context, by string) {
	if m == nil || m.metrics == nil || !m.config.Metrics.TrackRateLimits {
		return
	}
	m.metrics.RateLimitHits.Add(ctx, 1, metric.WithAttributes(attribute.String("limited_by", by)))
}

// RecordCertReload counts a certificate reload attempt.
func (m *Manager) RecordCertReload(ctx context.Context, success bool) {
	if m == nil || m.metrics == nil {
		return
	}
	m.metrics.CertReloadCount.Add(ctx, 1, metric.WithAttributes(attribute.Bool("success", success)))
}

// RecordCertExpiry records the time left on the serving certificate.
func (m *Manager) RecordCertExpiry(ctx context.Context, notAfter time.Time) {
	if m == nil || m.metrics == nil {
		return
	}
	m.metrics.CertExpiryTime.Record(ctx, time.Until(notAfter).Seconds())
}

func errorCode(err error) string {
	if code := errors.CodeOf(err); code != "" {
		return code
	}
	return "UNKNOWN"
}
