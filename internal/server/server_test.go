package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumematch/internal/config"
	"resumematch/internal/matcher"
	"resumematch/internal/observability"
	"resumematch/internal/types"
)

const (
	resumeText = `Summary: backend engineer.
Experience: 5 years experience with Python, AWS, and team leadership.
Skills: Python, SQL, Git`

	jobText = "Looking for a Python developer with AWS and Docker experience, strong communication skills"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:           "127.0.0.1",
			Port:           "0",
			MaxRequestSize: 1 << 20,
			TLS:            config.TLSConfig{Mode: "disabled"},
		},
	}
}

func newTestServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()
	s := New(cfg, matcher.New(matcher.DefaultConfig()), nil, "test", nil)
	t.Cleanup(s.cleanup)
	return s
}

func do(t *testing.T, h http.Handler, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHealthAndStats(t *testing.T) {
	h := newTestServer(t, testConfig()).Handler()

	rec := do(t, h, http.MethodGet, "/health", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var health map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health["status"])
	assert.Equal(t, "test", health["version"])
	entity, ok := health["entity_detector"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, false, entity["enabled"])
	assert.NotContains(t, health, "certificates")

	rec = do(t, h, http.MethodGet, "/stats", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"rate_limiting":{"enabled":false}`)
}

func TestMatchEndpoint(t *testing.T) {
	h := newTestServer(t, testConfig()).Handler()

	rec := do(t, h, http.MethodPost, "/match", types.MatchInput{Resume: resumeText, JobDescription: jobText}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var report types.MatchReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.NotEmpty(t, report.ID)
	assert.Subset(t, report.MatchedSkills, []string{"Python", "AWS"})
	assert.Contains(t, report.MissingSkills, "Docker")
	assert.Equal(t, matcher.Rate(report.Score), report.Rating)
}

func TestRankEndpoint(t *testing.T) {
	h := newTestServer(t, testConfig()).Handler()

	input := types.RankInput{
		JobDescription: jobText,
		Resumes: []types.NamedDocument{
			{Name: "unrelated.txt", Text: "Pastry chef with a passion for sourdough and laminated doughs"},
			{Name: "backend.txt", Text: resumeText},
		},
	}
	rec := do(t, h, http.MethodPost, "/rank", input, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var report types.RankingReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	require.Len(t, report.Results, 2)
	assert.Equal(t, "backend.txt", report.Results[0].Name)
	assert.Equal(t, 1, report.Results[0].Rank)
}

func TestSkillsSimilarityAndSuggestions(t *testing.T) {
	h := newTestServer(t, testConfig()).Handler()

	rec := do(t, h, http.MethodPost, "/skills", types.SkillsInput{Text: resumeText}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var skillsResult types.SkillsResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &skillsResult))
	assert.Contains(t, skillsResult.Skills, "Python")

	rec = do(t, h, http.MethodPost, "/similarity", types.SimilarityInput{TextA: jobText, TextB: jobText, Sections: true}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var sim types.SimilarityResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sim))
	assert.InDelta(t, 100.0, sim.Score, 0.01)

	rec = do(t, h, http.MethodPost, "/suggestions", types.SuggestionsInput{
		Resume:         resumeText,
		JobDescription: jobText,
		MissingSkills:  []string{"Kubernetes"},
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var sugg types.SuggestionsResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sugg))
	assert.Equal(t, []string{"Kubernetes"}, sugg.MissingSkills)

	rec = do(t, h, http.MethodGet, "/info", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"detectors"`)
}

func TestRequestValidation(t *testing.T) {
	h := newTestServer(t, testConfig()).Handler()

	rec := do(t, h, http.MethodPost, "/match", map[string]string{"resume": resumeText}, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "INVALID_REQUEST", resp.Code)
	assert.Equal(t, "jobDescription is required", resp.Message)

	rec = do(t, h, http.MethodPost, "/rank", types.RankInput{JobDescription: jobText}, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/skills", strings.NewReader(`{"text":"Go"}`))
	req.Header.Set("Content-Type", "text/plain")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec).Message, "application/json")

	req = httptest.NewRequest(http.MethodPost, "/skills", strings.NewReader(`{"text":`))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/match", nil, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRequestSizeLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Server.MaxRequestSize = 64
	h := newTestServer(t, cfg).Handler()

	rec := do(t, h, http.MethodPost, "/skills", types.SkillsInput{Text: strings.Repeat("python ", 50)}, nil)
	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "REQUEST_TOO_LARGE", decodeError(t, rec).Code)
}

func TestAuthentication(t *testing.T) {
	cfg := testConfig()
	cfg.Server.APIKeys = []string{"secret-key-123456"}
	h := newTestServer(t, cfg).Handler()
	body := types.SkillsInput{Text: resumeText}

	rec := do(t, h, http.MethodPost, "/skills", body, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Missing API key", decodeError(t, rec).Error)

	rec = do(t, h, http.MethodPost, "/skills", body, map[string]string{"X-API-Key": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodPost, "/skills", body, map[string]string{"X-API-Key": "secret-key-123456"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodPost, "/skills", body, map[string]string{"Authorization": "Bearer secret-key-123456"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimiting(t *testing.T) {
	cfg := testConfig()
	cfg.Server.RateLimit = config.RateLimitConfig{Enabled: true, RequestsPerMin: 1, BurstCapacity: 1, ByIP: true}
	h := newTestServer(t, cfg).Handler()
	body := types.SkillsInput{Text: "Go"}

	rec := do(t, h, http.MethodPost, "/skills", body, map[string]string{"X-Forwarded-For": "203.0.113.7"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodPost, "/skills", body, map[string]string{"X-Forwarded-For": "203.0.113.7"})
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))

	rec = do(t, h, http.MethodPost, "/skills", body, map[string]string{"X-Forwarded-For": "198.51.100.2"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	obsCfg := config.ObservabilityConfig{
		Enabled:     true,
		ServiceName: "resumematch-test",
		SampleRate:  1,
		Prometheus:  config.PrometheusConfig{Enabled: true, Endpoint: "/metrics"},
	}
	obs, err := observability.NewManager(obsCfg, "test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = obs.Shutdown(context.Background()) })

	engine := matcher.New(matcher.DefaultConfig(), matcher.WithObserver(obs))
	s := New(testConfig(), engine, obs, "test", nil)
	t.Cleanup(s.cleanup)
	h := s.Handler()

	rec := do(t, h, http.MethodPost, "/similarity", types.SimilarityInput{TextA: resumeText, TextB: jobText}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/metrics", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "resumematch_analyses")
}

func TestStartAndShutdown(t *testing.T) {
	s := newTestServer(t, testConfig())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	cancel()
	assert.NoError(t, <-done)
}

func TestGetRateLimitKey(t *testing.T) {
	tests := []struct {
		name     string
		headers  map[string]string
		byAPIKey bool
		byIP     bool
		wantKey  string
		wantBy   string
	}{
		{"api key header", map[string]string{"X-API-Key": "abc"}, true, true, "api:abc", "api_key"},
		{"bearer token", map[string]string{"Authorization": "Bearer xyz"}, true, false, "api:xyz", "api_key"},
		{"falls back to ip", nil, true, true, "ip:192.0.2.1", "ip"},
		{"forwarded ip", map[string]string{"X-Forwarded-For": "bogus, 203.0.113.9"}, false, true, "ip:203.0.113.9", "ip"},
		{"disabled", map[string]string{"X-API-Key": "abc"}, false, false, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = "192.0.2.1:1234"
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			key, by := getRateLimitKey(req, tt.byAPIKey, tt.byIP)
			assert.Equal(t, tt.wantKey, key)
			assert.Equal(t, tt.wantBy, by)
		})
	}
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "****", maskAPIKey("short"))
	assert.Equal(t, "abcdefgh****", maskAPIKey("abcdefghijkl"))
}
