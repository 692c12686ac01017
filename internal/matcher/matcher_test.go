package matcher

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumematch/internal/skills"
	"resumematch/internal/suggestions"
	"resumematch/internal/types"
)

const (
	resumeText = `Summary: backend engineer.
Experience: 5 years experience with Python, AWS, and team leadership.
Skills: Python, SQL, Git`

	jobText = "Looking for a Python developer with AWS and Docker experience, strong communication skills"
)

type recordingObserver struct {
	mu         sync.Mutex
	operations []string
}

func (r *recordingObserver) ObserveAnalysis(_ context.Context, operation string, _ time.Duration, _ float64, _ int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.operations = append(r.operations, operation)
}

func TestRate(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{100, RatingExcellent},
		{90, RatingExcellent},
		{89.9, RatingGood},
		{70, RatingGood},
		{50, RatingModerate},
		{49.99, RatingPoor},
		{0, RatingPoor},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Rate(tt.score), "score %v", tt.score)
	}
}

func TestMatch(t *testing.T) {
	observer := &recordingObserver{}
	engine := New(DefaultConfig(), WithObserver(observer))

	report, err := engine.Match(context.Background(), resumeText, jobText)
	require.NoError(t, err)

	_, err = uuid.Parse(report.ID)
	assert.NoError(t, err)
	assert.GreaterOrEqual(t, report.Score, 0.0)
	assert.LessOrEqual(t, report.Score, 100.0)
	assert.Equal(t, Rate(report.Score), report.Rating)

	assert.Subset(t, report.MatchedSkills, []string{"Python", "AWS"})
	assert.Subset(t, report.MissingSkills, []string{"Docker", "communication"})
	assert.InDelta(t, 50.0, report.MatchPercentage, 1e-9)
	assert.Equal(t, []string{"Docker"}, report.CategorizedMissing[skills.CloudPlatforms])
	assert.Equal(t, []string{"communication"}, report.CategorizedMissing[skills.SoftSkills])
	assert.NotEmpty(t, report.Recommendations)
	assert.LessOrEqual(t, len(report.Recommendations), skills.DefaultRecommendationLimit)
	assert.Len(t, report.Suggestions, len(suggestions.Categories))
	assert.NotEqual(t, []string{suggestions.AllSkillsPresent}, report.Suggestions[suggestions.MissingSkills])

	assert.Equal(t, []string{"match"}, observer.operations)
}

func TestMatchIdenticalDocuments(t *testing.T) {
	engine := New(DefaultConfig())

	report, err := engine.Match(context.Background(), jobText, jobText)
	require.NoError(t, err)
	assert.InDelta(t, 100, report.Score, 1e-6)
	assert.Equal(t, RatingExcellent, report.Rating)
	assert.Empty(t, report.MissingSkills)
	assert.Equal(t, []string{suggestions.AllSkillsPresent}, report.Suggestions[suggestions.MissingSkills])
}

func TestMatchEmptyInput(t *testing.T) {
	engine := New(DefaultConfig())

	report, err := engine.Match(context.Background(), "", "")
	require.NoError(t, err)
	assert.Zero(t, report.Score)
	assert.Empty(t, report.ResumeSkills)
	assert.Empty(t, report.JobSkills)
	assert.Zero(t, report.MatchPercentage)
}

func TestMatchCancelled(t *testing.T) {
	engine := New(DefaultConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.Match(ctx, resumeText, jobText)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRank(t *testing.T) {
	engine := New(DefaultConfig())
	resumes := []types.NamedDocument{
		{Name: "weak.txt", Text: "Florist with ten years arranging bouquets."},
		{Name: "strong.txt", Text: jobText},
		{Name: "mid.txt", Text: resumeText},
		{Name: "weak-copy.txt", Text: "Florist with ten years arranging bouquets."},
	}

	report, err := engine.Rank(context.Background(), resumes, jobText)
	require.NoError(t, err)
	require.Len(t, report.Results, 4)

	names := make([]string, len(report.Results))
	for i, r := range report.Results {
		names[i] = r.Name
		assert.Equal(t, i+1, r.Rank)
		assert.Equal(t, len(r.MatchedSkills), r.MatchedCount)
		assert.Equal(t, len(r.MissingSkills), r.MissingCount)
	}
	assert.Equal(t, []string{"strong.txt", "mid.txt", "weak.txt", "weak-copy.txt"}, names)

	assert.Equal(t, report.Results[0].Score, report.BestScore)
	assert.Equal(t, report.Results[3].Score, report.LowestScore)
	var sum float64
	for _, r := range report.Results {
		sum += r.Score
	}
	assert.InDelta(t, sum/4, report.AverageScore, 1e-9)
}

func TestRankEmpty(t *testing.T) {
	engine := New(DefaultConfig())

	report, err := engine.Rank(context.Background(), nil, jobText)
	require.NoError(t, err)
	assert.Empty(t, report.Results)
	assert.Zero(t, report.BestScore)
}

func TestExtractSkills(t *testing.T) {
	engine := New(DefaultConfig())

	result := engine.ExtractSkills(context.Background(), "Go, Kubernetes and leadership")
	assert.Equal(t, []string{"Go", "Kubernetes", "leadership"}, result.Skills)
	assert.Equal(t, 3, result.Count)
	assert.Equal(t, []string{"Kubernetes"}, result.Categorized[skills.CloudPlatforms])
}

func TestSimilarity(t *testing.T) {
	engine := New(DefaultConfig())

	result := engine.Similarity(context.Background(), resumeText, jobText, true)
	assert.Equal(t, Rate(result.Score), result.Rating)
	assert.NotEmpty(t, result.SectionScores)

	result = engine.Similarity(context.Background(), resumeText, jobText, false)
	assert.Nil(t, result.SectionScores)
}

func TestSuggest(t *testing.T) {
	engine := New(DefaultConfig())

	derived := engine.Suggest(context.Background(), resumeText, jobText, nil)
	assert.Subset(t, derived.MissingSkills, []string{"Docker", "communication"})

	given := engine.Suggest(context.Background(), resumeText, jobText, []string{})
	assert.Equal(t, []string{suggestions.AllSkillsPresent}, given.Suggestions[suggestions.MissingSkills])
}

type staticRecognizer struct{}

func (staticRecognizer) Recognize(context.Context, string) ([]skills.Entity, error) {
	return []skills.Entity{{Text: "FaunaDB", Label: skills.LabelProduct}}, nil
}

func TestEntityModelWiring(t *testing.T) {
	engine := New(DefaultConfig(), WithEntityModel(skills.StaticModel(staticRecognizer{})))

	info := engine.Info()
	assert.True(t, info.EntityEnabled)
	assert.True(t, info.EntityAvailable)
	assert.Equal(t, []string{"dictionary", "context", "entity"}, info.Detectors)

	result := engine.ExtractSkills(context.Background(), "We store data in FaunaDB")
	assert.True(t, strings.EqualFold("FaunaDB", result.Skills[0]))
}

func TestInfo(t *testing.T) {
	info := New(DefaultConfig()).Info()
	assert.False(t, info.EntityEnabled)
	assert.False(t, info.EntityAvailable)
	assert.Equal(t, []string{"dictionary", "context"}, info.Detectors)
	assert.Equal(t, 83, info.DictionarySize)
	assert.Equal(t, 8, info.Categories)
	assert.Equal(t, 10, info.SynonymGroups)
	assert.Equal(t, 5000, info.Similarity.MaxFeatures)
}
