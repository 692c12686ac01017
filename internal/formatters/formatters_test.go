package formatters

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumematch/internal/skills"
	"resumematch/internal/suggestions"
	"resumematch/internal/types"
)

func sampleMatch() *types.MatchReport {
	return &types.MatchReport{
		ID:              "r-1",
		Score:           63.25,
		Rating:          "Moderate",
		SectionScores:   map[string]float64{"skills_vs_skills": 80, "experience_vs_experience": 41.5},
		ResumeSkills:    []string{"Python", "SQL"},
		JobSkills:       []string{"Python", "SQL", "Kubernetes"},
		MatchedSkills:   []string{"Python", "SQL"},
		MissingSkills:   []string{"Kubernetes"},
		MatchPercentage: 66.7,
		CategorizedMissing: map[skills.Category][]string{
			skills.CloudPlatforms: {"Kubernetes"},
		},
		Recommendations: []string{"Gain experience with Kubernetes"},
		Suggestions: suggestions.Report{
			suggestions.MissingSkills: {"Add Kubernetes to your resume"},
			suggestions.ActionItems:   {},
		},
	}
}

func TestFormatJSON(t *testing.T) {
	registry := NewFormatterRegistry()
	out, err := registry.Format(sampleMatch(), "json")
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, 63.25, decoded["score"])
	assert.Equal(t, "Moderate", decoded["rating"])
}

func TestFormatMatchText(t *testing.T) {
	out, err := NewFormatterRegistry().Format(sampleMatch(), "text")
	require.NoError(t, err)

	assert.Contains(t, out, "=== RESUME MATCH REPORT ===")
	assert.Contains(t, out, "Similarity Score: 63.25%")
	assert.Contains(t, out, "Skill Match: 66.7% (2 of 3 job skills)")
	assert.Contains(t, out, "Missing Skills:\n  - Kubernetes")
	assert.Contains(t, out, "Cloud Platforms: Kubernetes")
	assert.Contains(t, out, "1. Gain experience with Kubernetes")
	assert.Contains(t, out, "Add Kubernetes to your resume")
	assert.NotContains(t, out, "Action Items")
	assert.Less(t, strings.Index(out, "Experience vs Experience: 41.50%"), strings.Index(out, "Skills vs Skills: 80.00%"))
}

func TestFormatMatchMarkdown(t *testing.T) {
	out, err := NewFormatterRegistry().Format(sampleMatch(), "markdown")
	require.NoError(t, err)

	assert.Contains(t, out, "# Resume Match Report\n")
	assert.Contains(t, out, "**Rating:** Moderate")
	assert.Contains(t, out, "## Missing Skills\n\n- Kubernetes\n")
	assert.Contains(t, out, "## Missing Skills by Category")
}

func TestFormatRanking(t *testing.T) {
	report := &types.RankingReport{
		Results: []types.RankedResume{
			{Rank: 1, Name: "alice.txt", Score: 81.2, Rating: "Good", MatchPercentage: 75, MatchedCount: 3, MissingCount: 1, MissingSkills: []string{"Go"}},
			{Rank: 2, Name: "bob.txt", Score: 22, Rating: "Poor"},
		},
		BestScore:    81.2,
		AverageScore: 51.6,
		LowestScore:  22,
	}
	out, err := NewFormatterRegistry().Format(report, "text")
	require.NoError(t, err)

	assert.Contains(t, out, "#1 alice.txt:")
	assert.Contains(t, out, "Score: 81.20% (Good)")
	assert.Contains(t, out, "Missing: Go")
	assert.Contains(t, out, "#2 bob.txt:")
	assert.Less(t, strings.Index(out, "alice.txt"), strings.Index(out, "bob.txt"))
}

func TestFormatSkillsGroupsByCategory(t *testing.T) {
	result := &types.SkillsResult{
		Skills: []string{"Python", "Leadership"},
		Count:  2,
		Categorized: map[skills.Category][]string{
			skills.ProgrammingLanguages: {"Python"},
			skills.SoftSkills:           {"Leadership"},
		},
	}
	out, err := NewFormatterRegistry().Format(result, "markdown")
	require.NoError(t, err)
	assert.Contains(t, out, "## Programming Languages\n\n- Python")
	assert.Contains(t, out, "## Soft Skills\n\n- Leadership")

	empty, err := NewFormatterRegistry().Format(&types.SkillsResult{}, "text")
	require.NoError(t, err)
	assert.Contains(t, empty, "(none)")
}

func TestFormatInfo(t *testing.T) {
	info := &types.EngineInfo{
		Detectors:      []string{"dictionary", "context"},
		EntityEnabled:  true,
		DictionarySize: 83,
	}
	info.Similarity.Method = "tfidf-cosine"
	info.Similarity.NgramRange = [2]int{1, 2}

	out, err := NewFormatterRegistry().Format(info, "text")
	require.NoError(t, err)
	assert.Contains(t, out, "Method: tfidf-cosine")
	assert.Contains(t, out, "N-gram Range: 1-2")
	assert.Contains(t, out, "Entity Detector: unavailable")
}

func TestFormatUnknown(t *testing.T) {
	registry := NewFormatterRegistry()
	_, err := registry.Format(sampleMatch(), "yaml")
	assert.Error(t, err)

	_, err = registry.Format(map[string]int{"a": 1}, "text")
	assert.Error(t, err)

	assert.Equal(t, []string{"json", "markdown", "text"}, registry.GetSupportedFormats())
}
