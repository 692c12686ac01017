package formatters

import (
	"fmt"
	"slices"
	"strings"

	"resumematch/internal/skills"
	"resumematch/internal/suggestions"
	"resumematch/internal/types"
)

var renderers = map[string]func(document, any) error{
	"MatchReport":       renderMatch,
	"RankingReport":     renderRanking,
	"SkillsResult":      renderSkills,
	"SimilarityResult":  renderSimilarity,
	"SuggestionsResult": renderSuggestions,
	"EngineInfo":        renderInfo,
}

func renderMatch(doc document, data any) error {
	r, ok := data.(*types.MatchReport)
	if !ok {
		return fmt.Errorf("expected *MatchReport, got %T", data)
	}

	doc.Title("Resume Match Report")
	doc.Field("Similarity Score", fmt.Sprintf("%.2f%%", r.Score))
	doc.Field("Rating", r.Rating)
	doc.Field("Skill Match", fmt.Sprintf("%.1f%% (%d of %d job skills)", r.MatchPercentage, len(r.MatchedSkills), len(r.JobSkills)))

	if len(r.SectionScores) > 0 {
		doc.Section("Section Scores")
		doc.List(sectionLines(r.SectionScores))
	}

	doc.Section("Matched Skills")
	doc.List(r.MatchedSkills)
	doc.Section("Missing Skills")
	doc.List(r.MissingSkills)

	if len(r.CategorizedMissing) > 0 {
		doc.Section("Missing Skills by Category")
		doc.List(categoryLines(r.CategorizedMissing))
	}

	doc.Section("Recommendations")
	doc.Numbered(r.Recommendations)

	writeSuggestions(doc, r.Suggestions)
	return nil
}

func renderRanking(doc document, data any) error {
	r, ok := data.(*types.RankingReport)
	if !ok {
		return fmt.Errorf("expected *RankingReport, got %T", data)
	}

	doc.Title("Resume Ranking")
	doc.Field("Resumes", len(r.Results))
	doc.Field("Best Score", fmt.Sprintf("%.2f%%", r.BestScore))
	doc.Field("Average Score", fmt.Sprintf("%.2f%%", r.AverageScore))
	doc.Field("Lowest Score", fmt.Sprintf("%.2f%%", r.LowestScore))

	for _, row := range r.Results {
		doc.Section(fmt.Sprintf("#%d %s", row.Rank, row.Name))
		doc.Field("Score", fmt.Sprintf("%.2f%% (%s)", row.Score, row.Rating))
		doc.Field("Skill Match", fmt.Sprintf("%.1f%% (%d matched, %d missing)", row.MatchPercentage, row.MatchedCount, row.MissingCount))
		if len(row.MissingSkills) > 0 {
			doc.Field("Missing", strings.Join(row.MissingSkills, ", "))
		}
	}
	return nil
}

func renderSkills(doc document, data any) error {
	r, ok := data.(*types.SkillsResult)
	if !ok {
		return fmt.Errorf("expected *SkillsResult, got %T", data)
	}

	doc.Title("Extracted Skills")
	doc.Field("Count", r.Count)
	for _, c := range skills.AllCategories {
		if list := r.Categorized[c]; len(list) > 0 {
			doc.Section(titleCase(c.Label()))
			doc.List(list)
		}
	}
	if r.Count == 0 {
		doc.Section("Skills")
		doc.List(nil)
	}
	return nil
}

func renderSimilarity(doc document, data any) error {
	r, ok := data.(*types.SimilarityResult)
	if !ok {
		return fmt.Errorf("expected *SimilarityResult, got %T", data)
	}

	doc.Title("Document Similarity")
	doc.Field("Score", fmt.Sprintf("%.2f%%", r.Score))
	doc.Field("Rating", r.Rating)
	if len(r.SectionScores) > 0 {
		doc.Section("Section Scores")
		doc.List(sectionLines(r.SectionScores))
	}
	return nil
}

func renderSuggestions(doc document, data any) error {
	r, ok := data.(*types.SuggestionsResult)
	if !ok {
		return fmt.Errorf("expected *SuggestionsResult, got %T", data)
	}

	doc.Title("Resume Suggestions")
	doc.Field("Missing Skills", len(r.MissingSkills))
	writeSuggestions(doc, r.Suggestions)
	return nil
}

func renderInfo(doc document, data any) error {
	r, ok := data.(*types.EngineInfo)
	if !ok {
		return fmt.Errorf("expected *EngineInfo, got %T", data)
	}

	doc.Title("Engine Configuration")
	doc.Section("Similarity")
	doc.Field("Method", r.Similarity.Method)
	doc.Field("Max Features", r.Similarity.MaxFeatures)
	doc.Field("N-gram Range", fmt.Sprintf("%d-%d", r.Similarity.NgramRange[0], r.Similarity.NgramRange[1]))
	doc.Field("Min DF", r.Similarity.MinDF)
	doc.Field("Max DF", r.Similarity.MaxDF)
	doc.Field("Max Input Chars", r.Similarity.MaxInputChars)

	doc.Section("Skills")
	doc.Field("Dictionary Size", r.DictionarySize)
	doc.Field("Categories", r.Categories)
	doc.Field("Synonym Groups", r.SynonymGroups)
	doc.Field("Entity Detector", entityState(r))
	doc.Section("Detectors")
	doc.List(r.Detectors)
	return nil
}

func writeSuggestions(doc document, report suggestions.Report) {
	for _, c := range suggestions.Categories {
		items := report[c]
		if len(items) == 0 {
			continue
		}
		doc.Section(string(c))
		doc.List(items)
	}
}

func sectionLines(scores map[string]float64) []string {
	names := make([]string, 0, len(scores))
	for name := range scores {
		names = append(names, name)
	}
	slices.Sort(names)
	lines := make([]string, len(names))
	for i, name := range names {
		lines[i] = fmt.Sprintf("%s: %.2f%%", sectionLabel(name), scores[name])
	}
	return lines
}

// sectionLabel turns "experience_vs_skills" into "Experience vs Skills".
func sectionLabel(key string) string {
	parts := strings.Split(key, "_vs_")
	for i, p := range parts {
		parts[i] = titleCase(p)
	}
	return strings.Join(parts, " vs ")
}

func categoryLines(grouped map[skills.Category][]string) []string {
	var lines []string
	for _, c := range skills.AllCategories {
		if list := grouped[c]; len(list) > 0 {
			lines = append(lines, fmt.Sprintf("%s: %s", titleCase(c.Label()), strings.Join(list, ", ")))
		}
	}
	return lines
}

func entityState(info *types.EngineInfo) string {
	switch {
	case !info.EntityEnabled:
		return "disabled"
	case info.EntityAvailable:
		return "available"
	default:
		return "unavailable"
	}
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
