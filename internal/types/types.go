package types

import (
	"resumematch/internal/similarity"
	"resumematch/internal/skills"
	"resumematch/internal/suggestions"
)

// MatchInput represents the input for matching one resume against a job
type MatchInput struct {
	Resume         string `json:"resume" validate:"required"`
	JobDescription string `json:"jobDescription" validate:"required"`
}

// MatchReport represents the full result of a resume/job comparison
type MatchReport struct {
	ID                 string                       `json:"id"`
	Score              float64                      `json:"score"`
	Rating             string                       `json:"rating"`
	SectionScores      map[string]float64           `json:"sectionScores"`
	ResumeSkills       []string                     `json:"resumeSkills"`
	JobSkills          []string                     `json:"jobSkills"`
	MatchedSkills      []string                     `json:"matchedSkills"`
	MissingSkills      []string                     `json:"missingSkills"`
	MatchPercentage    float64                      `json:"matchPercentage"`
	CategorizedMissing map[skills.Category][]string `json:"categorizedMissing"`
	Recommendations    []string                     `json:"recommendations"`
	Suggestions        suggestions.Report           `json:"suggestions"`
}

// NamedDocument is a resume with a display name, usually its file name
type NamedDocument struct {
	Name string `json:"name" validate:"required"`
	Text string `json:"text" validate:"required"`
}

// RankInput represents the input for ranking several resumes against a job
type RankInput struct {
	Resumes        []NamedDocument `json:"resumes" validate:"required,min=1,max=50,dive"`
	JobDescription string          `json:"jobDescription" validate:"required"`
}

// RankedResume is one row of a ranking
type RankedResume struct {
	Rank            int      `json:"rank"`
	Name            string   `json:"name"`
	Score           float64  `json:"score"`
	Rating          string   `json:"rating"`
	MatchPercentage float64  `json:"matchPercentage"`
	MatchedCount    int      `json:"matchedCount"`
	MissingCount    int      `json:"missingCount"`
	MatchedSkills   []string `json:"matchedSkills"`
	MissingSkills   []string `json:"missingSkills"`
}

// RankingReport represents resumes ordered by score, best first
type RankingReport struct {
	ID           string         `json:"id"`
	Results      []RankedResume `json:"results"`
	BestScore    float64        `json:"bestScore"`
	AverageScore float64        `json:"averageScore"`
	LowestScore  float64        `json:"lowestScore"`
}

// SkillsInput represents the input for skill extraction
type SkillsInput struct {
	Text string `json:"text" validate:"required"`
}

// SkillsResult represents the skills found in one document
type SkillsResult struct {
	Skills      []string                     `json:"skills"`
	Count       int                          `json:"count"`
	Categorized map[skills.Category][]string `json:"categorized"`
}

// SimilarityInput represents the input for a raw similarity computation
type SimilarityInput struct {
	TextA    string `json:"textA" validate:"required"`
	TextB    string `json:"textB" validate:"required"`
	Sections bool   `json:"sections"`
}

// SimilarityResult represents a similarity score and optional section scores
type SimilarityResult struct {
	Score         float64            `json:"score"`
	Rating        string             `json:"rating"`
	SectionScores map[string]float64 `json:"sectionScores,omitempty"`
}

// SuggestionsInput represents the input for suggestion generation. When
// MissingSkills is nil it is derived from the two documents.
type SuggestionsInput struct {
	Resume         string   `json:"resume" validate:"required"`
	JobDescription string   `json:"jobDescription" validate:"required"`
	MissingSkills  []string `json:"missingSkills,omitempty"`
}

// SuggestionsResult represents generated improvement suggestions
type SuggestionsResult struct {
	MissingSkills []string           `json:"missingSkills"`
	Suggestions   suggestions.Report `json:"suggestions"`
}

// EngineInfo describes the configured engine
type EngineInfo struct {
	Similarity      similarity.Info `json:"similarity"`
	Detectors       []string        `json:"detectors"`
	EntityEnabled   bool            `json:"entityEnabled"`
	EntityAvailable bool            `json:"entityAvailable"`
	DictionarySize  int             `json:"dictionarySize"`
	Categories      int             `json:"categories"`
	SynonymGroups   int             `json:"synonymGroups"`
}
