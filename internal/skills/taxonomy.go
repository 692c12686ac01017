// Package skills extracts skills from free text and reconciles the skills of
// a resume with those of a job description.
package skills

import "strings"

// Category is a fixed skill taxonomy bucket.
type Category string

const (
	ProgrammingLanguages Category = "programming_languages"
	WebTechnologies      Category = "web_technologies"
	Databases            Category = "databases"
	CloudPlatforms       Category = "cloud_platforms"
	DataScience          Category = "data_science"
	Tools                Category = "tools"
	SoftSkills           Category = "soft_skills"
	Other                Category = "other"
)

// TechnicalCategories lists the technical buckets in taxonomy order.
var TechnicalCategories = []Category{
	ProgrammingLanguages,
	WebTechnologies,
	Databases,
	CloudPlatforms,
	DataScience,
	Tools,
}

// AllCategories lists every bucket in reporting order.
var AllCategories = append(append([]Category{}, TechnicalCategories...), SoftSkills, Other)

// Label returns the category name with underscores replaced by spaces.
func (c Category) Label() string {
	return strings.ReplaceAll(string(c), "_", " ")
}

// Technical reports whether c is one of TechnicalCategories.
func (c Category) Technical() bool {
	for _, tc := range TechnicalCategories {
		if c == tc {
			return true
		}
	}
	return false
}

var dictionary = map[Category][]string{
	ProgrammingLanguages: {
		"python", "java", "javascript", "c++", "c#", "r", "scala", "kotlin",
		"swift", "go", "rust", "php", "ruby", "typescript", "matlab", "perl",
	},
	WebTechnologies: {
		"html", "css", "react", "angular", "vue", "node.js", "express",
		"django", "flask", "spring", "bootstrap", "jquery", "sass", "less",
	},
	Databases: {
		"sql", "mysql", "postgresql", "mongodb", "redis", "cassandra",
		"oracle", "sqlite", "dynamodb", "elasticsearch",
	},
	CloudPlatforms: {
		"aws", "azure", "gcp", "google cloud", "docker", "kubernetes",
		"terraform", "jenkins", "gitlab", "github actions",
	},
	DataScience: {
		"machine learning", "deep learning", "data analysis", "statistics",
		"pandas", "numpy", "scikit-learn", "tensorflow", "pytorch", "keras",
	},
	Tools: {
		"git", "linux", "unix", "bash", "powershell", "vim", "vscode",
		"intellij", "eclipse", "jira", "confluence", "slack",
	},
	SoftSkills: {
		"communication", "leadership", "teamwork", "problem solving",
		"analytical thinking", "creativity", "adaptability", "time management",
		"project management", "critical thinking", "collaboration",
	},
}

var knownSkills = func() map[string]Category {
	known := make(map[string]Category)
	for _, c := range append(append([]Category{}, TechnicalCategories...), SoftSkills) {
		for _, skill := range dictionary[c] {
			known[skill] = c
		}
	}
	return known
}()

// SkillsIn returns the dictionary skills of c in taxonomy order.
func SkillsIn(c Category) []string {
	return append([]string(nil), dictionary[c]...)
}

// KnownSkills returns every dictionary skill, technical categories first.
func KnownSkills() []string {
	var all []string
	for _, c := range TechnicalCategories {
		all = append(all, dictionary[c]...)
	}
	return append(all, dictionary[SoftSkills]...)
}

// IsKnownSkill reports whether skill is in the dictionary, ignoring case.
func IsKnownSkill(skill string) bool {
	_, ok := knownSkills[strings.ToLower(strings.TrimSpace(skill))]
	return ok
}
