// Package suggestions derives resume improvement advice from the skill gap
// and simple document statistics. Every generator is deterministic.
package suggestions

import (
	"regexp"
	"strings"
)

// Category names a group of suggestions.
type Category string

const (
	MissingSkills         Category = "Missing Skills"
	ContentEnhancement    Category = "Content Enhancement"
	KeywordOptimization   Category = "Keyword Optimization"
	StructureImprovements Category = "Structure Improvements"
	ActionItems           Category = "Action Items"
)

// Categories lists every category in display order.
var Categories = []Category{
	MissingSkills,
	ContentEnhancement,
	KeywordOptimization,
	StructureImprovements,
	ActionItems,
}

// Report maps each category to its ordered suggestions. Every category is
// present, possibly with an empty list.
type Report map[Category][]string

// Total returns the number of suggestions across categories.
func (r Report) Total() int {
	n := 0
	for _, list := range r {
		n += len(list)
	}
	return n
}

// Generate builds the full report for a resume, job description and the
// job skills missing from the resume.
func Generate(resume, job string, missing []string) Report {
	report := Report{
		MissingSkills:         missingSkillSuggestions(missing),
		ContentEnhancement:    contentSuggestions(resume, job),
		KeywordOptimization:   keywordSuggestions(resume, job),
		StructureImprovements: structureSuggestions(resume),
		ActionItems:           actionItems(missing, resume),
	}
	for c, list := range report {
		if list == nil {
			report[c] = []string{}
		}
	}
	return report
}

func firstN(list []string, n int) []string {
	if len(list) > n {
		return list[:n]
	}
	return list
}

func containsAny(text string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}

// termPattern matches term as a whole word or phrase, ignoring case.
func termPattern(term string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)(?:^|[^\p{L}\p{N}_])` + regexp.QuoteMeta(term) + `(?:[^\p{L}\p{N}_]|$)`)
}

type dedup struct {
	seen  map[string]struct{}
	items []string
}

func (d *dedup) add(item string) {
	if d.seen == nil {
		d.seen = make(map[string]struct{})
	}
	key := strings.ToLower(item)
	if _, ok := d.seen[key]; ok {
		return
	}
	d.seen[key] = struct{}{}
	d.items = append(d.items, item)
}
