package suggestions

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	lowKeywordDensity  = 2.0
	highKeywordDensity = 10.0
)

var (
	keywordShapes = []*regexp.Regexp{
		regexp.MustCompile(`\b[A-Z]{2,}\b`),
		regexp.MustCompile(`\b\w+\.js\b`),
		regexp.MustCompile(`\b\w+SQL\b`),
		regexp.MustCompile(`\b\w+-\w+\b`),
	}

	commonTechTerms = []string{
		"python", "java", "javascript", "react", "angular", "vue",
		"sql", "mysql", "postgresql", "mongodb", "redis",
		"aws", "azure", "gcp", "docker", "kubernetes",
		"git", "linux", "agile", "scrum", "ci/cd",
	}
	commonTechPatterns = compileTerms(commonTechTerms)

	wordingSynonyms = []struct {
		base     string
		synonyms []string
	}{
		{"developed", []string{"built", "created", "designed", "implemented"}},
		{"managed", []string{"led", "supervised", "oversaw", "directed"}},
		{"improved", []string{"enhanced", "optimized", "upgraded", "refined"}},
		{"worked", []string{"collaborated", "partnered", "contributed", "participated"}},
		{"used", []string{"utilized", "employed", "leveraged", "applied"}},
	}
)

// jobKeywords returns acronyms, framework and database names, hyphenated
// terms and common technology terms found in the job description.
func jobKeywords(job string) []string {
	var keywords dedup
	for _, shape := range keywordShapes {
		for _, kw := range shape.FindAllString(job, -1) {
			keywords.add(kw)
		}
	}
	for i, term := range commonTechTerms {
		if commonTechPatterns[i].MatchString(job) {
			keywords.add(term)
		}
	}
	return keywords.items
}

func keywordSuggestions(resume, job string) []string {
	var out []string

	keywords := jobKeywords(job)
	resumeLower := strings.ToLower(resume)

	var missing []string
	present := 0
	for _, kw := range keywords {
		if strings.Contains(resumeLower, strings.ToLower(kw)) {
			present++
		} else {
			missing = append(missing, kw)
		}
	}
	if len(missing) > 0 {
		out = append(out,
			fmt.Sprintf("Consider incorporating these keywords: %s", strings.Join(firstN(missing, 8), ", ")),
			"Naturally integrate keywords into your experience descriptions",
		)
	}

	density := 0.0
	if words := len(strings.Fields(resume)); words > 0 {
		density = float64(present) / float64(words) * 100
	}
	switch {
	case density < lowKeywordDensity:
		out = append(out, "Increase relevant keyword density while maintaining natural flow")
	case density > highKeywordDensity:
		out = append(out, "Reduce keyword stuffing - focus on natural integration")
	}

	return append(out, wordingSuggestions(resumeLower, strings.ToLower(job))...)
}

// wordingSuggestions proposes the job description's vocabulary for verbs the
// resume already uses.
func wordingSuggestions(resumeLower, jobLower string) []string {
	var out []string
	for _, entry := range wordingSynonyms {
		if !strings.Contains(resumeLower, entry.base) {
			continue
		}
		for _, syn := range entry.synonyms {
			if strings.Contains(jobLower, syn) {
				out = append(out, fmt.Sprintf("Consider using '%s' instead of '%s' to match job language", syn, entry.base))
				break
			}
		}
	}
	return out
}
