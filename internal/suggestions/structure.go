package suggestions

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const maxAverageLineLength = 100

var (
	resumeSections = []struct {
		name     string
		keywords []string
	}{
		{"summary", []string{"summary", "objective", "profile"}},
		{"experience", []string{"experience", "work", "employment"}},
		{"skills", []string{"skills", "technical", "competencies"}},
		{"education", []string{"education", "degree", "university"}},
	}

	bulletIndicators = []string{"•", "*", "-", "▪"}
	bulletMarker     = regexp.MustCompile(`(?m)^[ \t]*([-*•])`)
)

func missingSections(resumeLower string) map[string]bool {
	missing := make(map[string]bool)
	for _, s := range resumeSections {
		if !containsAny(resumeLower, s.keywords) {
			missing[s.name] = true
		}
	}
	return missing
}

func structureSuggestions(resume string) []string {
	var out []string

	missing := missingSections(strings.ToLower(resume))
	if missing["summary"] {
		out = append(out, "Add a professional summary at the top highlighting your key qualifications")
	}
	if missing["skills"] {
		out = append(out, "Include a dedicated skills section to showcase your technical abilities")
	}

	if !containsAny(resume, bulletIndicators) {
		out = append(out, "Use bullet points to improve readability and highlight achievements")
	}

	markers := make(map[string]struct{})
	for _, m := range bulletMarker.FindAllStringSubmatch(resume, -1) {
		markers[m[1]] = struct{}{}
	}
	if len(markers) > 1 {
		out = append(out, "Maintain consistent bullet point formatting throughout")
	}

	lines := strings.Split(resume, "\n")
	total := 0
	for _, line := range lines {
		total += utf8.RuneCountInString(line)
	}
	if float64(total)/float64(len(lines)) > maxAverageLineLength {
		out = append(out, "Consider breaking long paragraphs into shorter, more digestible points")
	}

	return out
}
