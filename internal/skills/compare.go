package skills

import "strings"

// Comparison splits job skills into those the resume covers and those it
// lacks. Both lists keep the casing and order of the job skills.
type Comparison struct {
	Matched []string `json:"matched"`
	Missing []string `json:"missing"`
}

type synonymEntry struct {
	base       string
	variations []string
}

var synonyms = []synonymEntry{
	{"javascript", []string{"js", "ecmascript"}},
	{"python", []string{"py"}},
	{"machine learning", []string{"ml"}},
	{"artificial intelligence", []string{"ai"}},
	{"database", []string{"db"}},
	{"sql server", []string{"mssql", "microsoft sql"}},
	{"postgresql", []string{"postgres"}},
	{"amazon web services", []string{"aws"}},
	{"google cloud platform", []string{"gcp"}},
	{"microsoft azure", []string{"azure"}},
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// Similar reports whether two lowercased skills are equivalent: one contains
// the other, or the synonym table links them.
func Similar(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return true
	}
	for _, entry := range synonyms {
		aVar, bVar := contains(entry.variations, a), contains(entry.variations, b)
		if (a == entry.base && bVar) || (b == entry.base && aVar) || (aVar && bVar) {
			return true
		}
	}
	return false
}

// Compare matches job skills against resume skills. A job skill is matched
// when the resume has it exactly, ignoring case, or when the first resume
// skill found Similar to it. Everything else is missing.
func Compare(resumeSkills, jobSkills []string) Comparison {
	resume := make([]string, 0, len(resumeSkills))
	resumeSet := make(map[string]struct{}, len(resumeSkills))
	for _, s := range resumeSkills {
		lower := strings.ToLower(strings.TrimSpace(s))
		if lower == "" {
			continue
		}
		if _, dup := resumeSet[lower]; dup {
			continue
		}
		resumeSet[lower] = struct{}{}
		resume = append(resume, lower)
	}

	matched := make(map[string]bool)
	for _, s := range jobSkills {
		job := strings.ToLower(strings.TrimSpace(s))
		if _, done := matched[job]; done {
			continue
		}
		if _, exact := resumeSet[job]; exact {
			matched[job] = true
			continue
		}
		matched[job] = false
		for _, r := range resume {
			if Similar(job, r) {
				matched[job] = true
				break
			}
		}
	}

	result := Comparison{Matched: []string{}, Missing: []string{}}
	emitted := make(map[string]struct{}, len(jobSkills))
	for _, s := range jobSkills {
		key := strings.ToLower(strings.TrimSpace(s))
		if _, dup := emitted[key]; dup {
			continue
		}
		emitted[key] = struct{}{}
		if matched[key] {
			result.Matched = append(result.Matched, s)
		} else {
			result.Missing = append(result.Missing, s)
		}
	}
	return result
}

// MatchPercentage returns the share of job skills that were matched, or 0
// when there are none.
func (c Comparison) MatchPercentage() float64 {
	total := len(c.Matched) + len(c.Missing)
	if total == 0 {
		return 0
	}
	return float64(len(c.Matched)) / float64(total) * 100
}

// SynonymGroups returns the number of entries in the synonym table.
func SynonymGroups() int {
	return len(synonyms)
}
