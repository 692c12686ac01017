package similarity

import (
	"regexp"
	"strings"
)

// Section names a heuristically detected part of a document.
type Section string

const (
	SectionExperience Section = "experience"
	SectionSkills     Section = "skills"
	SectionEducation  Section = "education"
	SectionSummary    Section = "summary"
)

// Sections lists the detected sections in reporting order.
var Sections = []Section{SectionExperience, SectionSkills, SectionEducation, SectionSummary}

// sectionRule finds a section by the first header that matches and ends it
// at the earliest following terminator keyword, or at the end of the text.
type sectionRule struct {
	section     Section
	headers     []*regexp.Regexp
	terminators []string
}

var sectionRules = []sectionRule{
	{
		section: SectionExperience,
		headers: compileAll(
			`work\s+experience`,
			`experience`,
			`employment`,
			`professional\s+experience`,
		),
		terminators: []string{"education", "skills", "summary"},
	},
	{
		section: SectionSkills,
		headers: compileAll(
			`skills`,
			`technical\s+skills`,
			`competencies`,
		),
		terminators: []string{"experience", "education", "summary"},
	},
	{
		section: SectionEducation,
		headers: compileAll(
			`education`,
			`academic`,
			`qualifications`,
		),
		terminators: []string{"experience", "skills", "summary"},
	},
	{
		section: SectionSummary,
		headers: compileAll(
			`summary`,
			`objective`,
			`profile`,
		),
		terminators: []string{"experience", "skills", "education"},
	},
}

func compileAll(patterns ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		compiled[i] = regexp.MustCompile(p)
	}
	return compiled
}

func (r sectionRule) extract(lower string) string {
	for _, header := range r.headers {
		loc := header.FindStringIndex(lower)
		if loc == nil {
			continue
		}
		end := len(lower)
		for _, term := range r.terminators {
			if idx := strings.Index(lower[loc[1]:], term); idx >= 0 && loc[1]+idx < end {
				end = loc[1] + idx
			}
		}
		return lower[loc[0]:end]
	}
	return ""
}

// ExtractSections returns the lowercased content of every section found in
// text. Missing sections map to the empty string.
func ExtractSections(text string) map[Section]string {
	lower := strings.ToLower(text)
	sections := make(map[Section]string, len(sectionRules))
	for _, rule := range sectionRules {
		sections[rule.section] = rule.extract(lower)
	}
	return sections
}

// SectionKey names a resume/job section pair.
func SectionKey(resume, job Section) string {
	return string(resume) + "_vs_" + string(job)
}

// SectionSimilarities scores every pair of sections present in both
// documents, keyed by SectionKey. Absent sections are skipped.
func (e *Engine) SectionSimilarities(resume, job string) map[string]float64 {
	resumeSections := ExtractSections(Truncate(resume, e.maxInputChars))
	jobSections := ExtractSections(Truncate(job, e.maxInputChars))

	scores := make(map[string]float64)
	for _, rs := range Sections {
		rc := resumeSections[rs]
		if rc == "" {
			continue
		}
		for _, js := range Sections {
			jc := jobSections[js]
			if jc == "" {
				continue
			}
			scores[SectionKey(rs, js)] = e.Compute(rc, jc)
		}
	}
	return scores
}
