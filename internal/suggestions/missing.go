package suggestions

import (
	"fmt"
	"strings"
)

// AllSkillsPresent is the only Missing Skills entry when nothing is missing.
const AllSkillsPresent = "Great! All required skills are present in your resume."

type skillGroup int

const (
	groupTechnical skillGroup = iota
	groupTools
	groupSoft
)

// groupRules are evaluated in order; unmatched skills count as technical.
var groupRules = []struct {
	group    skillGroup
	keywords []string
}{
	{groupTechnical, []string{"python", "java", "sql", "javascript", "programming"}},
	{groupTools, []string{"git", "docker", "kubernetes", "aws", "azure"}},
	{groupSoft, []string{"communication", "leadership", "teamwork", "management"}},
}

func classifyMissing(skill string) skillGroup {
	lower := strings.ToLower(skill)
	for _, rule := range groupRules {
		if containsAny(lower, rule.keywords) {
			return rule.group
		}
	}
	return groupTechnical
}

var highPrioritySkills = []string{"python", "sql", "machine learning", "aws", "react", "java"}

func missingSkillSuggestions(missing []string) []string {
	if len(missing) == 0 {
		return []string{AllSkillsPresent}
	}

	groups := make(map[skillGroup][]string)
	var priority []string
	for _, skill := range missing {
		g := classifyMissing(skill)
		groups[g] = append(groups[g], skill)
		if containsAny(strings.ToLower(skill), highPrioritySkills) {
			priority = append(priority, skill)
		}
	}

	var out []string
	if technical := groups[groupTechnical]; len(technical) > 0 {
		out = append(out,
			fmt.Sprintf("Consider adding these technical skills to your resume: %s", strings.Join(firstN(technical, 5), ", ")),
			"Highlight any projects or experience where you've used similar technologies",
		)
	}
	if tools := groups[groupTools]; len(tools) > 0 {
		out = append(out,
			fmt.Sprintf("Include experience with these tools/platforms: %s", strings.Join(firstN(tools, 3), ", ")),
			"Mention any certifications or training in these technologies",
		)
	}
	if soft := groups[groupSoft]; len(soft) > 0 {
		out = append(out,
			fmt.Sprintf("Emphasize these soft skills with specific examples: %s", strings.Join(firstN(soft, 3), ", ")),
			"Use quantifiable achievements to demonstrate these capabilities",
		)
	}
	if len(priority) > 0 {
		out = append(out, fmt.Sprintf("High priority skills to develop: %s", strings.Join(firstN(priority, 3), ", ")))
	}
	return out
}
