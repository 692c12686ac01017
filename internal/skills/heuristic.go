package skills

import (
	"regexp"
	"strings"
)

const maxSkillWords = 4

var commonWords = map[string]struct{}{
	"the": {}, "and": {}, "or": {}, "but": {}, "in": {}, "on": {}, "at": {},
	"to": {}, "for": {}, "of": {}, "with": {}, "by": {}, "from": {}, "about": {},
	"into": {}, "through": {}, "during": {}, "before": {}, "after": {},
	"above": {}, "below": {}, "up": {}, "down": {}, "out": {}, "off": {},
	"over": {}, "under": {}, "again": {}, "further": {}, "then": {}, "once": {},
	"here": {}, "there": {}, "when": {}, "where": {}, "why": {}, "how": {},
	"all": {}, "any": {}, "both": {}, "each": {}, "few": {}, "more": {},
	"most": {}, "other": {}, "some": {}, "such": {}, "no": {}, "nor": {},
	"not": {}, "only": {}, "own": {}, "same": {}, "so": {}, "than": {},
	"too": {}, "very": {}, "can": {}, "will": {}, "just": {}, "should": {},
	"now": {},
}

var technicalShapes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b\w+\.(?:js|py|java|cpp|cs|rb|php)\b`),
	regexp.MustCompile(`(?i)\b\w+sql\b`),
	regexp.MustCompile(`(?i)\b\w+db\b`),
}

// IsLikelySkill reports whether candidate looks like a skill: a dictionary
// term, or a short phrase with a technical shape such as "vue.js",
// "nosql" or "couchdb". Generic words are rejected.
func IsLikelySkill(candidate string) bool {
	text := strings.ToLower(strings.TrimSpace(candidate))
	if len(text) < 2 {
		return false
	}
	if len(strings.Fields(text)) > maxSkillWords {
		return false
	}
	if _, common := commonWords[text]; common {
		return false
	}
	if _, known := knownSkills[text]; known {
		return true
	}
	for _, shape := range technicalShapes {
		if shape.MatchString(text) {
			return true
		}
	}
	return false
}
