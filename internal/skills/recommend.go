package skills

import (
	"fmt"
	"strings"
)

// DefaultRecommendationLimit caps Recommend when no limit is given.
const DefaultRecommendationLimit = 5

// Recommend suggests related skills for every technical category that has a
// missing skill: the other dictionary skills of that category that are not
// themselves missing.
func Recommend(missing []string, limit int) []string {
	if limit <= 0 {
		limit = DefaultRecommendationLimit
	}

	missingSet := make(map[string]struct{}, len(missing))
	for _, s := range missing {
		missingSet[strings.ToLower(strings.TrimSpace(s))] = struct{}{}
	}

	grouped := CategorizeAll(missing)
	recommendations := []string{}
	for _, c := range TechnicalCategories {
		if len(grouped[c]) == 0 {
			continue
		}
		for _, skill := range dictionary[c] {
			if _, isMissing := missingSet[skill]; isMissing {
				continue
			}
			recommendations = append(recommendations, fmt.Sprintf("Consider learning %s (related to %s)", skill, c.Label()))
			if len(recommendations) == limit {
				return recommendations
			}
		}
	}
	return recommendations
}
