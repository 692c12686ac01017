package suggestions

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	anyDigit          = regexp.MustCompile(`\d`)
	portfolioKeywords = []string{"programming", "development", "coding"}
)

func actionItems(missing []string, resume string) []string {
	var out []string

	if len(missing) > 0 {
		out = append(out, fmt.Sprintf("Priority: Start learning %s through online courses or projects", missing[0]))
		if len(missing) > 1 {
			out = append(out, fmt.Sprintf("Consider obtaining certification in %s", missing[1]))
		}
		if len(missing) > 2 {
			out = append(out, fmt.Sprintf("Look for volunteer or side projects to gain experience in %s", missing[2]))
		}
	}

	if !strings.Contains(strings.ToLower(resume), "experience") {
		out = append(out, "Add a detailed work experience section with specific achievements")
	}
	if !anyDigit.MatchString(resume) {
		out = append(out, "Quantify your achievements with specific numbers and percentages")
	}

	out = append(out,
		"Research the company's tech stack and highlight relevant experience",
		"Connect with current employees to understand role requirements better",
	)

	if containsAny(strings.ToLower(strings.Join(missing, " ")), portfolioKeywords) {
		out = append(out, "Create GitHub portfolio showcasing projects with the required technologies")
	}

	return append(out, "Prepare specific examples demonstrating your problem-solving abilities")
}
