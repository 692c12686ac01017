package suggestions

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	briefWordCount   = 200
	verboseWordCount = 800
	minQuantified    = 3
	minActionVerbs   = 5
)

var (
	numberPattern = regexp.MustCompile(`\d+\.?\d*%?`)

	actionVerbs = []string{
		"developed", "implemented", "managed", "led", "created", "designed",
		"optimized", "achieved", "delivered", "improved", "built", "analyzed",
	}
	actionVerbPatterns = compileTerms(actionVerbs)

	requirementPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\brequire(?:d|ments?)?\b\s*:?\s*([^.;]+)`),
		regexp.MustCompile(`\bmust\s+have\s*:?\s*([^.;]+)`),
		regexp.MustCompile(`\bessential\s*:?\s*([^.;]+)`),
		regexp.MustCompile(`\bqualifications?\b\s*:?\s*([^.;]+)`),
		regexp.MustCompile(`\bresponsibilit(?:y|ies)\b\s*:?\s*([^.;]+)`),
	}
	listSeparators = regexp.MustCompile(`[,;|&\n]+`)

	industryTerms = [][]string{
		{"financial", "banking", "trading", "investment", "fintech"},
		{"healthcare", "medical", "patient", "clinical", "pharma"},
		{"ecommerce", "retail", "marketplace", "customer", "sales"},
		{"saas", "subscription", "platform", "cloud", "enterprise"},
		{"gaming", "game", "unity", "unreal", "mobile games"},
		{"ai", "machine learning", "deep learning", "neural", "nlp"},
	}
	industryTermPatterns = func() map[string]*regexp.Regexp {
		patterns := make(map[string]*regexp.Regexp)
		for _, group := range industryTerms {
			for _, term := range group {
				patterns[term] = termPattern(term)
			}
		}
		return patterns
	}()
)

func compileTerms(terms []string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(terms))
	for i, t := range terms {
		patterns[i] = termPattern(t)
	}
	return patterns
}

func contentSuggestions(resume, job string) []string {
	var out []string

	words := len(strings.Fields(resume))
	switch {
	case words < briefWordCount:
		out = append(out, "Your resume appears brief. Consider adding more details about your experience and achievements.")
	case words > verboseWordCount:
		out = append(out, "Your resume is quite lengthy. Consider condensing to focus on most relevant experience.")
	}

	if len(numberPattern.FindAllString(resume, -1)) < minQuantified {
		out = append(out, "Add quantifiable achievements (e.g., 'Increased efficiency by 25%', 'Managed team of 5')")
	}

	verbs := 0
	for _, p := range actionVerbPatterns {
		if p.MatchString(resume) {
			verbs++
		}
	}
	if verbs < minActionVerbs {
		out = append(out,
			"Use more strong action verbs to describe your accomplishments",
			"Start bullet points with impactful verbs like 'Developed', 'Implemented', 'Led'",
		)
	}

	resumeLower := strings.ToLower(resume)
	var missingContext []string
	for _, req := range firstN(keyRequirements(job), 5) {
		if !strings.Contains(resumeLower, strings.ToLower(req)) {
			missingContext = append(missingContext, req)
		}
	}
	if len(missingContext) > 0 {
		out = append(out, fmt.Sprintf("Consider mentioning experience related to: %s", strings.Join(missingContext, ", ")))
	}

	terms := jobIndustryTerms(job)
	covered := 0
	for _, term := range terms {
		if industryTermPatterns[term].MatchString(resume) {
			covered++
		}
	}
	if float64(covered) < float64(len(terms))*0.3 {
		out = append(out, "Include more industry-specific terminology to show domain knowledge")
	}

	return out
}

// keyRequirements returns up to ten short items listed after requirement
// phrases such as "required:" or "must have".
func keyRequirements(job string) []string {
	lower := strings.ToLower(job)
	var reqs dedup
	for _, p := range requirementPatterns {
		for _, m := range p.FindAllStringSubmatch(lower, -1) {
			for _, item := range listSeparators.Split(strings.TrimSpace(m[1]), -1) {
				item = strings.TrimSpace(item)
				if len(item) > 3 && len(strings.Fields(item)) <= 4 {
					reqs.add(item)
				}
			}
		}
	}
	return firstN(reqs.items, 10)
}

func jobIndustryTerms(job string) []string {
	var terms dedup
	for _, group := range industryTerms {
		for _, term := range group {
			if industryTermPatterns[term].MatchString(job) {
				terms.add(term)
			}
		}
	}
	return terms.items
}
