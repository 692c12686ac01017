package skills

import "strings"

// Rule classifies a lowercased skill. ok is false when the rule does not apply.
type Rule interface {
	Classify(skill string) (category Category, ok bool)
}

// DictionaryRule matches skills listed in one taxonomy bucket.
type DictionaryRule struct {
	Category Category
	skills   map[string]struct{}
}

func NewDictionaryRule(c Category) DictionaryRule {
	set := make(map[string]struct{}, len(dictionary[c]))
	for _, s := range dictionary[c] {
		set[s] = struct{}{}
	}
	return DictionaryRule{Category: c, skills: set}
}

func (r DictionaryRule) Classify(skill string) (Category, bool) {
	_, ok := r.skills[skill]
	return r.Category, ok
}

// KeywordRule matches skills containing any of Keywords.
type KeywordRule struct {
	Category Category
	Keywords []string
}

func (r KeywordRule) Classify(skill string) (Category, bool) {
	for _, kw := range r.Keywords {
		if strings.Contains(skill, kw) {
			return r.Category, true
		}
	}
	return r.Category, false
}

// Classifier evaluates rules in order; the first match wins.
type Classifier struct {
	rules    []Rule
	fallback Category
}

func NewClassifier(fallback Category, rules ...Rule) *Classifier {
	return &Classifier{rules: rules, fallback: fallback}
}

// Classify returns the category of skill.
func (c *Classifier) Classify(skill string) Category {
	lower := strings.ToLower(strings.TrimSpace(skill))
	for _, rule := range c.rules {
		if category, ok := rule.Classify(lower); ok {
			return category
		}
	}
	return c.fallback
}

// DefaultClassifier checks the technical buckets in taxonomy order, then soft
// skills, and falls back to Other.
var DefaultClassifier = func() *Classifier {
	rules := make([]Rule, 0, len(TechnicalCategories)+1)
	for _, c := range TechnicalCategories {
		rules = append(rules, NewDictionaryRule(c))
	}
	rules = append(rules, NewDictionaryRule(SoftSkills))
	return NewClassifier(Other, rules...)
}()

// Categorize returns the taxonomy bucket of skill.
func Categorize(skill string) Category {
	return DefaultClassifier.Classify(skill)
}

// CategorizeAll groups skills by bucket, keeping input order within each.
// Empty buckets are omitted.
func CategorizeAll(skills []string) map[Category][]string {
	grouped := make(map[Category][]string)
	for _, skill := range skills {
		c := Categorize(skill)
		grouped[c] = append(grouped[c], skill)
	}
	return grouped
}
