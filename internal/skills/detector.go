package skills

import (
	"context"
	"regexp"
	"strings"
	"unicode"

	"resumematch/internal/errors"
)

// Mention is a skill found in a text. Offset is the byte position of the
// first occurrence and orders mentions across detectors.
type Mention struct {
	Text   string
	Offset int
}

// Detector finds skill mentions in text.
type Detector interface {
	Name() string
	Detect(ctx context.Context, text string) []Mention
}

// DictionaryDetector matches whole-word occurrences of dictionary skills.
type DictionaryDetector struct {
	patterns []*regexp.Regexp
}

const nonWord = `[^\p{L}\p{N}_]`

func NewDictionaryDetector() *DictionaryDetector {
	skills := KnownSkills()
	patterns := make([]*regexp.Regexp, len(skills))
	for i, skill := range skills {
		words := strings.Fields(skill)
		for j, w := range words {
			words[j] = regexp.QuoteMeta(w)
		}
		patterns[i] = regexp.MustCompile(`(?i)(?:^|` + nonWord + `)(` + strings.Join(words, `\s+`) + `)(?:` + nonWord + `|$)`)
	}
	return &DictionaryDetector{patterns: patterns}
}

func (d *DictionaryDetector) Name() string { return "dictionary" }

func (d *DictionaryDetector) Detect(_ context.Context, text string) []Mention {
	var mentions []Mention
	for _, p := range d.patterns {
		loc := p.FindStringSubmatchIndex(text)
		if loc == nil {
			continue
		}
		mentions = append(mentions, Mention{
			Text:   strings.Join(strings.Fields(text[loc[2]:loc[3]]), " "),
			Offset: loc[2],
		})
	}
	return mentions
}

// ContextDetector captures the clause after phrases such as "experience
// with" or "skills:" and keeps the list items that look like skills.
type ContextDetector struct {
	introducers []*regexp.Regexp
}

var (
	defaultIntroducers = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bexperience\s+(?:with|in)\s+`),
		regexp.MustCompile(`(?i)\bproficient\s+(?:with|in)\s+`),
		regexp.MustCompile(`(?i)\bskilled\s+(?:with|in)\s+`),
		regexp.MustCompile(`(?i)\bknowledge\s+(?:of|in)\s+`),
		regexp.MustCompile(`(?i)\bfamiliar\s+(?:with|in)\s+`),
		regexp.MustCompile(`(?i)\bexpertise\s+(?:with|in)\s+`),
		regexp.MustCompile(`(?i)\btechnologies:\s*`),
		regexp.MustCompile(`(?i)\bskills:\s*`),
		regexp.MustCompile(`(?i)\btools:\s*`),
	}
	leadingConjunction = regexp.MustCompile(`(?i)^(?:and|or)\s+`)
)

func NewContextDetector() *ContextDetector {
	return &ContextDetector{introducers: defaultIntroducers}
}

func (d *ContextDetector) Name() string { return "context" }

func (d *ContextDetector) Detect(_ context.Context, text string) []Mention {
	var mentions []Mention
	for _, intro := range d.introducers {
		for _, loc := range intro.FindAllStringIndex(text, -1) {
			start := loc[1]
			end := clauseEnd(text, start)
			mentions = append(mentions, splitCandidates(text, start, end)...)
		}
	}
	return mentions
}

// clauseEnd returns the index of the sentence terminator after start: '!',
// '?', or a '.' followed by whitespace or the end of text. Dots inside
// tokens such as "node.js" do not end a clause.
func clauseEnd(text string, start int) int {
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '!', '?':
			return i
		case '.':
			if i+1 == len(text) || unicode.IsSpace(rune(text[i+1])) {
				return i
			}
		}
	}
	return len(text)
}

func isSeparator(b byte) bool {
	switch b {
	case ',', ';', '|', '&', '\n':
		return true
	}
	return false
}

func splitCandidates(text string, start, end int) []Mention {
	var mentions []Mention
	itemStart := start
	for i := start; i <= end; i++ {
		if i < end && !isSeparator(text[i]) {
			continue
		}
		if mention, ok := candidate(text, itemStart, i); ok {
			mentions = append(mentions, mention)
		}
		itemStart = i + 1
	}
	return mentions
}

func candidate(text string, start, end int) (Mention, bool) {
	if start >= end {
		return Mention{}, false
	}
	raw := text[start:end]
	trimmed := strings.TrimLeftFunc(raw, unicode.IsSpace)
	offset := start + len(raw) - len(trimmed)
	trimmed = strings.TrimRightFunc(trimmed, unicode.IsSpace)
	if loc := leadingConjunction.FindStringIndex(trimmed); loc != nil {
		trimmed = trimmed[loc[1]:]
		offset += loc[1]
	}
	if !IsLikelySkill(trimmed) {
		return Mention{}, false
	}
	return Mention{Text: trimmed, Offset: offset}, true
}

var entityLabels = map[string]struct{}{
	LabelOrganization: {},
	LabelProduct:      {},
	LabelLanguage:     {},
	LabelNounPhrase:   {},
}

// EntityDetector runs an EntityRecognizer and keeps the entities that pass
// IsLikelySkill. It contributes nothing when the model is unavailable or a
// call fails.
type EntityDetector struct {
	provider *ModelProvider
	logger   *errors.Logger
}

func NewEntityDetector(provider *ModelProvider, logger *errors.Logger) *EntityDetector {
	return &EntityDetector{provider: provider, logger: errors.OrDiscard(logger)}
}

func (d *EntityDetector) Name() string { return "entity" }

func (d *EntityDetector) Detect(ctx context.Context, text string) []Mention {
	model, ok := d.provider.Model()
	if !ok {
		return nil
	}

	entities, err := model.Recognize(ctx, text)
	if err != nil {
		d.logger.LogWarning(err, "entity recognition failed, skipping entity detector")
		return nil
	}

	lower := strings.ToLower(text)
	var mentions []Mention
	for _, ent := range entities {
		if _, ok := entityLabels[strings.ToUpper(ent.Label)]; !ok {
			continue
		}
		skill := strings.TrimSpace(ent.Text)
		if !IsLikelySkill(skill) {
			continue
		}
		offset := strings.Index(lower, strings.ToLower(skill))
		if offset < 0 {
			offset = len(text)
		}
		mentions = append(mentions, Mention{Text: skill, Offset: offset})
	}
	return mentions
}
