package similarity

import (
	"math"
	"sort"
	"strings"
)

// VectorizerConfig holds the TF-IDF parameters.
type VectorizerConfig struct {
	MaxFeatures int     `json:"maxFeatures"`
	NgramMax    int     `json:"ngramMax"`
	MinDF       int     `json:"minDF"`
	MaxDF       float64 `json:"maxDF"`
}

// DefaultVectorizerConfig returns the parameters used when none are configured.
func DefaultVectorizerConfig() VectorizerConfig {
	return VectorizerConfig{
		MaxFeatures: 5000,
		NgramMax:    2,
		MinDF:       1,
		MaxDF:       0.95,
	}
}

// Vectorizer builds smoothed TF-IDF vectors over a small corpus. It keeps no
// state between calls: every FitTransform learns its own vocabulary.
type Vectorizer struct {
	cfg VectorizerConfig
}

// Matrix is the result of FitTransform. Rows are L2-normalized and indexed
// by Vocabulary, which is sorted.
type Matrix struct {
	Vocabulary []string
	Rows       [][]float64
}

func NewVectorizer(cfg VectorizerConfig) *Vectorizer {
	if cfg.NgramMax < 1 {
		cfg.NgramMax = 1
	}
	if cfg.MinDF < 1 {
		cfg.MinDF = 1
	}
	if cfg.MaxDF <= 0 || cfg.MaxDF > 1 {
		cfg.MaxDF = 1
	}
	return &Vectorizer{cfg: cfg}
}

// Config returns the effective parameters.
func (v *Vectorizer) Config() VectorizerConfig {
	return v.cfg
}

// Analyze returns the terms of an already normalized document: tokens of two
// or more word runes with stop words removed, followed by n-grams up to
// NgramMax joined by single spaces.
func (v *Vectorizer) Analyze(doc string) []string {
	tokens := tokenize(doc)
	terms := make([]string, 0, len(tokens)*v.cfg.NgramMax)
	terms = append(terms, tokens...)
	for n := 2; n <= v.cfg.NgramMax; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			terms = append(terms, strings.Join(tokens[i:i+n], " "))
		}
	}
	return terms
}

func tokenize(doc string) []string {
	var tokens []string
	start := -1
	runes := 0
	flush := func(end int) {
		if start >= 0 && runes >= 2 {
			tok := doc[start:end]
			if _, stop := englishStopWords[tok]; !stop {
				tokens = append(tokens, tok)
			}
		}
		start, runes = -1, 0
	}
	for i, r := range doc {
		if isWordRune(r) {
			if start < 0 {
				start = i
			}
			runes++
			continue
		}
		flush(i)
	}
	flush(len(doc))
	return tokens
}

// FitTransform learns a vocabulary from docs and returns their weighted vectors.
func (v *Vectorizer) FitTransform(docs []string) Matrix {
	n := len(docs)
	counts := make([]map[string]int, n)
	df := make(map[string]int)
	total := make(map[string]int)
	for i, doc := range docs {
		counts[i] = make(map[string]int)
		for _, term := range v.Analyze(doc) {
			counts[i][term]++
			total[term]++
		}
		for term := range counts[i] {
			df[term]++
		}
	}

	vocab := v.selectVocabulary(df, total, n)
	idf := make([]float64, len(vocab))
	for j, term := range vocab {
		idf[j] = math.Log(float64(1+n)/float64(1+df[term])) + 1
	}

	rows := make([][]float64, n)
	for i := range docs {
		row := make([]float64, len(vocab))
		for j, term := range vocab {
			if c := counts[i][term]; c > 0 {
				row[j] = float64(c) * idf[j]
			}
		}
		l2Normalize(row)
		rows[i] = row
	}
	return Matrix{Vocabulary: vocab, Rows: rows}
}

func (v *Vectorizer) selectVocabulary(df, total map[string]int, n int) []string {
	maxDocs := n
	// A ratio bound only applies once the corpus can hold a document outside it.
	if v.cfg.MaxDF < 1 && float64(n)*(1-v.cfg.MaxDF) >= 1 {
		maxDocs = int(math.Floor(v.cfg.MaxDF * float64(n)))
	}

	terms := make([]string, 0, len(df))
	for term, d := range df {
		if d >= v.cfg.MinDF && d <= maxDocs {
			terms = append(terms, term)
		}
	}

	if v.cfg.MaxFeatures > 0 && len(terms) > v.cfg.MaxFeatures {
		sort.Slice(terms, func(i, j int) bool {
			if total[terms[i]] != total[terms[j]] {
				return total[terms[i]] > total[terms[j]]
			}
			return terms[i] < terms[j]
		})
		terms = terms[:v.cfg.MaxFeatures]
	}
	sort.Strings(terms)
	return terms
}

func l2Normalize(row []float64) {
	var sum float64
	for _, x := range row {
		sum += x * x
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for i := range row {
		row[i] /= norm
	}
}

// Cosine returns the cosine of the angle between a and b, or 0 when either
// is a zero vector.
func Cosine(a, b []float64) float64 {
	var dot, na, nb float64
	for i := range a {
		if i >= len(b) {
			break
		}
		dot += a[i] * b[i]
	}
	for _, x := range a {
		na += x * x
	}
	for _, x := range b {
		nb += x * x
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
