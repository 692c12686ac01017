package similarity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	sampleResume = `Summary: backend engineer with 5 years experience with Python, AWS and Docker.
Experience: built data pipelines in Python, deployed services on Kubernetes, led a team of four.
Skills: Python, SQL, Docker, Kubernetes, communication.
Education: BSc Computer Science.`

	sampleJob = `We are looking for a Python developer with AWS and Docker experience.
Skills: Python, Docker, Terraform, strong communication.
Education: degree in computer science or equivalent.`
)

func newTestEngine() *Engine {
	return New(DefaultConfig(), nil)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"lowercase and collapse", "  Go   Developer\n\tRemote ", "go developer remote"},
		{"keeps sentence punctuation", "Python, SQL; Go: yes! ok? done.", "python, sql; go: yes! ok? done."},
		{"strips symbols", "C++ & C# (senior)", "c c senior"},
		{"only punctuation", "@#$%^&*()", ""},
		{"unicode letters kept", "Développeur Straße", "développeur straße"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "héll", Truncate("héllo", 4))
	assert.Equal(t, "hello", Truncate("hello", 0))
	assert.Equal(t, "hello", Truncate("hello", 10))
}

func TestComputeSelfSimilarity(t *testing.T) {
	engine := newTestEngine()

	for _, text := range []string{sampleResume, sampleJob, "kubernetes", "Python developer"} {
		score := engine.Compute(text, text)
		assert.InDelta(t, 100, score, 1e-6, "text %q", text)
	}
}

func TestComputeSymmetry(t *testing.T) {
	engine := newTestEngine()

	pairs := [][2]string{
		{sampleResume, sampleJob},
		{"python developer", "senior python engineer"},
		{"rust", "haskell"},
	}
	for _, p := range pairs {
		assert.Equal(t, engine.Compute(p[0], p[1]), engine.Compute(p[1], p[0]))
	}
}

func TestComputeBounds(t *testing.T) {
	engine := newTestEngine()

	inputs := []string{"", "   ", "!!!", "a", "python", sampleResume, sampleJob, "日本語のテキスト", "x y z"}
	for _, a := range inputs {
		for _, b := range inputs {
			score := engine.Compute(a, b)
			assert.GreaterOrEqual(t, score, 0.0)
			assert.LessOrEqual(t, score, 100.0)
		}
	}
}

func TestComputeEdgeCases(t *testing.T) {
	engine := newTestEngine()

	assert.Zero(t, engine.Compute("", sampleJob), "empty resume")
	assert.Zero(t, engine.Compute(sampleResume, "  \n\t"), "whitespace job")
	assert.Zero(t, engine.Compute("golang kubernetes", "painting sculpture"), "disjoint vocabulary")
	assert.Zero(t, engine.Compute("the and of", "the and of"), "only stop words")

	related := engine.Compute(sampleResume, sampleJob)
	assert.Greater(t, related, 10.0)
	assert.Less(t, related, 100.0)
}

func TestComputeRespectsInputCap(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxInputChars = 6
	engine := New(cfg, nil)

	score := engine.Compute("python "+strings.Repeat("java ", 100), "python")
	assert.InDelta(t, 100, score, 1e-6)
}

func TestBatch(t *testing.T) {
	engine := newTestEngine()

	scores := engine.Batch([]string{sampleResume, "", sampleJob}, sampleJob)
	require.Len(t, scores, 3)
	assert.Zero(t, scores[1])
	assert.InDelta(t, 100, scores[2], 1e-6)
	assert.Equal(t, engine.Compute(sampleResume, sampleJob), scores[0])
}

func TestExtractSections(t *testing.T) {
	text := "Profile: engineer.\nWork Experience: Acme Corp.\nSkills: Go, SQL.\nEducation: MSc."
	sections := ExtractSections(text)

	assert.Equal(t, "work experience: acme corp.\n", sections[SectionExperience])
	assert.Equal(t, "skills: go, sql.\n", sections[SectionSkills])
	assert.Equal(t, "education: msc.", sections[SectionEducation])
	assert.Equal(t, "profile: engineer.\nwork ", sections[SectionSummary])

	none := ExtractSections("nothing to see")
	for _, s := range Sections {
		assert.Empty(t, none[s])
	}
}

func TestSectionSimilarities(t *testing.T) {
	engine := newTestEngine()

	scores := engine.SectionSimilarities(sampleResume, sampleJob)
	require.NotEmpty(t, scores)
	assert.Contains(t, scores, SectionKey(SectionSkills, SectionSkills))
	assert.Contains(t, scores, SectionKey(SectionEducation, SectionEducation))
	// The job has no summary section.
	assert.NotContains(t, scores, SectionKey(SectionSkills, SectionSummary))
	for key, score := range scores {
		assert.GreaterOrEqual(t, score, 0.0, key)
		assert.LessOrEqual(t, score, 100.0, key)
	}

	assert.Empty(t, engine.SectionSimilarities("", sampleJob))
}

func TestInfo(t *testing.T) {
	info := newTestEngine().Info()
	assert.Equal(t, "tf-idf", info.Method)
	assert.Equal(t, 5000, info.MaxFeatures)
	assert.Equal(t, [2]int{1, 2}, info.NgramRange)
}

func BenchmarkCompute(b *testing.B) {
	engine := newTestEngine()
	resume := strings.Repeat(sampleResume+"\n", 20)
	for b.Loop() {
		engine.Compute(resume, sampleJob)
	}
}
