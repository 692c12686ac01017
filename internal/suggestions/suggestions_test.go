package suggestions

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testResume = `Summary
Backend engineer with experience building APIs.
- Developed billing service in Go
- Implemented CI pipelines
Skills: Go, SQL, Docker`

	testJob = `Requirements: Kubernetes, Terraform, GraphQL.
Must have: strong communication.
We use AWS, React and PostgreSQL on a SaaS platform for enterprise customers.
You will have built and designed high-throughput services.`
)

func TestGenerateHasAllCategories(t *testing.T) {
	report := Generate(testResume, testJob, []string{"Kubernetes", "communication"})

	for _, c := range Categories {
		list, ok := report[c]
		require.True(t, ok, "missing category %s", c)
		assert.NotNil(t, list)
	}
	assert.Len(t, report, len(Categories))
	assert.Positive(t, report.Total())
}

func TestGenerateIsDeterministic(t *testing.T) {
	missing := []string{"Kubernetes", "Terraform", "communication", "python programming"}
	first := Generate(testResume, testJob, missing)
	for range 5 {
		assert.Equal(t, first, Generate(testResume, testJob, missing))
	}
}

func TestGenerateNeverPanicsOnEmptyInput(t *testing.T) {
	assert.NotPanics(t, func() {
		report := Generate("", "", nil)
		assert.Equal(t, []string{AllSkillsPresent}, report[MissingSkills])
	})
}

func TestMissingSkillSuggestions(t *testing.T) {
	assert.Equal(t, []string{AllSkillsPresent}, missingSkillSuggestions(nil))

	got := missingSkillSuggestions([]string{"Python", "Docker", "Leadership", "Rust", "AWS"})
	assert.Equal(t, []string{
		"Consider adding these technical skills to your resume: Python, Rust",
		"Highlight any projects or experience where you've used similar technologies",
		"Include experience with these tools/platforms: Docker, AWS",
		"Mention any certifications or training in these technologies",
		"Emphasize these soft skills with specific examples: Leadership",
		"Use quantifiable achievements to demonstrate these capabilities",
		"High priority skills to develop: Python, AWS",
	}, got)
}

func TestClassifyMissing(t *testing.T) {
	assert.Equal(t, groupTechnical, classifyMissing("PostgreSQL"))
	assert.Equal(t, groupTools, classifyMissing("GitHub Actions"))
	assert.Equal(t, groupSoft, classifyMissing("Project Management"))
	assert.Equal(t, groupTechnical, classifyMissing("Erlang"))
}

func TestContentSuggestions(t *testing.T) {
	got := contentSuggestions(testResume, testJob)

	assert.Contains(t, got, "Your resume appears brief. Consider adding more details about your experience and achievements.")
	assert.Contains(t, got, "Add quantifiable achievements (e.g., 'Increased efficiency by 25%', 'Managed team of 5')")
	assert.Contains(t, got, "Use more strong action verbs to describe your accomplishments")
	assert.Contains(t, got, "Consider mentioning experience related to: kubernetes, terraform, graphql, strong communication")
	assert.Contains(t, got, "Include more industry-specific terminology to show domain knowledge")

	long := strings.Repeat("Led 12 teams, improved latency 30% and delivered 4 launches. ", 80) +
		"developed implemented managed created designed"
	got = contentSuggestions(long, "")
	assert.Contains(t, got, "Your resume is quite lengthy. Consider condensing to focus on most relevant experience.")
	assert.NotContains(t, got, "Use more strong action verbs to describe your accomplishments")
	assert.NotContains(t, got, "Include more industry-specific terminology to show domain knowledge")
}

func TestKeyRequirements(t *testing.T) {
	got := keyRequirements("Required: Go, gRPC & Kafka; Responsibilities: design the data platform for millions of users.")
	assert.Equal(t, []string{"grpc", "kafka"}, got)
}

func TestJobKeywords(t *testing.T) {
	got := jobKeywords("Build APIs with Next.js and MySQL on AWS. Event-driven design, CI/CD and Docker.")
	assert.Equal(t, []string{"AWS", "CI", "CD", "Next.js", "MySQL", "Event-driven", "docker", "ci/cd"}, got)
}

func TestKeywordSuggestions(t *testing.T) {
	got := keywordSuggestions("I worked on Docker and AWS.", "Collaborated on Docker, AWS and Kubernetes.")

	assert.Contains(t, got, "Consider incorporating these keywords: kubernetes")
	assert.Contains(t, got, "Reduce keyword stuffing - focus on natural integration")
	assert.Contains(t, got, "Consider using 'collaborated' instead of 'worked' to match job language")

	got = keywordSuggestions("", "AWS")
	assert.Contains(t, got, "Increase relevant keyword density while maintaining natural flow")
}

func TestStructureSuggestions(t *testing.T) {
	got := structureSuggestions("Jane Doe\nI write code.")
	assert.Equal(t, []string{
		"Add a professional summary at the top highlighting your key qualifications",
		"Include a dedicated skills section to showcase your technical abilities",
		"Use bullet points to improve readability and highlight achievements",
	}, got)

	got = structureSuggestions("Summary\nSkills\n- one\n* two")
	assert.Equal(t, []string{"Maintain consistent bullet point formatting throughout"}, got)

	got = structureSuggestions("Summary skills - " + strings.Repeat("x", 150))
	assert.Equal(t, []string{"Consider breaking long paragraphs into shorter, more digestible points"}, got)
}

func TestActionItems(t *testing.T) {
	got := actionItems([]string{"Kubernetes", "Terraform", "Python programming"}, "No numbers here")
	assert.Equal(t, []string{
		"Priority: Start learning Kubernetes through online courses or projects",
		"Consider obtaining certification in Terraform",
		"Look for volunteer or side projects to gain experience in Python programming",
		"Add a detailed work experience section with specific achievements",
		"Quantify your achievements with specific numbers and percentages",
		"Research the company's tech stack and highlight relevant experience",
		"Connect with current employees to understand role requirements better",
		"Create GitHub portfolio showcasing projects with the required technologies",
		"Prepare specific examples demonstrating your problem-solving abilities",
	}, got)

	got = actionItems(nil, "5 years experience")
	assert.Equal(t, []string{
		"Research the company's tech stack and highlight relevant experience",
		"Connect with current employees to understand role requirements better",
		"Prepare specific examples demonstrating your problem-solving abilities",
	}, got)
}
