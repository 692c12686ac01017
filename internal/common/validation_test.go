package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumematch/internal/errors"
	"resumematch/internal/types"
)

func TestValidateOutputFormat(t *testing.T) {
	supported := []string{"json", "text", "markdown"}
	tests := []struct {
		name          string
		format        string
		supported     []string
		expectedError string
	}{
		{name: "json", format: "json", supported: supported},
		{name: "markdown", format: "markdown", supported: supported},
		{
			name:          "xml",
			format:        "xml",
			supported:     supported,
			expectedError: "unsupported output format 'xml'. Supported formats: [json text markdown]",
		},
		{
			name:          "case sensitive",
			format:        "JSON",
			supported:     supported,
			expectedError: "unsupported output format 'JSON'. Supported formats: [json text markdown]",
		},
		{
			name:          "empty format",
			format:        "",
			supported:     supported,
			expectedError: "unsupported output format ''. Supported formats: [json text markdown]",
		},
		{name: "no restriction", format: "xml", supported: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputFormat(tt.format, tt.supported)
			if tt.expectedError == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.expectedError)
		})
	}
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name    string
		input   any
		wantErr string
	}{
		{
			name:  "valid match",
			input: types.MatchInput{Resume: "Go developer", JobDescription: "Hiring Go developer"},
		},
		{
			name:    "missing job",
			input:   types.MatchInput{Resume: "Go developer"},
			wantErr: "jobDescription is required",
		},
		{
			name:    "empty rank",
			input:   types.RankInput{JobDescription: "job"},
			wantErr: "resumes is required",
		},
		{
			name: "rank document without text",
			input: types.RankInput{
				JobDescription: "job",
				Resumes:        []types.NamedDocument{{Name: "a.txt"}},
			},
			wantErr: "resumes[0].text is required",
		},
		{
			name:    "similarity",
			input:   types.SimilarityInput{TextA: "a"},
			wantErr: "textB is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.input)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidRequest))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateStructTooManyResumes(t *testing.T) {
	input := types.RankInput{JobDescription: "job"}
	for range 51 {
		input.Resumes = append(input.Resumes, types.NamedDocument{Name: "r", Text: "t"})
	}
	err := ValidateStruct(input)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resumes must contain at most 50 item(s)")
}

func BenchmarkValidateOutputFormat(b *testing.B) {
	supportedFormats := []string{"json", "text", "markdown"}
	for b.Loop() {
		_ = ValidateOutputFormat("xml", supportedFormats)
	}
}
