package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeText(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
		want string
	}{
		{"utf8", []byte("Résumé: Go developer"), "Résumé: Go developer"},
		{"utf8 with bom", []byte("\xEF\xBB\xBFPython"), "Python"},
		{"latin1 fallback", []byte{'C', 'a', 'f', 0xE9}, "Café"},
		{"empty", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DecodeText(tt.raw))
		})
	}
}

func TestCleanExtractedText(t *testing.T) {
	in := "  Work   Experience\t\n\n\n- Built   APIs in Go  \r\n\n"
	assert.Equal(t, "Work Experience\n- Built APIs in Go", CleanExtractedText(in))
	assert.Equal(t, "", CleanExtractedText(""))
}

func TestValidateInputFile(t *testing.T) {
	dir := t.TempDir()
	small := filepath.Join(dir, "resume.txt")
	require.NoError(t, os.WriteFile(small, []byte("python"), 0600))

	assert.NoError(t, ValidateInputFile(small, 1024))
	assert.Error(t, ValidateInputFile(small, 3))
	assert.Error(t, ValidateInputFile(dir, 0))
	assert.Error(t, ValidateInputFile(filepath.Join(dir, "missing.txt"), 0))
	assert.Error(t, ValidateInputFile("", 0))
}

func TestGetFileInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Job.MD")
	require.NoError(t, os.WriteFile(path, make([]byte, 2048), 0600))

	info, err := GetFileInfo(path)
	require.NoError(t, err)
	assert.Equal(t, "Job.MD", info.Name)
	assert.Equal(t, ".md", info.Extension)
	assert.Equal(t, int64(2048), info.Size)
	assert.True(t, IsTextFile(path))
}

func TestFormatFileSize(t *testing.T) {
	assert.Equal(t, "512 B", FormatFileSize(512))
	assert.Equal(t, "1.5 KB", FormatFileSize(1536))
	assert.Equal(t, "10.0 MB", FormatFileSize(DefaultMaxFileSize))
}
