package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// DefaultMaxFileSize bounds document uploads and CLI inputs.
const DefaultMaxFileSize int64 = 10 * 1024 * 1024

var textExtensions = []string{".txt", ".md", ".markdown", ".text"}

// FileInfo describes an input document before it is decoded.
type FileInfo struct {
	Name      string  `json:"name"`
	Path      string  `json:"path"`
	Extension string  `json:"extension"`
	Size      int64   `json:"size"`
	SizeMB    float64 `json:"sizeMb"`
}

// ValidateInputFile checks that path names a readable regular file no larger
// than maxSize bytes. A maxSize of zero disables the size check.
func ValidateInputFile(path string, maxSize int64) error {
	if path == "" {
		return fmt.Errorf("filename cannot be empty")
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("file does not exist: %s", path)
		}
		return fmt.Errorf("cannot access file %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", path)
	}
	if err := ValidateFileSize(info.Size(), maxSize); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("cannot read file %s: %w", path, err)
	}
	return f.Close()
}

// ValidateFileSize rejects sizes above maxSize. Zero or negative maxSize means unlimited.
func ValidateFileSize(size, maxSize int64) error {
	if maxSize > 0 && size > maxSize {
		return fmt.Errorf("file size (%s) exceeds maximum allowed size (%s)",
			FormatFileSize(size), FormatFileSize(maxSize))
	}
	return nil
}

// GetFileInfo stats path and reports its name, extension and size.
func GetFileInfo(path string) (FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileInfo{}, err
	}
	size := info.Size()
	return FileInfo{
		Name:      info.Name(),
		Path:      path,
		Extension: GetFileExtension(path),
		Size:      size,
		SizeMB:    float64(int64(float64(size)/1024/1024*100+0.5)) / 100,
	}, nil
}

// ValidateOutputFile makes sure the parent directory of filename exists.
// An empty filename means stdout.
func ValidateOutputFile(filename string) error {
	if filename == "" {
		return nil
	}
	dir := filepath.Dir(filename)
	if dir == "." {
		return nil
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("cannot create directory %s: %w", dir, err)
		}
	}
	return nil
}

func GetFileExtension(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}

// IsTextFile reports whether filename carries a plain-text extension.
func IsTextFile(filename string) bool {
	return slices.Contains(textExtensions, GetFileExtension(filename))
}

// FormatFileSize returns a human-readable file size
func FormatFileSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}
