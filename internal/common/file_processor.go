package common

import (
	"fmt"
	"os"
	"path/filepath"

	"resumematch/internal/errors"
	"resumematch/internal/types"
	"resumematch/internal/utils"
)

// FileProcessor handles common file operations
type FileProcessor struct {
	logger  *errors.Logger
	maxSize int64
}

// NewFileProcessor creates a file processor that rejects inputs larger than
// maxSize bytes. Zero disables the limit.
func NewFileProcessor(logger *errors.Logger, maxSize int64) *FileProcessor {
	return &FileProcessor{logger: errors.OrDiscard(logger), maxSize: maxSize}
}

// ReadFile reads a document and returns its cleaned text
func (fp *FileProcessor) ReadFile(filename string) (string, error) {
	raw, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.NewIOError(errors.ErrCodeFileNotFound,
				fmt.Sprintf("File not found: %s", filename), err)
		}
		return "", errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Cannot read file: %s", filename), err)
	}
	return utils.CleanExtractedText(utils.DecodeText(raw)), nil
}

// WriteFile writes content to a file with directory creation
func (fp *FileProcessor) WriteFile(filename, content string) error {
	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return errors.NewIOError("DIRECTORY_CREATE_FAILED",
				fmt.Sprintf("Cannot create directory: %s", dir), err)
		}
	}

	if err := os.WriteFile(filename, []byte(content), 0600); err != nil {
		return errors.NewIOError("FILE_WRITE_FAILED",
			fmt.Sprintf("Cannot write file: %s", filename), err)
	}
	return nil
}

// ValidateAndReadFiles validates and reads multiple input files. An empty
// document is rejected.
func (fp *FileProcessor) ValidateAndReadFiles(filenames ...string) ([]string, error) {
	contents := make([]string, len(filenames))

	for i, filename := range filenames {
		if err := fp.validate(filename); err != nil {
			return nil, err
		}

		if !utils.IsTextFile(filename) {
			fp.logger.Warn("File may not be a text file", "filename", filename)
		}

		content, err := fp.ReadFile(filename)
		if err != nil {
			return nil, err
		}
		if content == "" {
			return nil, errors.NewValidationError(errors.ErrCodeEmptyInput,
				fmt.Sprintf("File has no text content: %s", filename), nil)
		}
		contents[i] = content
	}

	return contents, nil
}

// ReadDocuments reads each file as a named document, named by its base name
func (fp *FileProcessor) ReadDocuments(filenames ...string) ([]types.NamedDocument, error) {
	contents, err := fp.ValidateAndReadFiles(filenames...)
	if err != nil {
		return nil, err
	}
	docs := make([]types.NamedDocument, len(filenames))
	for i, filename := range filenames {
		docs[i] = types.NamedDocument{Name: filepath.Base(filename), Text: contents[i]}
	}
	return docs, nil
}

func (fp *FileProcessor) validate(filename string) error {
	if err := utils.ValidateInputFile(filename, fp.maxSize); err != nil {
		code := errors.ErrCodeFileNotReadable
		if info, statErr := os.Stat(filename); statErr != nil && os.IsNotExist(statErr) {
			code = errors.ErrCodeFileNotFound
		} else if statErr == nil && fp.maxSize > 0 && info.Size() > fp.maxSize {
			code = errors.ErrCodeFileTooLarge
		}
		return errors.NewValidationError(code, fmt.Sprintf("Invalid file %s", filename), err)
	}
	return nil
}

// ValidateOutputFile validates output file path
func (fp *FileProcessor) ValidateOutputFile(filename string) error {
	if filename == "" {
		return nil
	}

	if err := utils.ValidateOutputFile(filename); err != nil {
		return errors.NewValidationError("INVALID_OUTPUT_FILE",
			fmt.Sprintf("Invalid output file: %s", filename), err)
	}
	return nil
}
