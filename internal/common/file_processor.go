package common

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"o1ready/internal/errors"
	"o1ready/internal/utils"
)

// FileProcessor handles common file operations
type FileProcessor struct {
	logger *errors.Logger
}

// NewFileProcessor creates a new file processor instance
func NewFileProcessor(logger *errors.Logger) *FileProcessor {
	return &FileProcessor{logger: logger}
}

// ReadFile reads content from a file with proper error handling
func (fp *FileProcessor) ReadFile(filename string) (string, error) {
	content, err := fp.readFileBytes(filename)
	if err != nil {
		return "", err
	}
	return string(content), nil
}

// ReadResumeFile validates and reads a resume file, returning its base name
// and raw bytes. PDF and DOCX content stays binary until the parser sees it.
func (fp *FileProcessor) ReadResumeFile(path string) (string, []byte, error) {
	if err := utils.ValidateInputFile(path); err != nil {
		return "", nil, errors.NewValidationError("INVALID_INPUT_FILE",
			fmt.Sprintf("Invalid file %s", path), err)
	}

	// Warn about extensions the parser does not recognize
	if !utils.IsResumeFile(path) {
		if fp.logger != nil {
			fp.logger.Warn("File extension is not a recognized resume format, treating as plain text",
				"filename", path)
		} else {
			fmt.Fprintf(os.Stderr, "Warning: %s is not a recognized resume format\n", path)
		}
	}

	content, err := fp.readFileBytes(path)
	if err != nil {
		return "", nil, err
	}

	return filepath.Base(path), content, nil
}

// readFileBytes reads raw content from a file with proper error handling
func (fp *FileProcessor) readFileBytes(filename string) ([]byte, error) {
	file, err := os.Open(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewIOError(errors.ErrCodeFileNotFound,
				fmt.Sprintf("File not found: %s", filename), err)
		}
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Cannot read file: %s", filename), err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			// Log the error but don't override the main operation result
			if fp.logger != nil {
				fp.logger.Warn("Failed to close file", "filename", filename, "error", err)
			}
		}
	}()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Failed to read file content: %s", filename), err)
	}

	return content, nil
}

// WriteFile writes content to a file with directory creation
func (fp *FileProcessor) WriteFile(filename, content string) error {
	dir := filepath.Dir(filename)
	if dir != "." {
		err := os.MkdirAll(dir, 0750)
		if err != nil {
			return errors.NewIOError("DIRECTORY_CREATE_FAILED",
				fmt.Sprintf("Cannot create directory: %s", dir), err)
		}
	}

	err := os.WriteFile(filename, []byte(content), 0600)
	if err != nil {
		return errors.NewIOError("FILE_WRITE_FAILED",
			fmt.Sprintf("Cannot write file: %s", filename), err)
	}

	return nil
}

// ValidateOutputFile validates output file path
func (fp *FileProcessor) ValidateOutputFile(filename string) error {
	if filename == "" {
		return nil // stdout is valid
	}

	if err := utils.ValidateOutputFile(filename); err != nil {
		return errors.NewValidationError("INVALID_OUTPUT_FILE",
			fmt.Sprintf("Invalid output file: %s", filename), err)
	}

	return nil
}
