package parser

import (
	"strings"
	"testing"

	"o1ready/internal/types"
)

func TestDetectFileType(t *testing.T) {
	tests := []struct {
		name      string
		filename  string
		expected  types.FileType
		supported bool
	}{
		{name: "pdf lowercase", filename: "resume.pdf", expected: types.FileTypePDF, supported: true},
		{name: "pdf uppercase", filename: "RESUME.PDF", expected: types.FileTypePDF, supported: true},
		{name: "docx", filename: "resume.docx", expected: types.FileTypeDOCX, supported: true},
		{name: "txt", filename: "resume.txt", expected: types.FileTypeText, supported: true},
		{name: "markdown", filename: "resume.md", expected: types.FileTypeText, supported: true},
		{name: "legacy doc unsupported", filename: "resume.doc", supported: false},
		{name: "image unsupported", filename: "resume.png", supported: false},
		{name: "no extension", filename: "resume", supported: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fileType, ok := detectFileType(tt.filename)
			if ok != tt.supported {
				t.Fatalf("Expected supported=%v, got %v", tt.supported, ok)
			}
			if tt.supported && fileType != tt.expected {
				t.Errorf("Expected file type %q, got %q", tt.expected, fileType)
			}
		})
	}
}

func TestParseUnsupportedFileType(t *testing.T) {
	p := New(nil)

	result := p.Parse("resume.xlsx", []byte("irrelevant"))

	if result.ParseSuccess {
		t.Error("Expected parse failure for unsupported file type")
	}
	if result.ErrorMessage == "" {
		t.Error("Expected error message for unsupported file type")
	}
	if !strings.Contains(result.ErrorMessage, "Unsupported file type") {
		t.Errorf("Unexpected error message: %q", result.ErrorMessage)
	}
	if result.Filename != "resume.xlsx" {
		t.Errorf("Expected filename preserved, got %q", result.Filename)
	}
}

func TestParsePlainText(t *testing.T) {
	p := New(nil)
	content := "Jane Doe\n\n  Senior Engineer  \n\n\nIEEE Fellow since 2020\n"

	result := p.Parse("resume.txt", []byte(content))

	if !result.ParseSuccess {
		t.Fatalf("Expected parse success, got error: %s", result.ErrorMessage)
	}
	if result.FileType != types.FileTypeText {
		t.Errorf("Expected file type %q, got %q", types.FileTypeText, result.FileType)
	}

	expected := "Jane Doe\nSenior Engineer\nIEEE Fellow since 2020"
	if result.RawText != expected {
		t.Errorf("Expected cleaned text %q, got %q", expected, result.RawText)
	}
}

func TestParseEmptyContentFails(t *testing.T) {
	p := New(nil)

	tests := []struct {
		name    string
		content string
	}{
		{name: "empty file", content: ""},
		{name: "whitespace only", content: "   \n\t\n   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := p.Parse("resume.txt", []byte(tt.content))
			if result.ParseSuccess {
				t.Error("Expected parse failure for empty content")
			}
			if result.ErrorMessage == "" {
				t.Error("Expected error message for empty content")
			}
		})
	}
}

func TestParseCorruptPDFFails(t *testing.T) {
	p := New(nil)

	result := p.Parse("resume.pdf", []byte("this is not a pdf"))

	if result.ParseSuccess {
		t.Error("Expected parse failure for corrupt PDF")
	}
	if result.ErrorMessage == "" {
		t.Error("Expected error message for corrupt PDF")
	}
	if result.FileType != types.FileTypePDF {
		t.Errorf("Expected file type preserved as %q, got %q", types.FileTypePDF, result.FileType)
	}
}

func TestParseCorruptDocxFails(t *testing.T) {
	p := New(nil)

	result := p.Parse("resume.docx", []byte("this is not a docx"))

	if result.ParseSuccess {
		t.Error("Expected parse failure for corrupt DOCX")
	}
	if result.ErrorMessage == "" {
		t.Error("Expected error message for corrupt DOCX")
	}
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty", input: "", expected: ""},
		{name: "single line", input: "hello", expected: "hello"},
		{name: "trims lines", input: "  a  \n  b  ", expected: "a\nb"},
		{name: "drops blank lines", input: "a\n\n\n\nb", expected: "a\nb"},
		{name: "trims surrounding whitespace", input: "\n\n  a  \n\n", expected: "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanText(tt.input); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}
