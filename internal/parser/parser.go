// Package parser extracts plain text from uploaded resume files. Failures
// are recorded on the returned ParsedResume rather than returned as errors,
// so the analysis pipeline can fall back to an empty assessment and the
// result cache can recognize failed parses.
package parser

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"

	"o1ready/internal/errors"
	"o1ready/internal/types"
	"o1ready/internal/utils"
)

// Parser turns uploaded resume bytes into a ParsedResume.
type Parser struct {
	logger *errors.Logger
}

// New creates a resume parser.
func New(logger *errors.Logger) *Parser {
	return &Parser{logger: logger}
}

// Parse extracts text from the given file content. The file type is detected
// from the filename extension. Unsupported types and extraction failures
// produce a ParsedResume with ParseSuccess=false and the cause in
// ErrorMessage.
func (p *Parser) Parse(filename string, content []byte) types.ParsedResume {
	fileType, ok := detectFileType(filename)
	if !ok {
		return types.ParsedResume{
			Filename:     filename,
			FileType:     types.FileTypePDF,
			ParseSuccess: false,
			ErrorMessage: "Unsupported file type. Please upload a PDF, DOCX, or plain text file.",
		}
	}

	var rawText string
	var err error

	switch fileType {
	case types.FileTypePDF:
		rawText, err = extractPDFText(content)
	case types.FileTypeDOCX:
		rawText, err = extractDocxText(content)
	default:
		rawText = string(content)
	}

	if err != nil {
		if p.logger != nil {
			p.logger.Warn("Resume text extraction failed",
				"filename", filename,
				"file_type", fileType,
				"error", err)
		}
		return types.ParsedResume{
			Filename:     filename,
			FileType:     fileType,
			ParseSuccess: false,
			ErrorMessage: err.Error(),
		}
	}

	rawText = CleanText(rawText)
	if rawText == "" {
		return types.ParsedResume{
			Filename:     filename,
			FileType:     fileType,
			ParseSuccess: false,
			ErrorMessage: "No text could be extracted from the file.",
		}
	}

	if p.logger != nil {
		p.logger.Debug("Resume parsed",
			"filename", filename,
			"file_type", fileType,
			"text_length", len(rawText))
	}

	return types.ParsedResume{
		Filename:     filename,
		RawText:      rawText,
		FileType:     fileType,
		ParseSuccess: true,
	}
}

// detectFileType maps a filename extension to a supported resume format.
func detectFileType(filename string) (types.FileType, bool) {
	switch utils.GetFileExtension(filename) {
	case ".pdf":
		return types.FileTypePDF, true
	case ".docx":
		return types.FileTypeDOCX, true
	case ".txt", ".md", ".markdown", ".text":
		return types.FileTypeText, true
	default:
		return "", false
	}
}

// extractPDFText pulls plain text from every readable page. Pages that fail
// to decode are skipped so one bad page does not sink the whole resume.
func extractPDFText(content []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("failed to read PDF: %w", err)
	}

	var textBuilder strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		textBuilder.WriteString(text)
		textBuilder.WriteString("\n\n")
	}

	return textBuilder.String(), nil
}

var xmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// extractDocxText reads the document body and strips the WordprocessingML
// markup, keeping paragraph breaks.
func extractDocxText(content []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("failed to read DOCX: %w", err)
	}
	defer func() { _ = doc.Close() }()

	raw := doc.Editable().GetContent()
	raw = strings.ReplaceAll(raw, "</w:p>", "\n")
	raw = xmlTagPattern.ReplaceAllString(raw, "")
	return html.UnescapeString(raw), nil
}

// CleanText trims each line and drops blank ones, normalizing extraction
// output across file formats.
func CleanText(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	var cleaned []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
