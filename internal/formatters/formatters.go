package formatters

import (
	"encoding/json"
	"fmt"
	"strings"

	"o1ready/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	// Register default formatters
	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "ReadinessReport", &ReadinessTextFormatter{})
	registry.RegisterFormatter("markdown", "ReadinessReport", &ReadinessMarkdownFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	// Try specific formatter first
	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		// Fall back to generic formatter
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.ReadinessReport:
		return "ReadinessReport"
	default:
		return "any"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// ReadinessTextFormatter handles text formatting for readiness reports
type ReadinessTextFormatter struct{}

func (rtf *ReadinessTextFormatter) Format(data any) (string, error) {
	report, ok := data.(types.ReadinessReport)
	if !ok {
		return "", fmt.Errorf("expected ReadinessReport, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== O-1A READINESS REPORT ===\n\n")
	output.WriteString(fmt.Sprintf("Resume: %s\n", report.Filename))
	output.WriteString(fmt.Sprintf("Score: %d/100 (%s)\n", report.Result.Score, report.Result.Tier))
	output.WriteString(fmt.Sprintf("Criteria met: %d of 8\n", report.Result.MetCount))
	if report.Result.ThresholdMet {
		output.WriteString("Threshold: MET (at least 3 criteria satisfied)\n\n")
	} else {
		output.WriteString("Threshold: NOT MET (at least 3 criteria required)\n\n")
	}

	output.WriteString("=== CRITERIA ===\n\n")
	for i, c := range report.Assessment.Criteria {
		status := "NOT MET"
		if c.Met {
			status = "MET"
		}
		output.WriteString(fmt.Sprintf("%d. %s [%s] (confidence: %.0f%%)\n", i+1, c.Name, status, c.Confidence*100))
		if c.Reasoning != "" {
			output.WriteString("   Reasoning: ")
			output.WriteString(c.Reasoning)
			output.WriteString("\n")
		}
		for _, evidence := range c.Evidence {
			output.WriteString(fmt.Sprintf("   - %s\n", evidence))
		}
		output.WriteString("\n")
	}

	if len(report.Recommendations) > 0 {
		output.WriteString("=== RECOMMENDATIONS ===\n\n")
		for i, rec := range report.Recommendations {
			output.WriteString(fmt.Sprintf("%d. [%s] %s\n", i+1, rec.Priority, rec.Criterion))
			output.WriteString("   Action: ")
			output.WriteString(rec.Action)
			output.WriteString("\n")
			output.WriteString("   Rationale: ")
			output.WriteString(rec.Rationale)
			output.WriteString("\n\n")
		}
	} else {
		output.WriteString("No recommendations: every criterion is already met.\n")
	}

	return output.String(), nil
}

func (rtf *ReadinessTextFormatter) SupportedType() string {
	return "ReadinessReport"
}

// ReadinessMarkdownFormatter handles markdown formatting for readiness reports
type ReadinessMarkdownFormatter struct{}

func (rmf *ReadinessMarkdownFormatter) Format(data any) (string, error) {
	report, ok := data.(types.ReadinessReport)
	if !ok {
		return "", fmt.Errorf("expected ReadinessReport, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# O-1A Readiness Report\n\n")
	output.WriteString(fmt.Sprintf("**Resume:** %s\n\n", report.Filename))
	output.WriteString(fmt.Sprintf("**Score:** %d/100 (%s)\n\n", report.Result.Score, report.Result.Tier))
	output.WriteString(fmt.Sprintf("**Criteria met:** %d of 8\n\n", report.Result.MetCount))
	if report.Result.ThresholdMet {
		output.WriteString("**Threshold:** met (at least 3 criteria satisfied)\n\n")
	} else {
		output.WriteString("**Threshold:** not met (at least 3 criteria required)\n\n")
	}

	output.WriteString("## Criteria\n\n")
	for _, c := range report.Assessment.Criteria {
		status := "not met"
		if c.Met {
			status = "met"
		}
		output.WriteString(fmt.Sprintf("### %s\n\n", c.Name))
		output.WriteString(fmt.Sprintf("**Status:** %s (confidence: %.0f%%)\n\n", status, c.Confidence*100))
		if c.Reasoning != "" {
			output.WriteString(c.Reasoning)
			output.WriteString("\n\n")
		}
		if len(c.Evidence) > 0 {
			output.WriteString("**Evidence:**\n\n")
			for _, evidence := range c.Evidence {
				output.WriteString(fmt.Sprintf("- %s\n", evidence))
			}
			output.WriteString("\n")
		}
	}

	if len(report.Recommendations) > 0 {
		output.WriteString("## Recommendations\n\n")
		for i, rec := range report.Recommendations {
			output.WriteString(fmt.Sprintf("### %d. %s\n\n", i+1, rec.Criterion))
			output.WriteString(fmt.Sprintf("**Priority:** %s\n\n", rec.Priority))
			output.WriteString("**Action:** ")
			output.WriteString(rec.Action)
			output.WriteString("\n\n")
			output.WriteString("**Rationale:** ")
			output.WriteString(rec.Rationale)
			output.WriteString("\n\n")
		}
	} else {
		output.WriteString("## Recommendations\n\nEvery criterion is already met.\n")
	}

	return output.String(), nil
}

func (rmf *ReadinessMarkdownFormatter) SupportedType() string {
	return "ReadinessReport"
}

// Global formatter registry
var GlobalRegistry = NewFormatterRegistry()
