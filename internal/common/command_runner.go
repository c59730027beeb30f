package common

import (
	"context"
	"fmt"
	"os"

	"o1ready/internal/ai"
	"o1ready/internal/criteria"
	"o1ready/internal/errors"
	"o1ready/internal/parser"
	"o1ready/internal/types"
)

// AnalyzeOperationFunc is the signature of the resume analysis AI call with
// token usage reporting.
type AnalyzeOperationFunc func(context.Context, types.AnalyzeResumeInput) (types.AnalyzeResumeOutput, *ai.TokenUsage, error)

// RunResumeAnalysis runs the full analyze pipeline for one resume file: read
// the file, extract its text, map it onto the eight criteria with the model,
// score the assessment, build recommendations, and write the report.
func RunResumeAnalysis(
	ctx context.Context,
	logger *errors.Logger,
	cmdConfig CommandConfig,
	path string,
	analyze AnalyzeOperationFunc,
) error {
	fileProcessor := NewFileProcessor(logger)
	outputHandler := NewOutputHandler(logger)

	filename, content, err := fileProcessor.ReadResumeFile(path)
	if err != nil {
		return err
	}

	parsed := parser.New(logger).Parse(filename, content)
	if !parsed.ParseSuccess {
		return errors.NewParseError(errors.ErrCodeParseFailed,
			fmt.Sprintf("Failed to extract text from %s: %s", filename, parsed.ErrorMessage), nil)
	}

	logger.Info("Starting resume analysis",
		"filename", filename,
		"file_type", parsed.FileType,
		"resume_chars", len(parsed.RawText),
		"output_format", cmdConfig.OutputFormat)

	output, tokenUsage, err := analyze(ctx, types.AnalyzeResumeInput{ResumeText: parsed.RawText})
	if err != nil {
		return err
	}

	// Report token usage
	if tokenUsage != nil {
		if logger != nil {
			logger.Info("AI token usage", "input_tokens", tokenUsage.InputTokens, "output_tokens", tokenUsage.OutputTokens, "total_tokens", tokenUsage.TotalTokens)
		} else {
			fmt.Fprintf(os.Stderr, "AI token usage: input=%d, output=%d, total=%d\n", tokenUsage.InputTokens, tokenUsage.OutputTokens, tokenUsage.TotalTokens)
		}
	}

	assessment, err := criteria.Normalize(types.Assessment{Criteria: output.Criteria})
	if err != nil {
		return err
	}

	score, err := criteria.Score(assessment)
	if err != nil {
		return err
	}

	recommendations, err := criteria.Recommend(assessment)
	if err != nil {
		return err
	}

	report := types.ReadinessReport{
		Filename:        filename,
		Assessment:      assessment,
		Result:          score,
		Recommendations: recommendations,
	}

	return outputHandler.HandleOutput(report, cmdConfig)
}
