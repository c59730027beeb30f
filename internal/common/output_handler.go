package common

import (
	"fmt"

	"o1ready/internal/errors"
	"o1ready/internal/formatters"
)

// CommandConfig holds the output flags shared by report-producing commands.
type CommandConfig struct {
	OutputFile   string
	OutputFormat string
}

// OutputHandler renders a report through the formatter registry and writes
// it to a file or stdout.
type OutputHandler struct {
	fileProcessor *FileProcessor
	registry      *formatters.FormatterRegistry
	logger        *errors.Logger
}

func NewOutputHandler(logger *errors.Logger) *OutputHandler {
	return &OutputHandler{
		fileProcessor: NewFileProcessor(logger),
		registry:      formatters.GlobalRegistry,
		logger:        logger,
	}
}

// HandleOutput formats data and delivers it to the configured destination.
func (oh *OutputHandler) HandleOutput(data any, cfg CommandConfig) error {
	if err := oh.fileProcessor.ValidateOutputFile(cfg.OutputFile); err != nil {
		return err
	}

	output, err := oh.registry.Format(data, cfg.OutputFormat)
	if err != nil {
		return errors.NewValidationError(errors.ErrCodeInvalidFormat,
			fmt.Sprintf("Failed to format output as %s", cfg.OutputFormat), err)
	}

	if cfg.OutputFile == "" {
		fmt.Print(output)
		return nil
	}

	if err := oh.fileProcessor.WriteFile(cfg.OutputFile, output); err != nil {
		return err
	}
	oh.logger.Info("Report written", "file", cfg.OutputFile, "format", cfg.OutputFormat)
	return nil
}
