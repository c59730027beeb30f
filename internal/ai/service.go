package ai

import (
	"context"
	"fmt"

	"o1ready/internal/config"
	"o1ready/internal/errors"
)

// Service binds an AIProvider to one operation's configuration.
type Service struct {
	Provider AIProvider // Exported for access from server package
	config   *config.OperationAIConfig
	logger   *errors.Logger
}

// NewService builds the provider named by cfg.Provider for the given
// operation. Each operation (analyze, rescore, interview) gets its own
// service so model and breaker settings stay independent.
func NewService(cfg *config.OperationAIConfig, operationType string, logger *errors.Logger) (*Service, error) {
	logger.Debug("Initializing AI service",
		"provider", cfg.Provider,
		"operation_type", operationType,
		"model", cfg.Model,
		"temperature", *cfg.Temperature,
		"timeout", *cfg.Timeout,
		"max_retries", *cfg.MaxRetries,
		"use_system_prompts", *cfg.UseSystemPrompts)

	if cfg.Provider != "gemini" {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("Unsupported AI provider: %s", cfg.Provider), nil)
	}

	provider, err := NewGeminiProvider(cfg, operationType, logger)
	if err != nil {
		return nil, errors.NewAIError(errors.ErrCodeAIServiceFailed,
			"Failed to create AI provider", err)
	}

	return &Service{Provider: provider, config: cfg, logger: logger}, nil
}

// GetModelInfo reports model availability for health checks.
func (s *Service) GetModelInfo(ctx context.Context) any {
	return s.Provider.GetModelInfo(ctx)
}
