package ai

import (
	"context"

	"o1ready/internal/types"
)

// AIProvider interface for different AI implementations
// All methods return token usage information - callers can ignore it if not needed
type AIProvider interface {
	AnalyzeResume(ctx context.Context, input types.AnalyzeResumeInput) (types.AnalyzeResumeOutput, *TokenUsage, error)
	RescoreCriterion(ctx context.Context, input types.RescoreCriterionInput) (types.RescoreCriterionOutput, *TokenUsage, error)
	InterviewReply(ctx context.Context, input types.InterviewReplyInput) (types.InterviewReplyOutput, *TokenUsage, error)
	GetModelInfo(ctx context.Context) *ModelInfo
	Close() error
}
