package ai

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/big"
	"net"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"o1ready/internal/config"
	"o1ready/internal/criteria"
	apperrors "o1ready/internal/errors"
	"o1ready/internal/types"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
)

// interviewResumeContextLimit caps how much resume text is embedded into
// interview prompts. The full text still goes into analyze and rescore.
const interviewResumeContextLimit = 2000

// GeminiProvider implements AIProvider for Google Gemini
type GeminiProvider struct {
	client         *genai.Client
	httpClient     *http.Client
	config         *config.OperationAIConfig
	circuitBreaker *Breaker[*genai.GenerateContentResponse]
	modelBreaker   *Breaker[*genai.Model]
	logger         *apperrors.Logger
}

// Ensure GeminiProvider implements AIProvider
var _ AIProvider = (*GeminiProvider)(nil)

// NewGeminiProvider creates a new Gemini provider instance for a specific operation
func NewGeminiProvider(cfg *config.OperationAIConfig, operationType string, logger *apperrors.Logger) (*GeminiProvider, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, apperrors.NewAIError(apperrors.ErrCodeAIServiceFailed,
			"Failed to create Gemini client", err)
	}

	// Initialize circuit breakers with operation-specific configuration
	circuitBreaker := NewOperationBreaker[*genai.GenerateContentResponse](operationType, cfg, logger)
	modelBreaker := NewModelBreaker[*genai.Model](operationType, cfg, logger)

	return &GeminiProvider{
		client: client,
		httpClient: &http.Client{
			Timeout: *cfg.Timeout,
		},
		config:         cfg,
		circuitBreaker: circuitBreaker,
		modelBreaker:   modelBreaker,
		logger:         logger,
	}, nil
}

// ModelInfo represents information about the AI model
type ModelInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	Version     string `json:"version,omitempty"`
	Available   bool   `json:"available"`
	Error       string `json:"error,omitempty"`
}

// GetModelInfo checks the readiness and availability of the configured model
func (g *GeminiProvider) GetModelInfo(ctx context.Context) *ModelInfo {
	modelInfo := &ModelInfo{
		Name:      g.config.Model,
		Available: false,
	}

	// Create a timeout context for the model check
	checkCtx, cancel := context.WithTimeout(ctx, getAIModelCheckTimeout())
	defer cancel()

	// Get model information from Gemini API with circuit breaker
	model, err := g.modelBreaker.Execute(func() (*genai.Model, error) {
		return g.client.Models.Get(checkCtx, g.config.Model, &genai.GetModelConfig{})
	})
	if err != nil {
		modelInfo.Error = fmt.Sprintf("Failed to get model info: %v", err)

		g.logger.Warn("Model availability check failed",
			"model", g.config.Model,
			"provider", g.config.Provider,
			"error", err.Error())
		return modelInfo
	}

	// Model is available, populate info
	modelInfo.Available = true
	if model.DisplayName != "" {
		modelInfo.DisplayName = model.DisplayName
	}
	if model.Version != "" {
		modelInfo.Version = model.Version
	}

	g.logger.Debug("Model availability check successful",
		"model", g.config.Model,
		"provider", g.config.Provider,
		"display_name", modelInfo.DisplayName,
		"version", modelInfo.Version)

	return modelInfo
}

// executeWithRetry executes an AI operation with retry logic and exponential backoff
func (g *GeminiProvider) executeWithRetry(ctx context.Context, operation string, fn func() (*genai.GenerateContentResponse, error)) (*genai.GenerateContentResponse, error) {
	var lastErr error

	for attempt := 0; attempt <= *g.config.MaxRetries; attempt++ {
		if attempt > 0 {
			g.logger.Warn("Retrying AI operation",
				"operation", operation,
				"attempt", attempt,
				"max_retries", *g.config.MaxRetries,
				"error", lastErr.Error())

			// Exponential backoff with jitter to prevent thundering herd
			baseDelay := time.Duration(math.Pow(2, float64(attempt-1))) * time.Second
			jitterMax := big.NewInt(int64(float64(baseDelay) * 0.1))
			jitterBig, _ := rand.Int(rand.Reader, jitterMax)
			jitter := time.Duration(jitterBig.Int64())
			// Cap maximum backoff at 30 seconds
			backoff := min(baseDelay+jitter, 30*time.Second)

			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		result, err := fn()
		if err == nil {
			if attempt > 0 {
				g.logger.Info("AI operation succeeded after retry",
					"operation", operation,
					"successful_attempt", attempt+1,
					"total_attempts", attempt+1)
			}
			return result, nil
		}

		lastErr = err

		// Don't retry on certain errors (auth, invalid input, etc.)
		if !g.isRetryableError(err) {
			g.logger.Debug("Error is not retryable, stopping retry attempts",
				"operation", operation,
				"error", err.Error())
			break
		}
	}

	g.logger.LogError(lastErr, "AI operation failed after all retry attempts",
		"operation", operation,
		"total_attempts", *g.config.MaxRetries+1)

	return nil, fmt.Errorf("operation '%s' failed after %d retries: %w", operation, *g.config.MaxRetries, lastErr)
}

// isRetryableError determines if an error should trigger a retry
func (g *GeminiProvider) isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	// Check for network errors (timeouts, connection issues)
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return true
		}
		// Consider other network errors retryable (e.g., connection refused)
		return true
	}

	// Check for Google API errors (HTTP status codes)
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
	}

	return false
}

// executeAIOperation is a generic helper to run AI operations with common tracing, circuit breaker, and parsing logic.
func executeAIOperation[Out any](
	g *GeminiProvider,
	ctx context.Context,
	operationName string,
	userPrompt string,
	systemPrompt string,
	genaiConfig *genai.GenerateContentConfig,
	spanAttributes ...attribute.KeyValue,
) (Out, *TokenUsage, error) {
	var output Out
	tracer := otel.Tracer("o1ready.ai.gemini")
	ctx, span := tracer.Start(ctx, "gemini."+operationName)
	defer span.End()

	span.SetAttributes(
		attribute.String("ai.provider", "gemini"),
		attribute.String("ai.model", g.config.Model),
		attribute.Float64("ai.temperature", float64(*g.config.Temperature)),
	)
	span.SetAttributes(spanAttributes...)

	if *g.config.UseSystemPrompts && systemPrompt != "" {
		genaiConfig.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}

	result, err := g.circuitBreaker.Execute(func() (*genai.GenerateContentResponse, error) {
		return g.executeWithRetry(ctx, operationName, func() (*genai.GenerateContentResponse, error) {
			return g.client.Models.GenerateContent(ctx, g.config.Model, genai.Text(userPrompt), genaiConfig)
		})
	})

	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return output, nil, apperrors.NewAIError(apperrors.ErrCodeAIServiceFailed, "Failed to generate content for "+operationName, err)
	}

	if err := json.Unmarshal([]byte(result.Text()), &output); err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return output, nil, apperrors.NewAIError("AI_RESPONSE_PARSE_FAILED", "Failed to parse AI response for "+operationName, err)
	}

	tokenUsage := extractTokenUsage(result)
	if tokenUsage != nil {
		span.SetAttributes(
			attribute.Int64("ai.tokens.input", tokenUsage.InputTokens),
			attribute.Int64("ai.tokens.output", tokenUsage.OutputTokens),
			attribute.Int64("ai.tokens.total", tokenUsage.TotalTokens),
		)
	}

	span.SetAttributes(attribute.Bool("success", true))
	return output, tokenUsage, nil
}

// AnalyzeResume implements AIProvider for the full eight-criterion analysis
func (g *GeminiProvider) AnalyzeResume(ctx context.Context, input types.AnalyzeResumeInput) (types.AnalyzeResumeOutput, *TokenUsage, error) {
	systemPrompt := g.getSystemPrompt("analyze")
	userPrompt := fmt.Sprintf(g.getUserPrompt("analyze"), input.ResumeText)
	genaiConfig := g.buildAnalyzeSchema()

	output, tokenUsage, err := executeAIOperation[types.AnalyzeResumeOutput](
		g,
		ctx,
		"analyze_resume",
		userPrompt,
		systemPrompt,
		genaiConfig,
		attribute.Int("input.resume_length", len(input.ResumeText)),
	)

	if err != nil {
		return types.AnalyzeResumeOutput{}, nil, err
	}

	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		metCount := 0
		for _, c := range output.Criteria {
			if c.Met {
				metCount++
			}
		}
		span.SetAttributes(
			attribute.Int("output.criteria_count", len(output.Criteria)),
			attribute.Int("output.met_count", metCount),
		)
	}

	return output, tokenUsage, nil
}

// RescoreCriterion implements AIProvider for re-evaluating one criterion with
// the gap interview transcript merged in
func (g *GeminiProvider) RescoreCriterion(ctx context.Context, input types.RescoreCriterionInput) (types.RescoreCriterionOutput, *TokenUsage, error) {
	systemPrompt := g.getSystemPrompt("rescore")
	userPrompt := fmt.Sprintf(g.getUserPrompt("rescore"),
		input.Criterion.Name,
		criteria.FormatGuidance(input.Criterion.Name),
		formatOriginalAssessment(input.Criterion),
		input.ResumeText,
		formatTranscript(input.Transcript),
	)
	genaiConfig := g.buildRescoreSchema()

	output, tokenUsage, err := executeAIOperation[types.RescoreCriterionOutput](
		g,
		ctx,
		"rescore_criterion",
		userPrompt,
		systemPrompt,
		genaiConfig,
		attribute.String("criterion", input.Criterion.Name),
		attribute.Int("input.transcript_messages", len(input.Transcript)),
	)

	if err != nil {
		return types.RescoreCriterionOutput{}, nil, err
	}

	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(
			attribute.Bool("output.met", output.Met),
			attribute.Float64("output.confidence", output.Confidence),
		)
	}

	return output, tokenUsage, nil
}

// InterviewReply implements AIProvider for the conversational gap interview
func (g *GeminiProvider) InterviewReply(ctx context.Context, input types.InterviewReplyInput) (types.InterviewReplyOutput, *TokenUsage, error) {
	status := "NOT MET"
	if input.Criterion.Met {
		status = "MET"
	}

	resumeContext := truncateText(input.ResumeText, interviewResumeContextLimit)

	systemPrompt := g.getSystemPrompt("interview")
	userPrompt := fmt.Sprintf(g.getUserPrompt("interview"),
		input.Criterion.Name,
		status,
		criteria.FormatGuidance(input.Criterion.Name),
		resumeContext,
		formatTranscript(input.History),
		input.UserMessage,
	)
	genaiConfig := g.buildInterviewSchema()

	output, tokenUsage, err := executeAIOperation[types.InterviewReplyOutput](
		g,
		ctx,
		"interview_reply",
		userPrompt,
		systemPrompt,
		genaiConfig,
		attribute.String("criterion", input.Criterion.Name),
		attribute.Int("input.history_messages", len(input.History)),
	)

	if err != nil {
		return types.InterviewReplyOutput{}, nil, err
	}

	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(
			attribute.Int("output.suggestions_count", len(output.Suggestions)),
		)
	}

	return output, tokenUsage, nil
}

// GetCircuitBreakerStats returns circuit breaker statistics
func (g *GeminiProvider) GetCircuitBreakerStats() map[string]any {
	return map[string]any{
		"ai_operations":    g.circuitBreaker.Stats(),
		"model_operations": g.modelBreaker.Stats(),
		"overall_healthy":  g.circuitBreaker.Healthy() && g.modelBreaker.Healthy(),
	}
}

// Close implements AIProvider interface
func (g *GeminiProvider) Close() error {
	// Gemini client doesn't have a Close method in current single-shot usage
	return nil
}

// buildAnalyzeSchema creates the response schema for the analyze operation
func (g *GeminiProvider) buildAnalyzeSchema() *genai.GenerateContentConfig {
	genaiConfig := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"criteria": {
					Type: genai.TypeArray,
					Items: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"name":        {Type: genai.TypeString},
							"description": {Type: genai.TypeString},
							"met":         {Type: genai.TypeBoolean},
							"evidence": {
								Type:  genai.TypeArray,
								Items: &genai.Schema{Type: genai.TypeString},
							},
							"reasoning":  {Type: genai.TypeString},
							"confidence": {Type: genai.TypeNumber},
						},
						Required: []string{"name", "description", "met", "reasoning", "confidence"},
					},
				},
			},
			Required: []string{"criteria"},
		},
	}

	g.applyTemperature(genaiConfig)
	return genaiConfig
}

// buildRescoreSchema creates the response schema for the rescore operation
func (g *GeminiProvider) buildRescoreSchema() *genai.GenerateContentConfig {
	genaiConfig := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"met": {Type: genai.TypeBoolean},
				"evidence": {
					Type:  genai.TypeArray,
					Items: &genai.Schema{Type: genai.TypeString},
				},
				"reasoning":  {Type: genai.TypeString},
				"confidence": {Type: genai.TypeNumber},
			},
			Required: []string{"met", "reasoning", "confidence"},
		},
	}

	g.applyTemperature(genaiConfig)
	return genaiConfig
}

// buildInterviewSchema creates the response schema for interview replies
func (g *GeminiProvider) buildInterviewSchema() *genai.GenerateContentConfig {
	genaiConfig := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"message": {Type: genai.TypeString},
				"suggestions": {
					Type:  genai.TypeArray,
					Items: &genai.Schema{Type: genai.TypeString},
				},
			},
			Required: []string{"message"},
		},
	}

	g.applyTemperature(genaiConfig)
	return genaiConfig
}

// applyTemperature copies the configured temperature onto a request config if set
func (g *GeminiProvider) applyTemperature(genaiConfig *genai.GenerateContentConfig) {
	if *g.config.Temperature > 0 {
		genaiConfig.Temperature = g.config.Temperature
	}
}

// getSystemPrompt returns the appropriate system prompt
func (g *GeminiProvider) getSystemPrompt(promptType string) string {
	loadedPrompts, configPrompts := g.getPrompts(promptType)
	var configSystemPrompts *config.SystemPrompts
	if configPrompts != nil {
		configSystemPrompts = &configPrompts.SystemPrompts
	} else {
		configSystemPrompts = &config.SystemPrompts{}
	}

	switch promptType {
	case "analyze":
		return resolvePrompt(
			loadedPrompts.SystemPrompts.AnalyzeResume,
			configSystemPrompts.AnalyzeResume,
			DefaultSystemPrompts.AnalyzeResume,
		)
	case "rescore":
		return resolvePrompt(
			loadedPrompts.SystemPrompts.RescoreCriterion,
			configSystemPrompts.RescoreCriterion,
			DefaultSystemPrompts.RescoreCriterion,
		)
	case "interview":
		return resolvePrompt(
			loadedPrompts.SystemPrompts.InterviewReply,
			configSystemPrompts.InterviewReply,
			DefaultSystemPrompts.InterviewReply,
		)
	default:
		return ""
	}
}

// getUserPrompt returns the appropriate user prompt template
func (g *GeminiProvider) getUserPrompt(promptType string) string {
	loadedPrompts, configPrompts := g.getPrompts(promptType)
	var configUserPrompts *config.UserPrompts
	if configPrompts != nil {
		configUserPrompts = &configPrompts.UserPrompts
	} else {
		configUserPrompts = &config.UserPrompts{}
	}

	switch promptType {
	case "analyze":
		return resolvePrompt(
			loadedPrompts.UserPrompts.AnalyzeResume,
			configUserPrompts.AnalyzeResume,
			DefaultUserPrompts.AnalyzeResume,
		)
	case "rescore":
		return resolvePrompt(
			loadedPrompts.UserPrompts.RescoreCriterion,
			configUserPrompts.RescoreCriterion,
			DefaultUserPrompts.RescoreCriterion,
		)
	case "interview":
		return resolvePrompt(
			loadedPrompts.UserPrompts.InterviewReply,
			configUserPrompts.InterviewReply,
			DefaultUserPrompts.InterviewReply,
		)
	default:
		return ""
	}
}

// TokenUsage represents token usage information from AI responses
type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
}

// AIOperationResult holds the result of an AI operation including token usage
type AIOperationResult struct {
	Error      error
	TokenUsage *TokenUsage
}

// extractTokenUsage extracts token usage information from Gemini API response
func extractTokenUsage(result *genai.GenerateContentResponse) *TokenUsage {
	if result == nil || result.UsageMetadata == nil {
		return nil
	}

	usage := result.UsageMetadata
	return &TokenUsage{
		InputTokens:  int64(usage.PromptTokenCount),
		OutputTokens: int64(usage.CandidatesTokenCount),
		TotalTokens:  int64(usage.TotalTokenCount),
	}
}

// getAIModelCheckTimeout returns the timeout for model availability checks
func getAIModelCheckTimeout() time.Duration {
	return 10 * time.Second
}

// truncateText caps s at limit bytes without splitting a UTF-8 rune.
func truncateText(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// formatTranscript renders a chat history for prompt embedding
func formatTranscript(messages []types.ChatMessage) string {
	if len(messages) == 0 {
		return "(no messages yet)"
	}

	lines := make([]string, 0, len(messages))
	for _, m := range messages {
		speaker := "Assistant"
		if m.Role == "user" {
			speaker = "User"
		}
		lines = append(lines, fmt.Sprintf("%s: %s", speaker, m.Content))
	}
	return strings.Join(lines, "\n")
}

// formatOriginalAssessment renders the prior evidence record for rescore prompts
func formatOriginalAssessment(c types.CriterionEvidence) string {
	evidence := "None"
	if len(c.Evidence) > 0 {
		evidence = strings.Join(c.Evidence, "; ")
	}
	reasoning := c.Reasoning
	if reasoning == "" {
		reasoning = "None"
	}
	return fmt.Sprintf("- Met: %v\n- Evidence: %s\n- Reasoning: %s", c.Met, evidence, reasoning)
}

// getPrompts returns the appropriate prompts for the operation, prioritizing loaded content over config
func (g *GeminiProvider) getPrompts(operationType string) (config.OperationLoadedPrompts, *config.PromptConfig) {
	loadedPrompts := config.GetPromptsForOperation(operationType)
	configPrompts := &g.config.CustomPrompts
	return loadedPrompts, configPrompts
}

// resolvePrompt selects the correct prompt string based on a clear priority order:
// 1. A prompt loaded from a file.
// 2. A prompt defined directly in the configuration.
// 3. A hardcoded default prompt.
func resolvePrompt(loadedFromFile, fromConfig, fromDefault string) string {
	if loadedFromFile != "" {
		return loadedFromFile
	}
	if fromConfig != "" {
		return fromConfig
	}
	return fromDefault
}
