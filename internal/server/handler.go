package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"o1ready/internal/ai"
	"o1ready/internal/criteria"
	"o1ready/internal/observability"
	"o1ready/internal/session"
	"o1ready/internal/types"

	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// createUploadHandler wraps the resume upload handler with observability.
// The flow is: read the multipart file, check the result cache by content
// hash, parse and analyze on a miss, then create a session and point the
// client at its results.
func (s *Server) createUploadHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("o1ready.api")
		ctx, span := tracer.Start(ctx, "api.upload")
		defer span.End()

		filename, content, err := s.readResumeUpload(r)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid upload", err.Error(), http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.String("upload.filename", filename),
			attribute.Int("upload.size_bytes", len(content)),
			attribute.String("operation", "analyze"),
		)

		metrics := om.GetMetrics()
		contentHash := session.ContentHash(content)

		// Re-uploading the same file content skips the parser and the model
		// call entirely.
		if s.ResultCache != nil {
			if cached, ok := s.ResultCache.Get(contentHash); ok {
				metrics.RecordBusinessMetric(ctx, "cache_hit", true, om,
					attribute.String("upload.filename", filename))
				span.SetAttributes(attribute.Bool("cache.hit", true))

				sess := s.Sessions.Create(filename, cached.Resume, cached.Assessment)
				metrics.RecordSessionDelta(ctx, 1)
				s.writeSessionCreated(w, sess.ID)
				return
			}
			metrics.RecordBusinessMetric(ctx, "cache_miss", true, om,
				attribute.String("upload.filename", filename))
			span.SetAttributes(attribute.Bool("cache.hit", false))
		}

		parsed := s.Parser.Parse(filename, content)
		if !parsed.ParseSuccess {
			// Text extraction failed. The session is still created so the
			// user gets a results page explaining what went wrong, backed by
			// an assessment with every criterion unmet.
			s.Logger.Warn("Resume parse failed, serving empty assessment",
				"filename", filename,
				"reason", parsed.ErrorMessage)
			span.SetAttributes(attribute.Bool("parse.success", false))

			sess := s.Sessions.Create(filename, parsed, criteria.EmptyAssessment(parsed.ErrorMessage))
			metrics.RecordSessionDelta(ctx, 1)
			s.writeSessionCreated(w, sess.ID)
			return
		}

		// Create AI service for the analyze operation
		analyzeConfig := s.AppConfig.GetAnalyzeConfig()
		aiService, err := ai.NewService(&analyzeConfig, "analyze", s.Logger)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "service_creation"))
			writeErrorResponse(w, "Failed to create AI service", err.Error(), http.StatusInternalServerError)
			return
		}

		// Track AI operation with observability and token usage
		var output types.AnalyzeResumeOutput
		err = metrics.TrackAIOperationWithTokens(ctx, "analyze", func(ctx context.Context) *observability.AIOperationResult {
			result, tokenUsage, aiErr := aiService.Provider.AnalyzeResume(ctx, types.AnalyzeResumeInput{
				ResumeText: parsed.RawText,
			})
			output = result
			return &observability.AIOperationResult{
				Error:      aiErr,
				TokenUsage: (*observability.TokenUsage)(tokenUsage),
			}
		}, om)

		var assessment types.Assessment
		if err == nil {
			assessment, err = criteria.Normalize(types.Assessment{Criteria: output.Criteria})
		}
		if err != nil {
			// Degrade instead of failing the upload: the session carries an
			// assessment with every criterion unmet and the failure reason.
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "ai_processing"))
			metrics.RecordBusinessMetric(ctx, "resume_analyzed", false, om,
				attribute.String("error", err.Error()))
			s.Logger.LogError(err, "Resume analysis failed, serving empty assessment",
				"filename", filename)

			sess := s.Sessions.Create(filename, parsed, criteria.EmptyAssessment(
				fmt.Sprintf("analysis failed: %v", err)))
			metrics.RecordSessionDelta(ctx, 1)
			s.writeSessionCreated(w, sess.ID)
			return
		}

		if s.ResultCache != nil {
			s.ResultCache.Put(contentHash, session.CachedResult{
				Filename:   filename,
				Resume:     parsed,
				Assessment: assessment,
			})
		}

		sess := s.Sessions.Create(filename, parsed, assessment)
		metrics.RecordSessionDelta(ctx, 1)

		// Record success metrics
		metCount := len(assessment.MetNames())
		metrics.RecordBusinessMetric(ctx, "resume_analyzed", true, om,
			attribute.Int("criteria.met_count", metCount))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("criteria.met_count", metCount),
		)

		s.writeSessionCreated(w, sess.ID)
	}
}

// createInterviewHandler wraps the gap interview turn handler with
// observability. Each POST is one conversational turn about a single unmet
// criterion; the transcript and per-criterion progress live in the session.
func (s *Server) createInterviewHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("o1ready.api")
		ctx, span := tracer.Start(ctx, "api.interview")
		defer span.End()

		var req InterviewRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		if !req.Skip && strings.TrimSpace(req.Message) == "" {
			err := fmt.Errorf("missing message")
			span.RecordError(err)
			writeErrorResponse(w, "Missing message", "message field is required unless skip is set", http.StatusBadRequest)
			return
		}

		sess, evidence, ok := s.loadInterviewTarget(w, r.PathValue("id"), req.Criterion, span)
		if !ok {
			return
		}
		if evidence.Met {
			err := fmt.Errorf("criterion already met: %s", req.Criterion)
			span.RecordError(err)
			writeErrorResponse(w, "Criterion already met", "the gap interview only covers unmet criteria", http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.String("interview.criterion", req.Criterion),
			attribute.Int("request.message_length", len(req.Message)),
			attribute.Bool("interview.skip", req.Skip),
			attribute.String("operation", "interview"),
		)

		if req.Skip {
			s.skipInterviewQuestion(ctx, w, span, om, sess, req.Criterion)
			return
		}

		// Create AI service for the interview operation
		interviewConfig := s.AppConfig.GetInterviewConfig()
		aiService, err := ai.NewService(&interviewConfig, "interview", s.Logger)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "service_creation"))
			writeErrorResponse(w, "Failed to create AI service", err.Error(), http.StatusInternalServerError)
			return
		}

		metrics := om.GetMetrics()
		var reply types.InterviewReplyOutput
		err = metrics.TrackAIOperationWithTokens(ctx, "interview", func(ctx context.Context) *observability.AIOperationResult {
			output, tokenUsage, aiErr := aiService.Provider.InterviewReply(ctx, types.InterviewReplyInput{
				Criterion:   *evidence,
				ResumeText:  sess.Resume.RawText,
				History:     sess.Transcripts[req.Criterion],
				UserMessage: req.Message,
			})
			reply = output
			return &observability.AIOperationResult{
				Error:      aiErr,
				TokenUsage: (*observability.TokenUsage)(tokenUsage),
			}
		}, om)

		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "ai_processing"))
			metrics.RecordBusinessMetric(ctx, "interview_turn", false, om,
				attribute.String("interview.criterion", req.Criterion))
			writeErrorResponse(w, "Failed to generate interview reply", err.Error(), http.StatusInternalServerError)
			return
		}

		updated, err := s.Sessions.Update(sess.ID, func(target *session.Session) error {
			target.Transcripts[req.Criterion] = append(target.Transcripts[req.Criterion],
				types.ChatMessage{Role: "user", Content: req.Message},
				types.ChatMessage{Role: "assistant", Content: reply.Message},
			)
			target.Progress[req.Criterion]++
			return nil
		})
		if err != nil {
			span.RecordError(err)
			writeAppError(w, err)
			return
		}

		metrics.RecordBusinessMetric(ctx, "interview_turn", true, om,
			attribute.String("interview.criterion", req.Criterion))

		complete := criteria.InterviewComplete(updated.Assessment, updated.Progress)
		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Bool("interview.complete", complete),
		)

		response := map[string]any{
			"sessionId":   updated.ID,
			"criterion":   req.Criterion,
			"message":     reply.Message,
			"suggestions": reply.Suggestions,
			"progress":    updated.Progress,
			"complete":    complete,
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(response); err != nil {
			span.RecordError(err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// skipInterviewQuestion advances a criterion's interview progress without an
// AI turn. Skipped questions count toward the terminal state the same as
// answered ones, but leave no transcript behind for a later rescore.
func (s *Server) skipInterviewQuestion(ctx context.Context, w http.ResponseWriter, span oteltrace.Span, om *observability.ObservabilityManager, sess *session.Session, criterion string) {
	remaining := len(criteria.QuestionsFor(criterion)) - sess.Progress[criterion]
	if remaining <= 0 {
		err := fmt.Errorf("no questions left for criterion: %s", criterion)
		span.RecordError(err)
		writeErrorResponse(w, "No questions remaining", "every question for this criterion has been answered or skipped", http.StatusBadRequest)
		return
	}

	updated, err := s.Sessions.Update(sess.ID, func(target *session.Session) error {
		target.Progress[criterion]++
		return nil
	})
	if err != nil {
		span.RecordError(err)
		writeAppError(w, err)
		return
	}

	om.GetMetrics().RecordBusinessMetric(ctx, "interview_turn", true, om,
		attribute.String("interview.criterion", criterion),
		attribute.Bool("interview.skip", true))

	complete := criteria.InterviewComplete(updated.Assessment, updated.Progress)
	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.Bool("interview.complete", complete),
	)

	response := map[string]any{
		"sessionId": updated.ID,
		"criterion": criterion,
		"skipped":   true,
		"progress":  updated.Progress,
		"complete":  complete,
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		span.RecordError(err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// createRescoreHandler wraps the criterion rescore handler with
// observability. The interview transcript for the criterion is merged into
// the model context so new evidence surfaced in conversation can flip the
// original judgment.
func (s *Server) createRescoreHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("o1ready.api")
		ctx, span := tracer.Start(ctx, "api.rescore")
		defer span.End()

		var req RescoreRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		sess, evidence, ok := s.loadInterviewTarget(w, r.PathValue("id"), req.Criterion, span)
		if !ok {
			return
		}

		transcript := sess.Transcripts[req.Criterion]
		if len(transcript) == 0 {
			err := fmt.Errorf("no interview transcript for criterion: %s", req.Criterion)
			span.RecordError(err)
			writeErrorResponse(w, "No interview transcript",
				"answer at least one interview question before rescoring", http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.String("rescore.criterion", req.Criterion),
			attribute.Int("rescore.transcript_turns", len(transcript)),
			attribute.String("operation", "rescore"),
		)

		// Create AI service for the rescore operation
		rescoreConfig := s.AppConfig.GetRescoreConfig()
		aiService, err := ai.NewService(&rescoreConfig, "rescore", s.Logger)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "service_creation"))
			writeErrorResponse(w, "Failed to create AI service", err.Error(), http.StatusInternalServerError)
			return
		}

		metrics := om.GetMetrics()
		var result types.RescoreCriterionOutput
		err = metrics.TrackAIOperationWithTokens(ctx, "rescore", func(ctx context.Context) *observability.AIOperationResult {
			output, tokenUsage, aiErr := aiService.Provider.RescoreCriterion(ctx, types.RescoreCriterionInput{
				Criterion:  *evidence,
				ResumeText: sess.Resume.RawText,
				Transcript: transcript,
			})
			result = output
			return &observability.AIOperationResult{
				Error:      aiErr,
				TokenUsage: (*observability.TokenUsage)(tokenUsage),
			}
		}, om)

		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "ai_processing"))
			metrics.RecordBusinessMetric(ctx, "criterion_rescored", false, om,
				attribute.String("rescore.criterion", req.Criterion))
			writeErrorResponse(w, "Failed to rescore criterion", err.Error(), http.StatusInternalServerError)
			return
		}

		updated, err := s.Sessions.Update(sess.ID, func(target *session.Session) error {
			ce := target.Assessment.Find(req.Criterion)
			if ce == nil {
				return fmt.Errorf("criterion missing from assessment: %s", req.Criterion)
			}
			ce.Met = result.Met
			ce.Evidence = result.Evidence
			ce.Reasoning = result.Reasoning
			ce.Confidence = result.Confidence
			return nil
		})
		if err != nil {
			span.RecordError(err)
			writeAppError(w, err)
			return
		}

		score, err := criteria.Score(updated.Assessment)
		if err != nil {
			span.RecordError(err)
			writeErrorResponse(w, "Failed to score assessment", err.Error(), http.StatusInternalServerError)
			return
		}

		metrics.RecordBusinessMetric(ctx, "criterion_rescored", true, om,
			attribute.String("rescore.criterion", req.Criterion),
			attribute.Bool("rescore.met", result.Met))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Bool("rescore.met", result.Met),
			attribute.Int("score", score.Score),
		)

		response := map[string]any{
			"sessionId": updated.ID,
			"criterion": updated.Assessment.Find(req.Criterion),
			"result":    score,
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(response); err != nil {
			span.RecordError(err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// readResumeUpload extracts the resume file from a multipart upload and
// enforces the configured size limit.
func (s *Server) readResumeUpload(r *http.Request) (string, []byte, error) {
	maxSize := s.AppConfig.App.MaxFileSize
	if err := r.ParseMultipartForm(maxSize); err != nil {
		return "", nil, fmt.Errorf("failed to parse multipart form: %w", err)
	}

	file, header, err := r.FormFile("resume")
	if err != nil {
		return "", nil, fmt.Errorf("resume file field is required: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			s.Logger.Warn("Failed to close uploaded file", "error", err)
		}
	}()

	if header.Size > maxSize {
		return "", nil, fmt.Errorf("file too large: %d bytes (limit is %d bytes)", header.Size, maxSize)
	}

	content, err := io.ReadAll(io.LimitReader(file, maxSize+1))
	if err != nil {
		return "", nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}
	if int64(len(content)) > maxSize {
		return "", nil, fmt.Errorf("file too large (limit is %d bytes)", maxSize)
	}
	if len(content) == 0 {
		return "", nil, fmt.Errorf("uploaded file is empty")
	}

	return header.Filename, content, nil
}

// loadInterviewTarget resolves the session and criterion a request names,
// writing the error response itself when either lookup fails.
func (s *Server) loadInterviewTarget(w http.ResponseWriter, sessionID, criterion string, span oteltrace.Span) (*session.Session, *types.CriterionEvidence, bool) {
	if strings.TrimSpace(criterion) == "" {
		writeErrorResponse(w, "Missing criterion", "criterion field is required", http.StatusBadRequest)
		return nil, nil, false
	}

	if _, err := criteria.Lookup(criterion); err != nil {
		span.RecordError(err)
		writeErrorResponse(w, "Unknown criterion", err.Error(), http.StatusBadRequest)
		return nil, nil, false
	}

	sess, err := s.Sessions.Get(sessionID)
	if err != nil {
		span.RecordError(err)
		writeAppError(w, err)
		return nil, nil, false
	}

	evidence := sess.Assessment.Find(criterion)
	if evidence == nil {
		writeErrorResponse(w, "Criterion not assessed",
			fmt.Sprintf("criterion %q is not part of this assessment", criterion), http.StatusNotFound)
		return nil, nil, false
	}

	return sess, evidence, true
}

// writeSessionCreated answers an upload with a 303 pointing at the session's
// results, carrying the session id in the body for API clients.
func (s *Server) writeSessionCreated(w http.ResponseWriter, sessionID string) {
	location := "/results/" + sessionID
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Location", location)
	w.WriteHeader(http.StatusSeeOther)

	response := map[string]string{
		"sessionId": sessionID,
		"location":  location,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		s.Logger.Warn("Failed to encode upload response", "error", err)
	}
}

// createRateLimitMiddleware adds observability to rate limiting
func (s *Server) createRateLimitMiddleware(om *observability.ObservabilityManager) func(http.HandlerFunc) http.HandlerFunc {
	originalMiddleware := s.rateLimitMiddleware()

	return func(next http.HandlerFunc) http.HandlerFunc {
		return originalMiddleware(func(w http.ResponseWriter, r *http.Request) {
			// Check if this request was rate limited by examining the response
			// We'll wrap the ResponseWriter to detect rate limit responses
			wrapper := &responseWrapper{ResponseWriter: w, statusCode: 200}

			next(wrapper, r)

			// If rate limited, record metric
			if wrapper.statusCode == http.StatusTooManyRequests {
				metrics := om.GetMetrics()
				metrics.RecordBusinessMetric(r.Context(), "rate_limit_hit", true, om,
					attribute.String("endpoint", r.URL.Path),
					attribute.String("method", r.Method))
			}
		})
	}
}

// responseWrapper wraps http.ResponseWriter to capture status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
