package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"o1ready/internal/ai"
	"o1ready/internal/criteria"
	o1readyErrors "o1ready/internal/errors"
)

// getHealthCheckTimeout returns the configured health check timeout
func (s *Server) getHealthCheckTimeout() time.Duration {
	return s.AppConfig.Observability.HealthCheck.Timeout
}

// indexHandler describes the service and its endpoints. Template rendering is
// deliberately absent; clients consume JSON.
func (s *Server) indexHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"service":     "o1ready",
		"version":     s.Version,
		"description": "O-1A visa readiness analyzer: upload a resume, get an eight-criterion assessment, close gaps through a guided interview",
		"endpoints": map[string]string{
			"POST /upload":                 "multipart upload with a 'resume' file field; responds 303 with the results location",
			"GET /results/{id}":            "assessment, score, tier, and recommendations for a session",
			"GET /interview/{id}":          "pending gap interview questions for unmet criteria",
			"POST /interview/{id}":         "submit an interview answer; returns the advisor reply",
			"POST /interview/{id}/rescore": "re-evaluate a criterion using the interview transcript",
			"GET /health":                  "service health including AI model status",
			"GET /stats":                   "session, cache, and rate limiting statistics",
		},
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Failed to encode index response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// resultsHandler returns the full readiness report for a session: the
// assessment, the deterministic score, and recommendations for every unmet
// criterion.
func (s *Server) resultsHandler(w http.ResponseWriter, r *http.Request) {
	sess, err := s.Sessions.Get(r.PathValue("id"))
	if err != nil {
		writeAppError(w, err)
		return
	}

	score, err := criteria.Score(sess.Assessment)
	if err != nil {
		writeErrorResponse(w, "Failed to score assessment", err.Error(), http.StatusInternalServerError)
		return
	}

	recommendations, err := criteria.Recommend(sess.Assessment)
	if err != nil {
		writeErrorResponse(w, "Failed to build recommendations", err.Error(), http.StatusInternalServerError)
		return
	}

	response := map[string]any{
		"sessionId":       sess.ID,
		"filename":        sess.Filename,
		"parseSuccess":    sess.Resume.ParseSuccess,
		"assessment":      sess.Assessment,
		"result":          score,
		"recommendations": recommendations,
	}
	if !sess.Resume.ParseSuccess {
		response["parseError"] = sess.Resume.ErrorMessage
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Failed to encode results response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// interviewStateHandler returns the pending gap interview questions for a
// session. Met criteria are skipped; the interview is complete when no unmet
// criterion has questions left.
func (s *Server) interviewStateHandler(w http.ResponseWriter, r *http.Request) {
	sess, err := s.Sessions.Get(r.PathValue("id"))
	if err != nil {
		writeAppError(w, err)
		return
	}

	pending := criteria.PendingQuestions(sess.Assessment, sess.Progress)

	response := map[string]any{
		"sessionId": sess.ID,
		"pending":   pending,
		"progress":  sess.Progress,
		"complete":  criteria.InterviewComplete(sess.Assessment, sess.Progress),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Failed to encode interview response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// healthHandler provides a comprehensive health check endpoint including AI model status
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"status":  "healthy",
		"service": "o1ready",
		"version": s.Version,
	}

	// Check AI model availability for all operations
	aiStatus := s.checkAIModelsHealth()
	response["ai_models"] = aiStatus

	// Check circuit breaker status
	circuitBreakerStatus := s.checkCircuitBreakerHealth()
	response["circuit_breakers"] = circuitBreakerStatus

	// Check certificate status if certificate manager is available
	certStatus := s.checkCertificateHealth()
	if certStatus != nil {
		response["certificates"] = certStatus
	}

	// Determine overall health status
	overallHealthy := true
	for _, modelStatus := range aiStatus {
		if modelInfo, ok := modelStatus.(map[string]any); ok {
			if available, exists := modelInfo["available"]; exists {
				if avail, ok := available.(bool); ok && !avail {
					overallHealthy = false
					break
				}
			}
		}
	}

	// Check certificate health
	if certStatus != nil {
		if healthy, exists := certStatus["healthy"]; exists {
			if certHealthy, ok := healthy.(bool); ok && !certHealthy {
				overallHealthy = false
			}
		}
	}

	if !overallHealthy {
		response["status"] = "degraded"
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(response)
	if err != nil {
		log.Printf("Failed to encode health response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// checkAIModelsHealth checks the health of all AI models used by different operations
func (s *Server) checkAIModelsHealth() map[string]any {
	// Use configurable health check timeout
	timeout := s.getHealthCheckTimeout()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	aiStatus := make(map[string]any)

	// Check analyze service model
	analyzeConfig := s.AppConfig.GetAnalyzeConfig()
	if analyzeService, err := ai.NewService(&analyzeConfig, "analyze", s.Logger); err == nil {
		modelInfo := analyzeService.GetModelInfo(ctx)
		aiStatus["analyze"] = modelInfo
	} else {
		aiStatus["analyze"] = map[string]any{
			"available": false,
			"error":     fmt.Sprintf("Failed to create analyze service: %v", err),
		}
	}

	// Check rescore service model
	rescoreConfig := s.AppConfig.GetRescoreConfig()
	if rescoreService, err := ai.NewService(&rescoreConfig, "rescore", s.Logger); err == nil {
		modelInfo := rescoreService.GetModelInfo(ctx)
		aiStatus["rescore"] = modelInfo
	} else {
		aiStatus["rescore"] = map[string]any{
			"available": false,
			"error":     fmt.Sprintf("Failed to create rescore service: %v", err),
		}
	}

	// Check interview service model
	interviewConfig := s.AppConfig.GetInterviewConfig()
	if interviewService, err := ai.NewService(&interviewConfig, "interview", s.Logger); err == nil {
		modelInfo := interviewService.GetModelInfo(ctx)
		aiStatus["interview"] = modelInfo
	} else {
		aiStatus["interview"] = map[string]any{
			"available": false,
			"error":     fmt.Sprintf("Failed to create interview service: %v", err),
		}
	}

	return aiStatus
}

// checkCircuitBreakerHealth checks the health of circuit breakers for all AI operations
func (s *Server) checkCircuitBreakerHealth() map[string]any {
	circuitBreakerStatus := make(map[string]any)

	// Check analyze service circuit breaker
	analyzeConfig := s.AppConfig.GetAnalyzeConfig()
	if _, err := ai.NewService(&analyzeConfig, "analyze", s.Logger); err == nil {
		circuitBreakerStatus["analyze"] = map[string]any{
			"available": true,
			"message":   "Circuit breaker integrated with analyze service",
		}
	} else {
		circuitBreakerStatus["analyze"] = map[string]any{
			"available": false,
			"error":     fmt.Sprintf("Failed to create analyze service: %v", err),
		}
	}

	// Check rescore service circuit breaker
	rescoreConfig := s.AppConfig.GetRescoreConfig()
	if _, err := ai.NewService(&rescoreConfig, "rescore", s.Logger); err == nil {
		circuitBreakerStatus["rescore"] = map[string]any{
			"available": true,
			"message":   "Circuit breaker integrated with rescore service",
		}
	} else {
		circuitBreakerStatus["rescore"] = map[string]any{
			"available": false,
			"error":     fmt.Sprintf("Failed to create rescore service: %v", err),
		}
	}

	// Check interview service circuit breaker
	interviewConfig := s.AppConfig.GetInterviewConfig()
	if _, err := ai.NewService(&interviewConfig, "interview", s.Logger); err == nil {
		circuitBreakerStatus["interview"] = map[string]any{
			"available": true,
			"message":   "Circuit breaker integrated with interview service",
		}
	} else {
		circuitBreakerStatus["interview"] = map[string]any{
			"available": false,
			"error":     fmt.Sprintf("Failed to create interview service: %v", err),
		}
	}

	return circuitBreakerStatus
}

// checkCertificateHealth reports expiry and reload state for the active TLS
// certificate. A certificate inside the 24 hour window marks the service
// degraded; inside 7 days it is a warning only.
func (s *Server) checkCertificateHealth() map[string]any {
	if s.CertReloader == nil {
		return nil
	}

	certStatus := map[string]any{
		"reloader": s.CertReloader.Status(),
	}

	timeToExpiry, err := s.CertReloader.TimeToExpiry()
	if err != nil {
		certStatus["healthy"] = false
		certStatus["error"] = fmt.Sprintf("Failed to check certificate expiry: %v", err)
		return certStatus
	}

	certStatus["time_to_expiry_hours"] = int(timeToExpiry.Hours())
	certStatus["time_to_expiry"] = timeToExpiry.String()

	switch {
	case timeToExpiry <= 0:
		certStatus["healthy"] = false
		certStatus["status"] = "expired"
	case timeToExpiry <= 24*time.Hour:
		certStatus["healthy"] = false
		certStatus["status"] = "critical"
	case timeToExpiry <= 7*24*time.Hour:
		certStatus["healthy"] = true
		certStatus["status"] = "warning"
	default:
		certStatus["healthy"] = true
		certStatus["status"] = "ok"
	}

	return certStatus
}

// statsHandler provides server statistics including session, cache, and rate limiting info
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"service": "o1ready",
		"version": s.Version,
		"server": map[string]any{
			"max_request_size_bytes": s.MaxRequestSize,
			"max_file_size_bytes":    s.AppConfig.App.MaxFileSize,
		},
		"sessions": map[string]any{
			"active": s.Sessions.Count(),
		},
	}

	// Add result cache stats
	if s.ResultCache != nil {
		response["result_cache"] = map[string]any{
			"enabled": true,
			"entries": s.ResultCache.Len(),
			"ttl":     s.AppConfig.Cache.TTL.String(),
		}
	} else {
		response["result_cache"] = map[string]any{
			"enabled": false,
		}
	}

	// Add rate limiting stats if enabled
	if s.RateLimiter != nil {
		response["rate_limiting"] = s.RateLimiter.Stats()
	} else {
		response["rate_limiting"] = map[string]any{
			"enabled": false,
		}
	}

	// Add configuration info
	if s.RateLimit != nil {
		response["rate_limit_config"] = map[string]any{
			"enabled":          s.RateLimit.Enabled,
			"requests_per_min": s.RateLimit.RequestsPerMin,
			"burst_capacity":   s.RateLimit.BurstCapacity,
			"by_ip":            s.RateLimit.ByIP,
			"by_api_key":       s.RateLimit.ByAPIKey,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(response)
	if err != nil {
		log.Printf("Failed to encode stats response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// parseJSONRequest parses JSON request body into the provided struct
func parseJSONRequest(r *http.Request, v any) error {
	if r.Header.Get("Content-Type") != "application/json" {
		return fmt.Errorf("content-type must be application/json")
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return fmt.Errorf("request body too large (limit is %d bytes)", maxBytesErr.Limit)
		}
		return fmt.Errorf("failed to read request body: %w", err)
	}
	defer func() {
		if err := r.Body.Close(); err != nil {
			log.Printf("Failed to close request body: %v", err)
		}
	}()

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}

	return nil
}

// writeErrorResponse writes a standardized error response
func writeErrorResponse(w http.ResponseWriter, error, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ErrorResponse{
		Error:   error,
		Message: message,
	}

	err := json.NewEncoder(w).Encode(response)
	if err != nil {
		log.Printf("Failed to encode error response: %v", err)
		http.Error(w, "Failed to encode error response", http.StatusInternalServerError)
	}
}

// writeAppError maps an application error onto its HTTP status. Errors that
// are not AppErrors fall back to 500.
func writeAppError(w http.ResponseWriter, err error) {
	var appErr *o1readyErrors.AppError
	if errors.As(err, &appErr) {
		writeErrorResponse(w, appErr.Message, appErr.Code, appErr.HTTPStatus())
		return
	}
	writeErrorResponse(w, "Internal error", err.Error(), http.StatusInternalServerError)
}
