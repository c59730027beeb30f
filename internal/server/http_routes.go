package server

import (
	"net/http"
	"strings"

	"o1ready/internal/observability"
)

// setupRoutes configures all HTTP routes and middleware
func (s *Server) setupRoutes(om *observability.ObservabilityManager) *http.ServeMux {
	mux := http.NewServeMux()

	// Add middleware layers with observability
	rateLimitHandler := s.createRateLimitMiddleware(om)
	requestLimitHandler := s.requestSizeLimitMiddleware()

	mux.HandleFunc("GET /{$}", s.indexHandler)
	mux.HandleFunc("GET /health", s.healthHandler)
	mux.HandleFunc("GET /stats", s.statsHandler)
	mux.HandleFunc("POST /upload",
		rateLimitHandler(
			s.authMiddleware(requestLimitHandler(s.createUploadHandler(om))),
		),
	)
	mux.HandleFunc("GET /results/{id}",
		rateLimitHandler(
			s.authMiddleware(s.resultsHandler),
		),
	)
	mux.HandleFunc("GET /interview/{id}",
		rateLimitHandler(
			s.authMiddleware(s.interviewStateHandler),
		),
	)
	mux.HandleFunc("POST /interview/{id}",
		rateLimitHandler(
			s.authMiddleware(requestLimitHandler(s.createInterviewHandler(om))),
		),
	)
	mux.HandleFunc("POST /interview/{id}/rescore",
		rateLimitHandler(
			s.authMiddleware(requestLimitHandler(s.createRescoreHandler(om))),
		),
	)

	// Mentor and expert network directory
	if s.Network != nil {
		mux.HandleFunc("GET /api/mentors", rateLimitHandler(s.mentorsHandler))
		mux.HandleFunc("GET /api/experts", rateLimitHandler(s.expertsHandler))
		mux.HandleFunc("GET /api/success-stories", rateLimitHandler(s.successStoriesHandler))
		mux.HandleFunc("GET /api/forum-posts", rateLimitHandler(s.forumPostsHandler))
		mux.HandleFunc("POST /api/mentorship-requests",
			rateLimitHandler(
				s.authMiddleware(requestLimitHandler(s.mentorshipRequestHandler)),
			),
		)
	}

	return mux
}

// authMiddleware provides API key authentication
func (s *Server) authMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Skip authentication if no API keys are configured
		if len(s.APIKeys) == 0 {
			next(w, r)
			return
		}

		// Check for API key in X-API-Key header
		apiKey := r.Header.Get("X-API-Key")
		if apiKey == "" {
			// Check for Bearer token in Authorization header as fallback
			authHeader := r.Header.Get("Authorization")
			if after, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
				apiKey = after
			}
		}

		if apiKey == "" {
			s.Logger.Info("Authentication failed: missing API key",
				"endpoint", r.URL.Path,
				"client_ip", r.RemoteAddr)
			writeErrorResponse(w, "Missing API key", "X-API-Key header or Authorization Bearer token required", http.StatusUnauthorized)
			return
		}

		// Validate API key
		if !s.APIKeys[apiKey] {
			s.Logger.Info("Authentication failed: invalid API key",
				"endpoint", r.URL.Path,
				"client_ip", r.RemoteAddr,
				"api_key_prefix", maskAPIKey(apiKey))
			writeErrorResponse(w, "Invalid API key", "Unauthorized access", http.StatusUnauthorized)
			return
		}

		// Log successful authentication
		s.Logger.Debug("API authentication successful",
			"endpoint", r.URL.Path,
			"client_ip", r.RemoteAddr,
			"api_key_prefix", maskAPIKey(apiKey))

		next(w, r)
	}
}

// requestSizeLimitMiddleware limits the size of incoming requests
func (s *Server) requestSizeLimitMiddleware() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if s.MaxRequestSize > 0 {
				// Limit the request body size
				r.Body = http.MaxBytesReader(w, r.Body, s.MaxRequestSize)
			}

			next(w, r)
		}
	}
}

// maskAPIKey masks an API key for logging (shows only first 8 characters)
func maskAPIKey(apiKey string) string {
	if len(apiKey) <= 8 {
		return "****"
	}
	return apiKey[:8] + "****"
}
