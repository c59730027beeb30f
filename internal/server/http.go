package server

import (
	"time"

	"o1ready/internal/config"
	o1readyErrors "o1ready/internal/errors"
	"o1ready/internal/network"
	"o1ready/internal/parser"
	"o1ready/internal/session"
)

// InterviewRequest is the request body for an interview turn. Skip marks the
// criterion's current question as skipped instead of answering it.
type InterviewRequest struct {
	Criterion string `json:"criterion"`
	Message   string `json:"message"`
	Skip      bool   `json:"skip,omitempty"`
}

// RescoreRequest is the request body for the rescore endpoint.
type RescoreRequest struct {
	Criterion string `json:"criterion"`
}

// ErrorResponse is the JSON error envelope written by the handlers.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Server holds configuration for the HTTP server
type Server struct {
	Host    string
	Port    string
	Version string

	// Full application configuration
	AppConfig *config.Config

	// TLS Configuration
	TLSConfig config.TLSConfig

	// Certificate management
	CertReloader *CertReloader

	// API Authentication
	APIKeys map[string]bool

	// Timeout configurations
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Request size limit
	MaxRequestSize int64

	// Rate limiting
	RateLimit   *config.RateLimitConfig
	RateLimiter *ClientLimiters

	// Resume parsing and per-upload state
	Parser      *parser.Parser
	Sessions    session.Store
	ResultCache *session.ResultCache

	// Mentor and expert network directory (nil when disabled)
	Network *network.Service

	// Logger
	Logger *o1readyErrors.Logger
}

// ServerConfig holds configuration for creating a Server instance
// (Refactored to reduce long parameter list in NewServer)
type ServerConfig struct {
	Host           string
	Port           string
	Version        string
	TLSConfig      config.TLSConfig
	APIKeys        []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxRequestSize int64
	RateLimit      *config.RateLimitConfig
}

// NewServer creates a new Server instance from a ServerConfig struct
func NewServer(appCfg *config.Config, cfg ServerConfig, logger *o1readyErrors.Logger) *Server {
	// Convert API keys slice to map for O(1) lookup
	apiKeyMap := make(map[string]bool)
	for _, key := range cfg.APIKeys {
		if key != "" {
			apiKeyMap[key] = true
		}
	}

	var rateLimiter *ClientLimiters
	if cfg.RateLimit != nil && cfg.RateLimit.Enabled {
		rateLimiter = NewClientLimiters(cfg.RateLimit, logger)
	}

	var resultCache *session.ResultCache
	if appCfg.Cache.Enabled {
		resultCache = session.NewResultCache(appCfg.Cache.TTL, appCfg.Cache.CleanupInterval)
	}

	var networkService *network.Service
	if appCfg.Network.Enabled {
		svc, err := network.NewService(appCfg.Network.DataDir, logger)
		if err != nil {
			logger.LogError(err, "Failed to initialize network directory, endpoints disabled",
				"data_dir", appCfg.Network.DataDir)
		} else {
			networkService = svc
		}
	}

	return &Server{
		Host:           cfg.Host,
		Port:           cfg.Port,
		Version:        cfg.Version,
		AppConfig:      appCfg,
		TLSConfig:      cfg.TLSConfig,
		APIKeys:        apiKeyMap,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxRequestSize: cfg.MaxRequestSize,
		RateLimit:      cfg.RateLimit,
		RateLimiter:    rateLimiter,
		Parser:         parser.New(logger),
		Sessions:       session.NewMemoryStore(),
		ResultCache:    resultCache,
		Network:        networkService,
		Logger:         logger,
	}
}
