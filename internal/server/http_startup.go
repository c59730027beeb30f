package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"o1ready/internal/observability"
)

const shutdownGrace = 30 * time.Second

// Start brings up observability, TLS, and the HTTP listener, then blocks
// until a shutdown signal or a listener error.
func (s *Server) Start() error {
	om, err := observability.NewObservabilityManager(
		observability.BuildConfig(s.AppConfig, s.Version), s.AppConfig)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := om.Shutdown(ctx); err != nil {
			s.Logger.LogError(err, "Failed to shutdown observability")
		}
	}()

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", s.Host, s.Port),
		Handler:      om.HTTPMiddleware()(s.setupRoutes(om)),
		ReadTimeout:  s.ReadTimeout,
		WriteTimeout: s.WriteTimeout,
		IdleTimeout:  s.IdleTimeout,
	}

	vaultClient, err := s.initializeVaultClient()
	if err != nil {
		return err
	}
	if err := s.configureTLS(httpServer, vaultClient, om); err != nil {
		return err
	}

	s.displayServerInfo()
	return s.serve(httpServer)
}

// serve runs the listener in a goroutine and waits for a signal or a
// startup failure.
func (s *Server) serve(httpServer *http.Server) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	listenErr := make(chan error, 1)
	go func() {
		s.Logger.Info("Starting HTTP server",
			"address", httpServer.Addr,
			"tls_enabled", httpServer.TLSConfig != nil)
		if err := s.listen(httpServer); err != nil && err != http.ErrServerClosed {
			listenErr <- err
		}
	}()

	select {
	case err := <-listenErr:
		return fmt.Errorf("server failed to start: %w", err)
	case sig := <-quit:
		s.Logger.Info("Received shutdown signal", "signal", sig.String())
		return s.shutdown(httpServer)
	}
}

func (s *Server) listen(httpServer *http.Server) error {
	if httpServer.TLSConfig == nil {
		return httpServer.ListenAndServe()
	}
	// Certificates from content or the reloader are already in the TLS
	// config, so the file arguments stay empty.
	if s.CertReloader != nil || s.TLSConfig.CertContent != "" {
		return httpServer.ListenAndServeTLS("", "")
	}
	return httpServer.ListenAndServeTLS(s.TLSConfig.CertFile, s.TLSConfig.KeyFile)
}

// shutdown drains in-flight requests and releases the background workers.
func (s *Server) shutdown(httpServer *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	if s.CertReloader != nil {
		if err := s.CertReloader.Stop(); err != nil {
			s.Logger.LogError(err, "Failed to stop certificate reloader")
		}
	}
	if s.RateLimiter != nil {
		s.RateLimiter.Close()
	}

	s.Logger.Info("Shutting down HTTP server")
	if err := httpServer.Shutdown(ctx); err != nil {
		s.Logger.LogError(err, "Graceful shutdown failed, forcing close")
		return httpServer.Close()
	}

	s.Logger.Info("Server shutdown completed")
	return nil
}
