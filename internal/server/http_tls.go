package server

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net/http"
	"os"

	"o1ready/internal/config"
	"o1ready/internal/observability"
)

var cipherSuiteIDs = map[string]uint16{
	"TLS_AES_128_GCM_SHA256":                  tls.TLS_AES_128_GCM_SHA256,
	"TLS_AES_256_GCM_SHA384":                  tls.TLS_AES_256_GCM_SHA384,
	"TLS_CHACHA20_POLY1305_SHA256":            tls.TLS_CHACHA20_POLY1305_SHA256,
	"TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256": tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256,
	"TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384": tls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384,
	"TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256":   tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256,
	"TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384":   tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
	"TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305":  tls.TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305,
	"TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305":    tls.TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305,
}

// configureTLS applies the configured TLS mode to the HTTP server.
func (s *Server) configureTLS(httpServer *http.Server, vaultClient VaultClientInterface, om *observability.ObservabilityManager) error {
	switch s.TLSConfig.Mode {
	case "disabled":
		fmt.Printf("Starting server on http://%s\n", httpServer.Addr)
		return nil
	case "server", "mutual":
		fmt.Printf("Starting server on https://%s (TLS mode: %s)\n", httpServer.Addr, s.TLSConfig.Mode)
	default:
		return fmt.Errorf("invalid TLS mode: %s (must be 'disabled', 'server', or 'mutual')", s.TLSConfig.Mode)
	}

	tlsConfig := &tls.Config{
		MinVersion:         minTLSVersion(s.TLSConfig.MinVersion),
		CipherSuites:       resolveCipherSuites(s.TLSConfig.CipherSuites),
		InsecureSkipVerify: s.TLSConfig.InsecureSkipVerify,
		ServerName:         s.TLSConfig.ServerName,
	}
	if s.TLSConfig.InsecureSkipVerify {
		fmt.Println("WARNING: TLS certificate verification is disabled (insecureSkipVerify=true)")
	}

	if s.TLSConfig.AutoReload.Enabled {
		if err := s.attachCertReloader(tlsConfig, vaultClient, om); err != nil {
			return err
		}
	} else if err := s.attachStaticCertificates(tlsConfig); err != nil {
		return err
	}

	httpServer.TLSConfig = tlsConfig
	return nil
}

// attachCertReloader wires dynamic certificate loading so rotated material
// takes effect without restarting the server.
func (s *Server) attachCertReloader(tlsConfig *tls.Config, vaultClient VaultClientInterface, om *observability.ObservabilityManager) error {
	reloader, err := NewCertReloader(&s.TLSConfig, vaultClient, om, s.Logger)
	if err != nil {
		return fmt.Errorf("start certificate reloader: %w", err)
	}
	s.CertReloader = reloader

	tlsConfig.GetCertificate = reloader.GetCertificate
	if s.TLSConfig.Mode == "mutual" {
		tlsConfig.ClientAuth = clientAuthPolicy(s.TLSConfig.ClientAuthPolicy)
		tlsConfig.ClientCAs = reloader.ClientCAs()
		tlsConfig.VerifyPeerCertificate = reloader.VerifyPeer
	}

	fmt.Println("TLS auto-reload: ENABLED")
	return nil
}

// attachStaticCertificates loads the keypair once, for deployments without
// rotation.
func (s *Server) attachStaticCertificates(tlsConfig *tls.Config) error {
	var cert tls.Certificate
	var err error
	switch {
	case s.TLSConfig.CertContent != "" && s.TLSConfig.KeyContent != "":
		cert, err = tls.X509KeyPair([]byte(s.TLSConfig.CertContent), []byte(s.TLSConfig.KeyContent))
	case s.TLSConfig.CertFile != "" && s.TLSConfig.KeyFile != "":
		cert, err = tls.LoadX509KeyPair(s.TLSConfig.CertFile, s.TLSConfig.KeyFile)
	default:
		return fmt.Errorf("TLS certificate and key are required (provide either files or content)")
	}
	if err != nil {
		return fmt.Errorf("load server keypair: %w", err)
	}
	tlsConfig.Certificates = []tls.Certificate{cert}

	if s.TLSConfig.Mode == "mutual" {
		pool, err := staticCAPool(s.TLSConfig)
		if err != nil {
			return err
		}
		tlsConfig.ClientCAs = pool
		tlsConfig.ClientAuth = clientAuthPolicy(s.TLSConfig.ClientAuthPolicy)
	}
	return nil
}

func staticCAPool(cfg config.TLSConfig) (*x509.CertPool, error) {
	var pem []byte
	switch {
	case cfg.CAContent != "":
		pem = []byte(cfg.CAContent)
	case cfg.CAFile != "":
		var err error
		pem, err = os.ReadFile(cfg.CAFile)
		if err != nil {
			return nil, fmt.Errorf("read CA file: %w", err)
		}
	default:
		return nil, fmt.Errorf("CA certificate is required for mutual TLS mode (provide either caFile or caContent)")
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("no certificates parsed from CA PEM")
	}
	return pool, nil
}

func minTLSVersion(version string) uint16 {
	if version == "1.3" {
		return tls.VersionTLS13
	}
	return tls.VersionTLS12
}

func resolveCipherSuites(names []string) []uint16 {
	if len(names) == 0 {
		return nil
	}
	suites := make([]uint16, 0, len(names))
	for _, name := range names {
		if id, ok := cipherSuiteIDs[name]; ok {
			suites = append(suites, id)
		}
	}
	return suites
}

func clientAuthPolicy(policy string) tls.ClientAuthType {
	switch policy {
	case "request":
		return tls.RequestClientCert
	case "verify":
		return tls.VerifyClientCertIfGiven
	default:
		return tls.RequireAndVerifyClientCert
	}
}

// initializeVaultClient creates a Vault client when the Vault watcher needs
// one.
func (s *Server) initializeVaultClient() (VaultClientInterface, error) {
	if !s.TLSConfig.AutoReload.VaultWatcher.Enabled {
		return nil, nil
	}
	vc, err := config.NewVaultClient(s.AppConfig.Vault, s.Logger)
	if err != nil {
		return nil, fmt.Errorf("initialize Vault client: %w", err)
	}
	if vc == nil {
		return nil, nil
	}
	return vc, nil
}
