package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func tlsConfigWith(tls TLSConfig) Config {
	return Config{Server: ServerConfig{TLS: tls}}
}

func TestValidateTLSConfig(t *testing.T) {
	tests := []struct {
		name     string
		tls      TLSConfig
		errorMsg string
	}{
		{
			name: "disabled mode",
			tls:  TLSConfig{Mode: "disabled"},
		},
		{
			name: "disabled mode skips certificate checks",
			tls:  TLSConfig{Mode: "disabled", CertFile: "/path/to/cert.pem", CertContent: "cert-content"},
		},
		{
			name: "server mode with files",
			tls:  TLSConfig{Mode: "server", CertFile: "/path/to/cert.pem", KeyFile: "/path/to/key.pem", MinVersion: "1.2"},
		},
		{
			name: "server mode with content",
			tls:  TLSConfig{Mode: "server", CertContent: "cert-content", KeyContent: "key-content"},
		},
		{
			name: "server mode with mixed sources",
			tls:  TLSConfig{Mode: "server", CertFile: "/path/to/cert.pem", KeyContent: "key-content"},
		},
		{
			name: "mutual mode with files",
			tls:  TLSConfig{Mode: "mutual", CertFile: "/path/to/cert.pem", KeyFile: "/path/to/key.pem", CAFile: "/path/to/ca.pem"},
		},
		{
			name: "mutual mode with content and policy",
			tls: TLSConfig{
				Mode: "mutual", CertContent: "cert-content", KeyContent: "key-content",
				CAContent: "ca-content", ClientAuthPolicy: "require", MinVersion: "1.3",
			},
		},
		{
			name:     "invalid mode",
			tls:      TLSConfig{Mode: "invalid"},
			errorMsg: "invalid TLS mode: invalid",
		},
		{
			name:     "invalid min version",
			tls:      TLSConfig{Mode: "server", CertFile: "/path/to/cert.pem", KeyFile: "/path/to/key.pem", MinVersion: "1.0"},
			errorMsg: "invalid TLS minVersion: 1.0",
		},
		{
			name:     "server mode missing certificate",
			tls:      TLSConfig{Mode: "server", KeyFile: "/path/to/key.pem"},
			errorMsg: "TLS certificate and key are required for server mode",
		},
		{
			name:     "server mode missing key",
			tls:      TLSConfig{Mode: "server", CertFile: "/path/to/cert.pem"},
			errorMsg: "TLS certificate and key are required for server mode",
		},
		{
			name:     "duplicate cert sources",
			tls:      TLSConfig{Mode: "server", CertFile: "/path/to/cert.pem", CertContent: "cert-content", KeyFile: "/path/to/key.pem"},
			errorMsg: "cannot specify both certFile and certContent",
		},
		{
			name:     "duplicate key sources",
			tls:      TLSConfig{Mode: "server", CertFile: "/path/to/cert.pem", KeyFile: "/path/to/key.pem", KeyContent: "key-content"},
			errorMsg: "cannot specify both keyFile and keyContent",
		},
		{
			name:     "mutual mode missing CA",
			tls:      TLSConfig{Mode: "mutual", CertFile: "/path/to/cert.pem", KeyFile: "/path/to/key.pem"},
			errorMsg: "CA certificate is required for mutual TLS mode",
		},
		{
			name: "mutual mode duplicate CA sources",
			tls: TLSConfig{
				Mode: "mutual", CertFile: "/path/to/cert.pem", KeyFile: "/path/to/key.pem",
				CAFile: "/path/to/ca.pem", CAContent: "ca-content",
			},
			errorMsg: "cannot specify both caFile and caContent",
		},
		{
			name: "mutual mode invalid client auth policy",
			tls: TLSConfig{
				Mode: "mutual", CertFile: "/path/to/cert.pem", KeyFile: "/path/to/key.pem",
				CAFile: "/path/to/ca.pem", ClientAuthPolicy: "invalid",
			},
			errorMsg: "invalid clientAuthPolicy: invalid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tlsConfigWith(tt.tls)
			err := cfg.ValidateTLSConfig()

			if tt.errorMsg != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateTLSConfigClientAuthPolicies(t *testing.T) {
	base := TLSConfig{
		Mode:     "mutual",
		CertFile: "/path/to/cert.pem",
		KeyFile:  "/path/to/key.pem",
		CAFile:   "/path/to/ca.pem",
	}

	for _, policy := range []string{"", "require", "request", "verify"} {
		tls := base
		tls.ClientAuthPolicy = policy
		cfg := tlsConfigWith(tls)
		assert.NoError(t, cfg.ValidateTLSConfig(), "policy %q should be accepted", policy)
	}
}

func TestValidateTLSConfigMinVersions(t *testing.T) {
	for _, version := range []string{"", "1.2", "1.3"} {
		cfg := tlsConfigWith(TLSConfig{Mode: "disabled", MinVersion: version})
		assert.NoError(t, cfg.ValidateTLSConfig(), "version %q should be accepted", version)
	}

	cfg := tlsConfigWith(TLSConfig{Mode: "disabled", MinVersion: "1.1"})
	err := cfg.ValidateTLSConfig()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "must be '1.2' or '1.3'")
}
