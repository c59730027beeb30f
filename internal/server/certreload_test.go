package server

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"log/slog"
	"math/big"
	"testing"
	"time"

	"o1ready/internal/config"
	"o1ready/internal/errors"
)

// selfSignedPEM returns a self-signed certificate and key in PEM form with
// the given expiry.
func selfSignedPEM(t *testing.T, notAfter time.Time) (certPEM, keyPEM string) {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	template := x509.Certificate{
		SerialNumber:          big.NewInt(time.Now().UnixNano()),
		Subject:               pkix.Name{CommonName: "localhost"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              notAfter,
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth, x509.ExtKeyUsageClientAuth},
		BasicConstraintsValid: true,
		IsCA:                  true,
		DNSNames:              []string{"localhost"},
	}

	der, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("create certificate: %v", err)
	}
	keyDER, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		t.Fatalf("marshal key: %v", err)
	}

	certPEM = string(pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}))
	keyPEM = string(pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER}))
	return certPEM, keyPEM
}

type fakeVaultClient struct {
	secret *config.VaultSecret
}

func (f *fakeVaultClient) GetSecretV2(path string) (*config.VaultSecret, error) {
	return f.secret, nil
}

func (f *fakeVaultClient) GetStringSecret(path, key string) (string, error) {
	v, _ := f.secret.Data[key].(string)
	return v, nil
}

func (f *fakeVaultClient) GetStringSliceSecret(path, key string) ([]string, error) {
	return nil, nil
}

func newReloaderLogger() *errors.Logger {
	return errors.NewLogger(slog.LevelError)
}

func TestCertReloaderLoadsFromContent(t *testing.T) {
	certPEM, keyPEM := selfSignedPEM(t, time.Now().Add(24*time.Hour))
	cfg := &config.TLSConfig{
		Mode:        "server",
		CertContent: certPEM,
		KeyContent:  keyPEM,
	}

	cr, err := NewCertReloader(cfg, nil, nil, newReloaderLogger())
	if err != nil {
		t.Fatalf("NewCertReloader failed: %v", err)
	}
	defer cr.Stop()

	cert, err := cr.GetCertificate(&tls.ClientHelloInfo{ServerName: "localhost"})
	if err != nil {
		t.Fatalf("GetCertificate failed: %v", err)
	}
	if cert == nil {
		t.Fatal("Expected a certificate")
	}

	ttl, err := cr.TimeToExpiry()
	if err != nil {
		t.Fatalf("TimeToExpiry failed: %v", err)
	}
	if ttl <= 23*time.Hour {
		t.Errorf("Expected roughly 24h to expiry, got %v", ttl)
	}
}

func TestCertReloaderRejectsExpiredCertificate(t *testing.T) {
	certPEM, keyPEM := selfSignedPEM(t, time.Now().Add(-time.Minute))
	cfg := &config.TLSConfig{
		Mode:        "server",
		CertContent: certPEM,
		KeyContent:  keyPEM,
	}

	cr, err := NewCertReloader(cfg, nil, nil, newReloaderLogger())
	if err != nil {
		t.Fatalf("NewCertReloader failed: %v", err)
	}
	defer cr.Stop()

	if _, err := cr.GetCertificate(&tls.ClientHelloInfo{}); err == nil {
		t.Error("Expected handshake refusal for expired certificate")
	}
}

func TestCertReloaderMutualModeBuildsCAPool(t *testing.T) {
	certPEM, keyPEM := selfSignedPEM(t, time.Now().Add(24*time.Hour))
	cfg := &config.TLSConfig{
		Mode:        "mutual",
		CertContent: certPEM,
		KeyContent:  keyPEM,
		CAContent:   certPEM,
	}

	cr, err := NewCertReloader(cfg, nil, nil, newReloaderLogger())
	if err != nil {
		t.Fatalf("NewCertReloader failed: %v", err)
	}
	defer cr.Stop()

	if cr.ClientCAs() == nil {
		t.Fatal("Expected a CA pool in mutual mode")
	}

	// The self-signed cert verifies against a pool containing itself.
	block, _ := pem.Decode([]byte(certPEM))
	if err := cr.VerifyPeer([][]byte{block.Bytes}, nil); err != nil {
		t.Errorf("VerifyPeer rejected a certificate signed by the trusted CA: %v", err)
	}

	if err := cr.VerifyPeer(nil, nil); err == nil {
		t.Error("Expected rejection when no peer certificate is presented")
	}
}

func TestCertReloaderVaultRotation(t *testing.T) {
	oldCert, oldKey := selfSignedPEM(t, time.Now().Add(time.Hour))
	newCert, newKey := selfSignedPEM(t, time.Now().Add(48*time.Hour))

	vault := &fakeVaultClient{
		secret: &config.VaultSecret{
			Data:    map[string]any{"cert": newCert, "key": newKey},
			Version: 2,
		},
	}

	cfg := &config.TLSConfig{
		Mode:        "server",
		CertContent: oldCert,
		KeyContent:  oldKey,
		AutoReload: config.AutoReloadConfig{
			Enabled: true,
			VaultWatcher: config.VaultWatcherConfig{
				Enabled:      true,
				PollInterval: 10 * time.Millisecond,
				SecretPath:   "secret/data/o1ready/tls",
			},
		},
	}

	cr, err := NewCertReloader(cfg, vault, nil, newReloaderLogger())
	if err != nil {
		t.Fatalf("NewCertReloader failed: %v", err)
	}
	defer cr.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if ttl, err := cr.TimeToExpiry(); err == nil && ttl > 24*time.Hour {
			return // rotated cert picked up
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("Rotated Vault certificate was never applied")
}

func TestCertReloaderStatus(t *testing.T) {
	certPEM, keyPEM := selfSignedPEM(t, time.Now().Add(time.Hour))
	cfg := &config.TLSConfig{
		Mode:        "server",
		CertContent: certPEM,
		KeyContent:  keyPEM,
	}

	cr, err := NewCertReloader(cfg, nil, nil, newReloaderLogger())
	if err != nil {
		t.Fatalf("NewCertReloader failed: %v", err)
	}
	defer cr.Stop()

	status := cr.Status()
	if status["reloads"].(int64) != 1 {
		t.Errorf("Expected 1 reload after initial load, got %v", status["reloads"])
	}
	if status["failures"].(int64) != 0 {
		t.Errorf("Expected no failures, got %v", status["failures"])
	}
}
