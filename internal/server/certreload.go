package server

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"o1ready/internal/config"
	"o1ready/internal/errors"
	"o1ready/internal/observability"

	"github.com/fsnotify/fsnotify"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// VaultClientInterface is the subset of the Vault client the server needs.
type VaultClientInterface interface {
	GetSecretV2(path string) (*config.VaultSecret, error)
	GetStringSecret(path, key string) (string, error)
	GetStringSliceSecret(path, key string) ([]string, error)
}

// CertReloader serves the active TLS keypair and CA pool, swapping them in
// place when the underlying material changes. File-based certificates are
// watched with fsnotify; Vault-based certificates are picked up by polling
// the secret version.
type CertReloader struct {
	mu     sync.RWMutex
	cfg    *config.TLSConfig
	logger *errors.Logger
	om     *observability.ObservabilityManager

	cert   *tls.Certificate
	expiry time.Time
	caPool *x509.CertPool

	watcher  *fsnotify.Watcher
	debounce *time.Timer
	vault    VaultClientInterface
	lastVer  int64
	done     chan struct{}

	reloads  atomic.Int64
	failures atomic.Int64
	lastErr  atomic.Value
}

// NewCertReloader loads the initial certificate material and starts the
// watchers enabled in the auto-reload config.
func NewCertReloader(cfg *config.TLSConfig, vault VaultClientInterface, om *observability.ObservabilityManager, logger *errors.Logger) (*CertReloader, error) {
	cr := &CertReloader{
		cfg:    cfg,
		vault:  vault,
		om:     om,
		logger: logger,
		done:   make(chan struct{}),
	}

	if err := cr.reload(); err != nil {
		return nil, fmt.Errorf("initial certificate load: %w", err)
	}

	ar := cfg.AutoReload
	if ar.FileWatcher.Enabled && (cfg.CertFile != "" || cfg.KeyFile != "" || cfg.CAFile != "") {
		if err := cr.watchFiles(ar.FileWatcher.DebounceDelay); err != nil {
			return nil, err
		}
	}
	if ar.VaultWatcher.Enabled && vault != nil && ar.VaultWatcher.SecretPath != "" {
		go cr.pollVault(ar.VaultWatcher.SecretPath, ar.VaultWatcher.PollInterval)
	}
	go cr.monitorExpiry()

	return cr, nil
}

// GetCertificate hands the current keypair to the TLS handshake. An expired
// certificate is refused rather than served.
func (cr *CertReloader) GetCertificate(hello *tls.ClientHelloInfo) (*tls.Certificate, error) {
	cr.mu.RLock()
	defer cr.mu.RUnlock()

	if cr.cert == nil {
		return nil, fmt.Errorf("no server certificate loaded")
	}
	if time.Now().After(cr.expiry) {
		cr.logger.LogError(fmt.Errorf("certificate expired"), "Refusing handshake with expired certificate",
			"expiry", cr.expiry, "server_name", hello.ServerName)
		return nil, fmt.Errorf("server certificate expired at %s", cr.expiry)
	}
	return cr.cert, nil
}

// ClientCAs returns the CA pool used to verify client certificates.
func (cr *CertReloader) ClientCAs() *x509.CertPool {
	cr.mu.RLock()
	defer cr.mu.RUnlock()
	return cr.caPool
}

// VerifyPeer checks a presented client certificate against the current CA
// pool, so a CA rotated at runtime takes effect without a restart.
func (cr *CertReloader) VerifyPeer(rawCerts [][]byte, _ [][]*x509.Certificate) error {
	if len(rawCerts) == 0 {
		return fmt.Errorf("no peer certificate presented")
	}
	leaf, err := x509.ParseCertificate(rawCerts[0])
	if err != nil {
		return fmt.Errorf("parse peer certificate: %w", err)
	}
	pool := cr.ClientCAs()
	if pool == nil {
		return fmt.Errorf("no CA pool loaded for client verification")
	}
	if _, err := leaf.Verify(x509.VerifyOptions{Roots: pool}); err != nil {
		return fmt.Errorf("peer certificate rejected: %w", err)
	}
	return nil
}

// TimeToExpiry reports how long the active certificate remains valid.
func (cr *CertReloader) TimeToExpiry() (time.Duration, error) {
	cr.mu.RLock()
	defer cr.mu.RUnlock()
	if cr.expiry.IsZero() {
		return 0, fmt.Errorf("no certificate loaded")
	}
	return time.Until(cr.expiry), nil
}

// Status summarizes reloader state for the health endpoint.
func (cr *CertReloader) Status() map[string]any {
	cr.mu.RLock()
	watching := cr.watcher != nil
	lastVer := cr.lastVer
	cr.mu.RUnlock()

	status := map[string]any{
		"reloads":        cr.reloads.Load(),
		"failures":       cr.failures.Load(),
		"watching_files": watching,
	}
	if lastVer > 0 {
		status["vault_secret_version"] = lastVer
	}
	if msg, ok := cr.lastErr.Load().(string); ok && msg != "" {
		status["last_error"] = msg
	}
	return status
}

// Stop shuts down the watchers.
func (cr *CertReloader) Stop() error {
	close(cr.done)
	cr.mu.Lock()
	defer cr.mu.Unlock()
	if cr.debounce != nil {
		cr.debounce.Stop()
	}
	if cr.watcher != nil {
		return cr.watcher.Close()
	}
	return nil
}

// reload loads the keypair from content (Vault) or files, extracts the leaf
// expiry, and rebuilds the CA pool for mutual mode.
func (cr *CertReloader) reload() error {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	var cert tls.Certificate
	var err error
	switch {
	case cr.cfg.CertContent != "" && cr.cfg.KeyContent != "":
		cert, err = tls.X509KeyPair([]byte(cr.cfg.CertContent), []byte(cr.cfg.KeyContent))
	case cr.cfg.CertFile != "" && cr.cfg.KeyFile != "":
		cert, err = tls.LoadX509KeyPair(cr.cfg.CertFile, cr.cfg.KeyFile)
	default:
		err = fmt.Errorf("no certificate source configured")
	}
	if err != nil {
		cr.recordReload(false, err)
		return err
	}

	leaf, err := x509.ParseCertificate(cert.Certificate[0])
	if err != nil {
		cr.recordReload(false, err)
		return fmt.Errorf("parse server certificate: %w", err)
	}

	var pool *x509.CertPool
	if cr.cfg.Mode == "mutual" {
		pool, err = cr.buildCAPool()
		if err != nil {
			cr.recordReload(false, err)
			return err
		}
	}

	cr.cert = &cert
	cr.expiry = leaf.NotAfter
	cr.caPool = pool
	cr.recordReload(true, nil)

	cr.logger.Info("TLS certificate loaded", "expiry", cr.expiry, "mode", cr.cfg.Mode)
	return nil
}

func (cr *CertReloader) buildCAPool() (*x509.CertPool, error) {
	var pem []byte
	switch {
	case cr.cfg.CAContent != "":
		pem = []byte(cr.cfg.CAContent)
	case cr.cfg.CAFile != "":
		var err error
		pem, err = os.ReadFile(cr.cfg.CAFile)
		if err != nil {
			return nil, fmt.Errorf("read CA file: %w", err)
		}
	default:
		return nil, fmt.Errorf("mutual TLS requires a CA certificate")
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("no certificates parsed from CA PEM")
	}
	return pool, nil
}

// watchFiles watches the certificate files' directories so atomic writes
// (rename into place) are seen, debouncing bursts into one reload.
func (cr *CertReloader) watchFiles(debounce time.Duration) error {
	if debounce <= 0 {
		debounce = time.Second
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create certificate watcher: %w", err)
	}

	names := make(map[string]bool)
	dirs := make(map[string]bool)
	for _, f := range []string{cr.cfg.CertFile, cr.cfg.KeyFile, cr.cfg.CAFile} {
		if f == "" {
			continue
		}
		names[filepath.Base(f)] = true
		dirs[filepath.Dir(f)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	cr.watcher = watcher
	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !names[filepath.Base(event.Name)] {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				cr.scheduleReload(debounce)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				cr.logger.LogError(err, "Certificate watcher error")
			case <-cr.done:
				return
			}
		}
	}()

	cr.logger.Info("Watching certificate files", "dirs", len(dirs), "debounce", debounce)
	return nil
}

func (cr *CertReloader) scheduleReload(debounce time.Duration) {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	if cr.debounce != nil {
		cr.debounce.Stop()
	}
	cr.debounce = time.AfterFunc(debounce, func() {
		cr.logger.Info("Certificate files changed, reloading")
		if err := cr.reload(); err != nil {
			cr.logger.LogError(err, "Certificate reload failed")
		}
	})
}

// pollVault reloads when the TLS secret's KVv2 version advances.
func (cr *CertReloader) pollVault(path string, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			secret, err := cr.vault.GetSecretV2(path)
			if err != nil {
				cr.logger.LogError(err, "Vault TLS secret poll failed", "path", path)
				continue
			}
			cr.mu.Lock()
			changed := secret.Version > cr.lastVer
			if changed {
				cr.lastVer = secret.Version
				cr.applySecret(secret)
			}
			cr.mu.Unlock()
			if changed {
				cr.logger.Info("Vault TLS secret rotated", "path", path, "version", secret.Version)
				if err := cr.reload(); err != nil {
					cr.logger.LogError(err, "Certificate reload from Vault failed")
				}
			}
		case <-cr.done:
			return
		}
	}
}

// applySecret copies rotated PEM content into the TLS config. Caller holds
// the write lock.
func (cr *CertReloader) applySecret(secret *config.VaultSecret) {
	if v, ok := secret.Data["cert"].(string); ok && v != "" {
		cr.cfg.CertContent = v
	}
	if v, ok := secret.Data["key"].(string); ok && v != "" {
		cr.cfg.KeyContent = v
	}
	if v, ok := secret.Data["ca"].(string); ok && v != "" {
		cr.cfg.CAContent = v
	}
}

func (cr *CertReloader) recordReload(success bool, err error) {
	cr.reloads.Add(1)
	if success {
		cr.lastErr.Store("")
	} else {
		cr.failures.Add(1)
		if err != nil {
			cr.lastErr.Store(err.Error())
		}
	}

	if cr.om == nil {
		return
	}
	m := cr.om.GetMetrics()
	if m == nil {
		return
	}
	status := "success"
	if !success {
		status = "failure"
	}
	m.CertReloadCount.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("status", status)))
}

// monitorExpiry keeps the expiry gauge current between reloads.
func (cr *CertReloader) monitorExpiry() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if cr.om == nil {
				continue
			}
			m := cr.om.GetMetrics()
			if m == nil {
				continue
			}
			cr.mu.RLock()
			expiry := cr.expiry
			cr.mu.RUnlock()
			if !expiry.IsZero() {
				m.CertExpiryTime.Record(context.Background(), time.Until(expiry).Seconds(),
					metric.WithAttributes(attribute.String("cert_type", "server")))
			}
		case <-cr.done:
			return
		}
	}
}
