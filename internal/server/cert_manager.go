package server

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"sync"
	"time"

	"resumematch/internal/config"
	"resumematch/internal/errors"
	"resumematch/internal/observability"
	"resumematch/internal/watch"
)

const expiryReportInterval = time.Minute

// CertificateManager serves TLS material loaded from files or inline PEM and
// reloads it when the files change.
type CertificateManager struct {
	mu sync.RWMutex

	serverCert       *tls.Certificate
	caCertPool       *x509.CertPool
	serverCertExpiry time.Time
	lastReloadTime   time.Time

	config  config.TLSConfig
	watcher *watch.Watcher
	obs     *observability.Manager
	logger  *errors.Logger

	stopExpiry chan struct{}
	stopOnce   sync.Once

	reloadCount        int64
	reloadSuccessCount int64
	reloadFailureCount int64
	lastReloadSuccess  bool
	lastReloadError    string
}

// CertificateMetrics holds metrics about certificate operations
type CertificateMetrics struct {
	ReloadCount        int64
	ReloadSuccessCount int64
	ReloadFailureCount int64
	LastReloadTime     time.Time
	LastReloadSuccess  bool
	LastReloadError    string
}

func NewCertificateManager(tlsConfig config.TLSConfig, obs *observability.Manager, logger *errors.Logger) *CertificateManager {
	return &CertificateManager{
		config:     tlsConfig,
		obs:        obs,
		logger:     errors.OrDiscard(logger),
		stopExpiry: make(chan struct{}),
	}
}

// Start loads the certificates and, when enabled, watches the certificate
// files and reports expiry periodically.
func (cm *CertificateManager) Start() error {
	if err := cm.loadCertificates(); err != nil {
		return fmt.Errorf("failed to load initial certificates: %w", err)
	}

	if cm.config.AutoReload.FileWatcher.Enabled {
		if err := cm.startFileWatcher(); err != nil {
			return err
		}
	}

	go cm.expiryLoop()
	return nil
}

func (cm *CertificateManager) startFileWatcher() error {
	files := []string{cm.config.CertFile, cm.config.KeyFile, cm.config.CAFile}
	if cm.config.CertFile == "" && cm.config.KeyFile == "" && cm.config.CAFile == "" {
		cm.logger.Debug("Certificate file watcher skipped, TLS material is inline")
		return nil
	}

	w, err := watch.New(files, cm.config.AutoReload.FileWatcher.DebounceDelay, cm.onFilesChanged, cm.logger)
	if err != nil {
		return fmt.Errorf("failed to create certificate watcher: %w", err)
	}
	if err := w.Start(); err != nil {
		return fmt.Errorf("failed to start certificate watcher: %w", err)
	}
	cm.watcher = w

	cm.logger.Info("Certificate file watcher started", "files", w.Files())
	return nil
}

func (cm *CertificateManager) onFilesChanged(changed []string) {
	cm.logger.Info("Certificate files changed, reloading", "files", changed)
	if err := cm.ReloadCertificates(); err != nil {
		cm.logger.LogError(err, "Failed to reload certificates, keeping the previous ones")
	}
}

// Stop stops the file watcher and expiry reporting.
func (cm *CertificateManager) Stop() error {
	cm.stopOnce.Do(func() { close(cm.stopExpiry) })
	if cm.watcher != nil {
		if err := cm.watcher.Stop(); err != nil {
			return err
		}
	}
	cm.logger.Info("Certificate manager stopped")
	return nil
}

// Watching reports whether certificate files are being watched.
func (cm *CertificateManager) Watching() bool {
	return cm.watcher != nil && cm.watcher.IsRunning()
}

func (cm *CertificateManager) WatchedFiles() []string {
	if cm.watcher == nil {
		return nil
	}
	return cm.watcher.Files()
}

// GetServerCertificate returns the current server certificate for TLS handshakes
func (cm *CertificateManager) GetServerCertificate(hello *tls.ClientHelloInfo) (*tls.Certificate, error) {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	if cm.serverCert == nil {
		return nil, fmt.Errorf("no server certificate available")
	}
	if time.Now().After(cm.serverCertExpiry) {
		cm.logger.Warn("Server certificate expired",
			"expiry", cm.serverCertExpiry,
			"server_name", hello.ServerName)
		return nil, fmt.Errorf("server certificate expired")
	}
	return cm.serverCert, nil
}

func (cm *CertificateManager) GetCACertPool() *x509.CertPool {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.caCertPool
}

// VerifyPeerCertificate verifies client certificates against the current CA
// pool, so a reloaded CA takes effect without restarting the listener.
func (cm *CertificateManager) VerifyPeerCertificate(rawCerts [][]byte, _ [][]*x509.Certificate) error {
	if len(rawCerts) == 0 {
		return nil
	}

	cert, err := x509.ParseCertificate(rawCerts[0])
	if err != nil {
		return fmt.Errorf("failed to parse peer certificate: %w", err)
	}

	pool := cm.GetCACertPool()
	if pool == nil {
		return fmt.Errorf("no CA certificate pool available")
	}

	intermediates := x509.NewCertPool()
	for _, raw := range rawCerts[1:] {
		if c, err := x509.ParseCertificate(raw); err == nil {
			intermediates.AddCert(c)
		}
	}

	opts := x509.VerifyOptions{
		Roots:         pool,
		Intermediates: intermediates,
		KeyUsages:     []x509.ExtKeyUsage{x509.ExtKeyUsageClientAuth},
	}
	if _, err := cert.Verify(opts); err != nil {
		return fmt.Errorf("peer certificate verification failed: %w", err)
	}
	return nil
}

// ReloadCertificates reloads all TLS material. On failure the previously
// loaded certificates stay in use.
func (cm *CertificateManager) ReloadCertificates() error {
	err := cm.loadCertificates()
	if err != nil {
		cm.mu.Lock()
		cm.recordReload(false, err)
		cm.mu.Unlock()
	}
	return err
}

// CheckExpiry returns the time until the server certificate expires.
func (cm *CertificateManager) CheckExpiry() (time.Duration, error) {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	if cm.serverCertExpiry.IsZero() {
		return 0, fmt.Errorf("no certificates loaded")
	}
	return time.Until(cm.serverCertExpiry), nil
}

func (cm *CertificateManager) GetMetrics() CertificateMetrics {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	return CertificateMetrics{
		ReloadCount:        cm.reloadCount,
		ReloadSuccessCount: cm.reloadSuccessCount,
		ReloadFailureCount: cm.reloadFailureCount,
		LastReloadTime:     cm.lastReloadTime,
		LastReloadSuccess:  cm.lastReloadSuccess,
		LastReloadError:    cm.lastReloadError,
	}
}

func (cm *CertificateManager) loadCertificates() error {
	cert, err := cm.loadCertificatePair()
	if err != nil {
		return err
	}
	leaf, err := x509.ParseCertificate(cert.Certificate[0])
	if err != nil {
		return fmt.Errorf("failed to parse server certificate: %w", err)
	}

	var pool *x509.CertPool
	if cm.config.Mode == "mutual" {
		if pool, err = cm.loadCACertPool(); err != nil {
			return err
		}
	}

	cm.mu.Lock()
	defer cm.mu.Unlock()

	cm.serverCert = &cert
	cm.serverCertExpiry = leaf.NotAfter
	cm.caCertPool = pool
	cm.lastReloadTime = time.Now()
	cm.recordReload(true, nil)

	cm.logger.Info("Certificates loaded",
		"server_cert_expiry", cm.serverCertExpiry,
		"subject", leaf.Subject.CommonName)
	return nil
}

func (cm *CertificateManager) loadCertificatePair() (tls.Certificate, error) {
	switch {
	case cm.config.CertContent != "" && cm.config.KeyContent != "":
		cert, err := tls.X509KeyPair([]byte(cm.config.CertContent), []byte(cm.config.KeyContent))
		if err != nil {
			return cert, fmt.Errorf("failed to load server cert/key from content: %w", err)
		}
		return cert, nil
	case cm.config.CertFile != "" && cm.config.KeyFile != "":
		cert, err := tls.LoadX509KeyPair(cm.config.CertFile, cm.config.KeyFile)
		if err != nil {
			return cert, fmt.Errorf("failed to load server cert/key from files: %w", err)
		}
		return cert, nil
	default:
		return tls.Certificate{}, fmt.Errorf("TLS certificate and key are required (provide either files or content)")
	}
}

func (cm *CertificateManager) loadCACertPool() (*x509.CertPool, error) {
	var caCert []byte
	switch {
	case cm.config.CAContent != "":
		caCert = []byte(cm.config.CAContent)
	case cm.config.CAFile != "":
		data, err := os.ReadFile(cm.config.CAFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA file: %w", err)
		}
		caCert = data
	default:
		return nil, fmt.Errorf("CA certificate is required for mutual TLS mode (provide either caFile or caContent)")
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(caCert) {
		return nil, fmt.Errorf("failed to parse CA certificate")
	}
	return pool, nil
}

// recordReload updates reload counters. Callers hold cm.mu.
func (cm *CertificateManager) recordReload(success bool, err error) {
	cm.reloadCount++
	cm.lastReloadSuccess = success
	if success {
		cm.reloadSuccessCount++
		cm.lastReloadError = ""
	} else {
		cm.reloadFailureCount++
		cm.lastReloadError = err.Error()
	}

	ctx := context.Background()
	cm.obs.RecordCertReload(ctx, success)
	if success {
		cm.obs.RecordCertExpiry(ctx, cm.serverCertExpiry)
	}
}

func (cm *CertificateManager) expiryLoop() {
	ticker := time.NewTicker(expiryReportInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			cm.mu.RLock()
			expiry := cm.serverCertExpiry
			cm.mu.RUnlock()
			cm.obs.RecordCertExpiry(context.Background(), expiry)
		case <-cm.stopExpiry:
			return
		}
	}
}
