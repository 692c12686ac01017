package server

import (
	"crypto/tls"
	"fmt"
)

// configureTLS returns the listener TLS configuration for the configured
// mode, or nil when TLS is disabled.
func (s *Server) configureTLS() (*tls.Config, error) {
	switch s.TLSConfig.Mode {
	case "", "disabled":
		return nil, nil
	case "server", "mutual":
	default:
		return nil, fmt.Errorf("invalid TLS mode: %s (must be 'disabled', 'server', or 'mutual')", s.TLSConfig.Mode)
	}

	cm := NewCertificateManager(s.TLSConfig, s.Observability, s.Logger)
	if err := cm.Start(); err != nil {
		return nil, fmt.Errorf("failed to start certificate manager: %w", err)
	}
	s.CertificateManager = cm

	tlsConfig := &tls.Config{
		MinVersion:     minTLSVersion(s.TLSConfig.MinVersion),
		GetCertificate: cm.GetServerCertificate,
		CipherSuites:   cipherSuites(s.TLSConfig.CipherSuites),
		ClientAuth:     tls.NoClientCert,
	}

	if s.TLSConfig.Mode == "mutual" {
		// Chains are verified against the manager's current CA pool so a
		// reloaded CA applies to new handshakes.
		tlsConfig.ClientAuth = clientAuthPolicy(s.TLSConfig.ClientAuthPolicy)
		if s.TLSConfig.ClientAuthPolicy != "request" {
			tlsConfig.VerifyPeerCertificate = cm.VerifyPeerCertificate
		}
	}

	return tlsConfig, nil
}

func minTLSVersion(v string) uint16 {
	if v == "1.3" {
		return tls.VersionTLS13
	}
	return tls.VersionTLS12
}

// clientAuthPolicy maps the configured policy onto a ClientAuthType that
// leaves chain verification to VerifyPeerCertificate. "request" asks for a
// certificate without verifying it.
func clientAuthPolicy(policy string) tls.ClientAuthType {
	switch policy {
	case "request", "verify":
		return tls.RequestClientCert
	default:
		return tls.RequireAnyClientCert
	}
}

func cipherSuites(names []string) []uint16 {
	if len(names) == 0 {
		return nil
	}
	ids := make([]uint16, 0, len(names))
	for _, name := range names {
		if id := getCipherSuiteID(name); id != 0 {
			ids = append(ids, id)
		}
	}
	return ids
}

// getCipherSuiteID returns the cipher suite ID for a given name
func getCipherSuiteID(name string) uint16 {
	for _, suite := range tls.CipherSuites() {
		if suite.Name == name {
			return suite.ID
		}
	}
	return 0
}
