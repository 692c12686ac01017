package config

import "fmt"

// pemSource is one piece of TLS material that may come from a file or from
// inline content, never both.
type pemSource struct {
	field   string
	file    string
	content string
}

func (p pemSource) present() bool { return p.file != "" || p.content != "" }

func (p pemSource) checkExclusive() error {
	if p.file != "" && p.content != "" {
		return fmt.Errorf("cannot specify both %sFile and %sContent - choose one", p.field, p.field)
	}
	return nil
}

// ValidateTLSConfig validates the TLS configuration
func (c *Config) ValidateTLSConfig() error {
	t := c.Server.TLS
	cert := pemSource{"cert", t.CertFile, t.CertContent}
	key := pemSource{"key", t.KeyFile, t.KeyContent}
	ca := pemSource{"ca", t.CAFile, t.CAContent}

	var sources []pemSource
	switch t.Mode {
	case "disabled":
		return nil
	case "server":
		sources = []pemSource{cert, key}
	case "mutual":
		sources = []pemSource{cert, key, ca}
	default:
		return fmt.Errorf("invalid TLS mode: %s (must be 'disabled', 'server', or 'mutual')", t.Mode)
	}

	if !cert.present() || !key.present() {
		return fmt.Errorf("TLS certificate and key are required for %s mode (provide either files or content)", t.Mode)
	}
	if t.Mode == "mutual" && !ca.present() {
		return fmt.Errorf("CA certificate is required for mutual TLS mode (provide either caFile or caContent)")
	}
	for _, s := range sources {
		if err := s.checkExclusive(); err != nil {
			return err
		}
	}

	if t.Mode == "mutual" {
		switch t.ClientAuthPolicy {
		case "require", "request", "verify", "":
		default:
			return fmt.Errorf("invalid clientAuthPolicy: %s (must be 'require', 'request', or 'verify')", t.ClientAuthPolicy)
		}
	}

	switch t.MinVersion {
	case "", "1.2", "1.3":
	default:
		return fmt.Errorf("invalid TLS minVersion: %s (must be '1.2' or '1.3')", t.MinVersion)
	}
	return nil
}
