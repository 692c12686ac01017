package server

import (
	"fmt"
	"io"
	"os"
)

// displayServerInfo prints the endpoint list and security settings to stdout.
func (s *Server) displayServerInfo() {
	s.writeServerInfo(os.Stdout)
}

func (s *Server) writeServerInfo(w io.Writer) {
	scheme := "http"
	if s.TLSConfig.Mode == "server" || s.TLSConfig.Mode == "mutual" {
		scheme = "https"
	}
	fmt.Fprintf(w, "Listening on %s://%s:%s\n", scheme, s.Host, s.Port)

	s.displayEndpoints(w)
	s.displayAuthInfo(w)
	s.displayRequestLimitInfo(w)
	s.displayRateLimitInfo(w)
	s.displayTLSInfo(w)
}

func (s *Server) displayEndpoints(w io.Writer) {
	fmt.Fprintln(w, "Available endpoints:")
	fmt.Fprintln(w, "  GET  /health       - Health check")
	fmt.Fprintln(w, "  GET  /stats        - Server statistics")
	fmt.Fprintln(w, "  GET  /info         - Engine configuration")
	fmt.Fprintln(w, "  POST /match        - Match a resume against a job description")
	fmt.Fprintln(w, "  POST /rank         - Rank resumes against a job description")
	fmt.Fprintln(w, "  POST /skills       - Extract skills")
	fmt.Fprintln(w, "  POST /similarity   - TF-IDF cosine similarity")
	fmt.Fprintln(w, "  POST /suggestions  - Resume improvement suggestions")
	if s.Observability.MetricsHandler() != nil {
		fmt.Fprintf(w, "  GET  %-13s - Prometheus metrics\n", s.Observability.MetricsEndpoint())
	}
}

func (s *Server) displayAuthInfo(w io.Writer) {
	if len(s.APIKeys) > 0 {
		fmt.Fprintf(w, "API authentication: ENABLED (%d keys configured)\n", len(s.APIKeys))
		fmt.Fprintln(w, "Include 'X-API-Key: <your-key>' header in requests to the analysis endpoints")
	} else {
		fmt.Fprintln(w, "API authentication: DISABLED (no API keys configured)")
		fmt.Fprintln(w, "WARNING: API endpoints are publicly accessible!")
	}
}

func (s *Server) displayRequestLimitInfo(w io.Writer) {
	if s.MaxRequestSize > 0 {
		fmt.Fprintf(w, "Request size limit: %d bytes (%.1f MB)\n", s.MaxRequestSize, float64(s.MaxRequestSize)/(1024*1024))
	} else {
		fmt.Fprintln(w, "Request size limit: DISABLED")
		fmt.Fprintln(w, "WARNING: No request size limits configured!")
	}
}

func (s *Server) displayRateLimitInfo(w io.Writer) {
	if s.RateLimit != nil && s.RateLimit.Enabled {
		fmt.Fprintf(w, "Rate limiting: ENABLED (%d requests/min, burst: %d)\n",
			s.RateLimit.RequestsPerMin, s.RateLimit.BurstCapacity)
		if s.RateLimit.ByAPIKey {
			fmt.Fprintln(w, "  - Per API key rate limiting enabled")
		}
		if s.RateLimit.ByIP {
			fmt.Fprintln(w, "  - Per IP address rate limiting enabled")
		}
	} else {
		fmt.Fprintln(w, "Rate limiting: DISABLED")
	}
}

func (s *Server) displayTLSInfo(w io.Writer) {
	switch s.TLSConfig.Mode {
	case "server":
		fmt.Fprintln(w, "TLS mode: Server-only (no client certificates required)")
	case "mutual":
		fmt.Fprintln(w, "TLS mode: Mutual (client certificates required)")
	default:
		fmt.Fprintln(w, "TLS mode: Disabled (HTTP only)")
	}
	if s.CertificateManager != nil && s.CertificateManager.Watching() {
		fmt.Fprintln(w, "TLS auto-reload: ENABLED (file watching)")
	}
}
