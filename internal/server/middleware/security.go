package middleware

import "net/http"

// SecurityHeadersConfig holds configuration for security headers middleware
type SecurityHeadersConfig struct {
	// EnableHSTS enables the HSTS header even on plain connections, for
	// deployments behind a TLS-terminating reverse proxy.
	EnableHSTS bool
}

// SecurityHeaders adds a standard set of security headers to all HTTP
// responses. The MCP endpoint serves no HTML, but the transport is still a
// browser-reachable HTTP surface and gets the usual hardening headers.
func SecurityHeaders(config SecurityHeadersConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Prevent MIME sniffing
			w.Header().Set("X-Content-Type-Options", "nosniff")

			// Prevent clickjacking
			w.Header().Set("X-Frame-Options", "DENY")

			// Force HTTPS (configurable for reverse proxy scenarios)
			if r.TLS != nil || config.EnableHSTS {
				w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
			}

			// Restrict referrer information
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

			// Content Security Policy
			w.Header().Set("Content-Security-Policy", "default-src 'self'; frame-ancestors 'none'; base-uri 'self'; form-action 'self'")

			next.ServeHTTP(w, r)
		})
	}
}
