package server

import (
	"net/http"
	"strings"
)

// contentSecurityPolicy allows the htmx script from unpkg, the inline live
// reload script and WebSocket connections back to this host.
var contentSecurityPolicy = strings.Join([]string{
	"default-src 'self'",
	"script-src 'self' 'unsafe-inline' https://unpkg.com",
	"style-src 'self' 'unsafe-inline'",
	"connect-src 'self' ws: wss:",
	"img-src 'self' data:",
	"object-src 'none'",
	"frame-ancestors 'none'",
	"base-uri 'self'",
}, "; ")

// securityHeaders applies the response headers every page carries. HSTS is
// only sent outside development mode since the dev server runs on plain HTTP.
func (s *DocsServer) securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Content-Security-Policy", contentSecurityPolicy)
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Cross-Origin-Opener-Policy", "same-origin")
		if !s.config.Docs.Dev && r.TLS != nil {
			h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		next.ServeHTTP(w, r)
	})
}
