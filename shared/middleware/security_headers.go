package middleware

import (
	"net/http"
)

// FrontendCSP allows inline styles for the templates and nothing from third parties.
const FrontendCSP = "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; form-action 'self'; frame-ancestors 'none'"

// APICSP locks down JSON responses completely.
const APICSP = "default-src 'none'; frame-ancestors 'none'"

// SecurityHeaders sets the standard hardening headers. HSTS is only sent when
// the deployment terminates TLS (secure cookies on). An empty csp skips the
// Content-Security-Policy header.
func SecurityHeaders(isHTTPS bool, csp string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Frame-Options", "DENY")
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			// donor search never needs the browser's location
			h.Set("Permissions-Policy", "camera=(), microphone=(), geolocation=(), payment=()")
			if csp != "" {
				h.Set("Content-Security-Policy", csp)
			}
			if isHTTPS {
				h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}
			next.ServeHTTP(w, r)
		})
	}
}
