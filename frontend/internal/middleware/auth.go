package middleware

import (
	"net/http"

	mw "github.com/bloodlink-dev/bloodlink/shared/middleware"
)

const (
	SignInPath       = "/signin"
	UnauthorizedPath = "/unauthorized"
)

// Auth wraps the shared auth middleware with redirects for browsers.
type Auth struct {
	sharedAuth    *mw.Auth
	secureCookies bool
}

func NewAuth(sharedAuth *mw.Auth, secureCookies bool) *Auth {
	return &Auth{
		sharedAuth:    sharedAuth,
		secureCookies: secureCookies,
	}
}

// NeedAuth sends anonymous visitors to the sign-in page.
func (a *Auth) NeedAuth() func(http.Handler) http.Handler {
	return a.wrapWithRedirect(a.sharedAuth.NeedAuth())
}

// OptionalAuth populates the user context if available. It never redirects.
func (a *Auth) OptionalAuth() func(http.Handler) http.Handler {
	return a.sharedAuth.OptionalAuth()
}

// authRedirectWriter turns the shared middleware's 401/403 into redirects.
type authRedirectWriter struct {
	http.ResponseWriter
	request       *http.Request
	secureCookies bool
	redirected    bool
}

func (w *authRedirectWriter) WriteHeader(statusCode int) {
	if w.redirected {
		return
	}

	switch statusCode {
	case http.StatusUnauthorized:
		w.redirected = true
		RedirectWithFlash(w.ResponseWriter, w.request, SignInPath, FlashError, "Please sign in to continue", w.secureCookies)
	case http.StatusForbidden:
		w.redirected = true
		RedirectWithFlash(w.ResponseWriter, w.request, UnauthorizedPath, FlashError, "Access denied", w.secureCookies)
	default:
		w.ResponseWriter.WriteHeader(statusCode)
	}
}

func (w *authRedirectWriter) Write(data []byte) (int, error) {
	if w.redirected {
		return len(data), nil
	}
	return w.ResponseWriter.Write(data)
}

func (a *Auth) wrapWithRedirect(authMiddleware func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			wrapper := &authRedirectWriter{
				ResponseWriter: w,
				request:        r,
				secureCookies:  a.secureCookies,
			}
			// next gets the real writer; only the middleware's own errors are rewritten
			authMiddleware(passThrough(next, w)).ServeHTTP(wrapper, r)
		})
	}
}

// passThrough serves next with the original writer, ignoring the wrapper.
func passThrough(next http.Handler, w http.ResponseWriter) http.Handler {
	return http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)
	})
}
