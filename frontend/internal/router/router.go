package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/bloodlink-dev/bloodlink/frontend/internal/handler"
	frontend_mw "github.com/bloodlink-dev/bloodlink/frontend/internal/middleware"
	"github.com/bloodlink-dev/bloodlink/frontend/internal/setup"
	mw "github.com/bloodlink-dev/bloodlink/shared/middleware"
	"github.com/bloodlink-dev/bloodlink/shared/middleware/metrics"
	rl "github.com/bloodlink-dev/bloodlink/shared/middleware/ratelimiter"
)

func New(deps *setup.Dependencies) http.Handler {
	h := deps.Handler
	auth := deps.Auth
	guard := deps.Guard
	secure := deps.Config.Public.SecureCookies

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(metrics.Middleware)
	r.Use(mw.SecurityHeaders(secure, mw.FrontendCSP))
	r.Use(frontend_mw.GenerateCSRFToken(secure))
	r.Use(frontend_mw.ValidateCSRFToken())

	r.NotFound(withOptionalAuth(auth, h.NotFoundHandler))

	// Public pages
	r.Group(func(public chi.Router) {
		public.Use(auth.OptionalAuth())
		public.Get("/", h.HomeHandler)
		public.Get("/signin", h.SignInGetHandler)
		public.Get("/signup", h.SignUpGetHandler)
		public.Get("/thank-you", h.ThankYouHandler)
		public.Get("/unauthorized", h.UnauthorizedHandler)

		public.With(mw.RateLimitWithHandler(rl.New(1, 5, time.Hour), mw.GetIP, tooManyAttempts(h, frontend_mw.SignInPath))).
			Post("/signin", h.SignInPostHandler)
		public.With(mw.RateLimitWithHandler(rl.New(1.0/10, 3, time.Hour), mw.GetIP, tooManyAttempts(h, "/signup"))).
			Post("/signup", h.SignUpPostHandler)
	})

	// Signed-in pages
	r.Group(func(signedIn chi.Router) {
		signedIn.Use(auth.NeedAuth())
		signedIn.Use(mw.RateLimit(rl.Rps10(), mw.GetUserIDFromContext))

		signedIn.Post("/logout", h.LogoutHandler)
		signedIn.Post("/refresh", h.RefreshHandler)
		signedIn.Get(frontend_mw.PendingApprovalPath, h.PendingApprovalHandler)

		signedIn.With(guard.Require(frontend_mw.RouteSignedIn)).Get("/profile", h.ProfileGetHandler)
		signedIn.With(guard.Require(frontend_mw.RouteSignedIn)).Post("/profile", h.ProfilePostHandler)
		signedIn.With(guard.Require(frontend_mw.RouteSearch)).Get("/search", h.SearchHandler)

		signedIn.Route("/admin", func(admin chi.Router) {
			admin.Use(guard.Require(frontend_mw.RouteAdmin))
			admin.Get("/", h.AdminHandler)
			admin.Post("/users/{userId}/{action}", h.ModerateHandler)
			admin.Post("/requests", h.CreateRequestHandler)
			admin.Post("/requests/{requestId}/{action}", h.RequestActionHandler)
		})
	})

	return r
}

func withOptionalAuth(auth *frontend_mw.Auth, next http.HandlerFunc) http.HandlerFunc {
	return auth.OptionalAuth()(next).ServeHTTP
}

func tooManyAttempts(h *handler.Handler, back string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		frontend_mw.RedirectWithFlash(w, r, back, frontend_mw.FlashError, "Too many attempts. Please wait a moment.", h.Public.SecureCookies)
	}
}
