package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bloodlink-dev/bloodlink/backend/internal/service"
	"github.com/bloodlink-dev/bloodlink/backend/internal/setup"
	mw "github.com/bloodlink-dev/bloodlink/shared/middleware"
	"github.com/bloodlink-dev/bloodlink/shared/middleware/metrics"
	rl "github.com/bloodlink-dev/bloodlink/shared/middleware/ratelimiter"
)

// New builds the API router.
// IMPORTANT! a rate limiter set with Use limits all endpoints of that group combined
func New(deps *setup.Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(metrics.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.Public.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(mw.SecurityHeaders(deps.Config.Public.SecureCookies, mw.APICSP))

	h := deps.Handler
	authMw := deps.AuthMiddleware

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(v1 chi.Router) {
		v1.Route("/auth", func(auth chi.Router) {
			auth.Group(func(signup chi.Router) {
				signup.Use(mw.RateLimit(rl.New(1.0/10, 3, time.Hour), mw.GetIP)) // burst of 3, then one per 10s by IP
				signup.Use(mw.GlobalRateLimit(rl.Rps100()))
				signup.Post("/signup", h.Signup)
			})
			auth.Group(func(login chi.Router) {
				login.Use(mw.RateLimit(rl.OnceInSecond(), mw.GetIP))
				login.Use(mw.GlobalRateLimit(rl.New(1000, 1000, time.Hour)))
				login.Post("/login", h.Login)
			})
			auth.Post("/logout", h.Logout)
			auth.With(authMw.NeedAuth()).Post("/refresh", h.Refresh)
		})

		v1.Group(func(loggedIn chi.Router) {
			loggedIn.Use(authMw.NeedAuth())
			loggedIn.Use(mw.RateLimit(rl.Rps100(), mw.GetUserIDFromContext))

			loggedIn.Get("/profile", h.GetProfile)
			loggedIn.With(mw.RateLimit(rl.OnceInSecond(), mw.GetUserIDFromContext)).Put("/profile", h.UpdateProfile)
			loggedIn.With(mw.RateLimit(rl.Rps10(), mw.GetUserIDFromContext)).Get("/donors", h.GetDonors)
			loggedIn.Get("/requests", h.GetRequests)
		})

		v1.Route("/admin", func(admin chi.Router) {
			admin.Use(authMw.AdminOnly())

			admin.Get("/users", h.GetUsers)
			admin.Get("/stats", h.GetStats)
			admin.Post("/users/{userId}/verify", h.Moderate(service.ActionVerify))
			admin.Post("/users/{userId}/reject", h.Moderate(service.ActionReject))
			admin.Post("/users/{userId}/ban", h.Moderate(service.ActionBan))
			admin.Post("/users/{userId}/activate", h.Moderate(service.ActionActivate))

			admin.Post("/requests", h.CreateRequest)
			admin.Post("/requests/{requestId}/match", h.MatchRequest)
			admin.Post("/requests/{requestId}/complete", h.CompleteRequest)
			admin.Delete("/requests/{requestId}", h.DeleteRequest)
		})
	})

	return r
}
