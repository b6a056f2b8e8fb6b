package handler

import (
	"context"
	"net/http"

	"github.com/bloodlink-dev/bloodlink/backend/internal/service"
	"github.com/bloodlink-dev/bloodlink/shared/config"
	mw "github.com/bloodlink-dev/bloodlink/shared/middleware"
)

// HealthChecker is satisfied by the storage.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	auth    service.AuthService
	profile service.ProfileService
	donor   service.DonorService
	admin   service.AdminService
	request service.RequestService
	health  HealthChecker
	cfg     *config.Config
}

func New(auth service.AuthService, profile service.ProfileService, donor service.DonorService, admin service.AdminService, request service.RequestService, health HealthChecker, cfg *config.Config) *Handler {
	return &Handler{
		auth:    auth,
		profile: profile,
		donor:   donor,
		admin:   admin,
		request: request,
		health:  health,
		cfg:     cfg,
	}
}

func (h *Handler) setAccessCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Path:     "/",
		Name:     mw.AccessTokenCookie,
		Value:    token,
		MaxAge:   int(h.cfg.JwtTTL().Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.Public.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}
