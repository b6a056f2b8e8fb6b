package handler

import (
	"context"
	"html/template"
	"net/http"
	"sync"

	"github.com/bloodlink-dev/bloodlink/frontend/internal/markdown"
	"github.com/bloodlink-dev/bloodlink/shared/api"
	"github.com/bloodlink-dev/bloodlink/shared/config"
	"github.com/bloodlink-dev/bloodlink/shared/domain"
	"github.com/bloodlink-dev/bloodlink/shared/donor"
	"github.com/bloodlink-dev/bloodlink/shared/logger"
	mw "github.com/bloodlink-dev/bloodlink/shared/middleware"
	"github.com/bloodlink-dev/bloodlink/shared/session"
)

// Backend is the part of the API client the pages use.
type Backend interface {
	Signup(ctx context.Context, req api.SignupRequest) error
	Login(ctx context.Context, email, password string) (string, error)
	Refresh(ctx context.Context, token string) (string, error)

	UpdateProfile(ctx context.Context, token string, req api.UpdateProfileRequest) (domain.Profile, error)
	DonorLoader(token string) donor.Loader

	Users(ctx context.Context, token string, status *domain.Status) ([]api.AdminUser, error)
	Stats(ctx context.Context, token string) (api.AdminStatsResponse, error)
	Moderate(ctx context.Context, token string, id domain.UserId, action string) (api.AdminUser, error)
	Requests(ctx context.Context, token string) ([]domain.BloodRequest, error)
	CreateRequest(ctx context.Context, token string, req api.CreateBloodRequestRequest) (domain.BloodRequest, error)
	MatchRequest(ctx context.Context, token string, id domain.RequestId) error
	CompleteRequest(ctx context.Context, token string, id domain.RequestId) error
	DeleteRequest(ctx context.Context, token string, id domain.RequestId) error
}

// Sessions is the per-token bootstrapper registry.
type Sessions interface {
	Get(token string, user *domain.User) *session.Bootstrapper
	Rotate(oldToken, newToken string, user *domain.User) *session.Bootstrapper
	SignOut(token string)
}

// LoaderWrapper decorates the donor loader, e.g. with the Redis cache.
type LoaderWrapper interface {
	Wrap(next donor.Loader) donor.Loader
	Invalidate(ctx context.Context) error
}

type Handler struct {
	Public        config.Public
	TextProcessor *markdown.TextProcessor
	API           Backend
	Sessions      Sessions
	DonorCache    LoaderWrapper

	mu        sync.RWMutex
	templates map[string]*template.Template
}

func New(templates map[string]*template.Template, publicCfg config.Public, textProcessor *markdown.TextProcessor, backend Backend, sessions Sessions, donorCache LoaderWrapper) *Handler {
	return &Handler{
		templates:     templates,
		Public:        publicCfg,
		TextProcessor: textProcessor,
		API:           backend,
		Sessions:      sessions,
		DonorCache:    donorCache,
	}
}

// SetTemplates swaps the template set, used by the development reloader.
func (h *Handler) SetTemplates(templates map[string]*template.Template) {
	h.mu.Lock()
	h.templates = templates
	h.mu.Unlock()
}

func (h *Handler) getTemplate(name string) (*template.Template, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	t, ok := h.templates[name]
	return t, ok
}

func (h *Handler) donorLoader(token string) donor.Loader {
	loader := h.API.DonorLoader(token)
	if h.DonorCache != nil {
		loader = h.DonorCache.Wrap(loader)
	}
	return loader
}

// invalidateDonors is called after anything that changes who is listed.
func (h *Handler) invalidateDonors(ctx context.Context) {
	if h.DonorCache == nil {
		return
	}
	if err := h.DonorCache.Invalidate(ctx); err != nil {
		logger.Log.Warn("failed to invalidate donor cache", "error", err)
	}
}

func (h *Handler) setAccessCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     mw.AccessTokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.Public.JwtTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.Public.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}
