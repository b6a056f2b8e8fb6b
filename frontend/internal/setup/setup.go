package setup

import (
	"context"
	"fmt"
	"html/template"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/bloodlink-dev/bloodlink/frontend/internal/apiclient"
	"github.com/bloodlink-dev/bloodlink/frontend/internal/cache"
	"github.com/bloodlink-dev/bloodlink/frontend/internal/handler"
	"github.com/bloodlink-dev/bloodlink/frontend/internal/markdown"
	"github.com/bloodlink-dev/bloodlink/frontend/internal/middleware"
	"github.com/bloodlink-dev/bloodlink/shared/bancache"
	"github.com/bloodlink-dev/bloodlink/shared/config"
	"github.com/bloodlink-dev/bloodlink/shared/jwt"
	"github.com/bloodlink-dev/bloodlink/shared/logger"
	mw "github.com/bloodlink-dev/bloodlink/shared/middleware"
	"github.com/bloodlink-dev/bloodlink/shared/session"
	"github.com/bloodlink-dev/bloodlink/shared/storage"
)

const (
	baseTemplate           = "base.html"
	partialsTemplate       = "partials.html"
	templateReloadInterval = 5 * time.Second
	defaultTemplatesPath   = "templates"
	defaultApiBaseURL      = "http://api:8080"
	// guardAwaitTimeout bounds how long a page waits for the profile fetch.
	guardAwaitTimeout = 5 * time.Second
)

type Dependencies struct {
	Config     *config.Config
	Handler    *handler.Handler
	Auth       *middleware.Auth
	Guard      *middleware.Guard
	Sessions   *session.Registry
	Storage    *storage.Storage
	DonorCache *cache.DonorCache
}

func SetupDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	store, err := storage.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	bans := bancache.New(store)
	if err := bans.Update(ctx); err != nil {
		store.Cleanup()
		return nil, fmt.Errorf("failed to load banned users: %w", err)
	}
	bans.StartBackgroundUpdate(ctx, cfg.Public.BanCacheUpdate)

	baseURL := cfg.Public.ApiBaseURL
	if baseURL == "" {
		baseURL = defaultApiBaseURL
	}
	apiClient := apiclient.New(baseURL)

	donorCache := cache.New(cfg.Private.Redis, cfg.Public.DonorCacheTTL)
	if donorCache == nil {
		logger.Log.Info("redis is not configured, donor list is fetched on every search")
	} else if err := donorCache.Ping(ctx); err != nil {
		logger.Log.Warn("redis unreachable, donor cache falls back to the api", "error", err)
	}

	sessions := session.NewRegistry(apiClient, session.Options{
		MaxAttempts: cfg.Public.ProfileFetchMaxAttempts,
		RetryDelay:  cfg.Public.ProfileFetchRetryDelay,
		MaxAge:      cfg.Public.ProfileMaxAge,
	}, cfg.Public.SessionIdleTimeout)

	tmplPath := templatesPath()
	templates, err := loadTemplates(tmplPath)
	if err != nil {
		sessions.Stop()
		store.Cleanup()
		return nil, err
	}

	var loaderWrapper handler.LoaderWrapper
	if donorCache != nil {
		loaderWrapper = donorCache
	}
	h := handler.New(templates, cfg.Public, markdown.New(), apiClient, sessions, loaderWrapper)
	startTemplateReloader(ctx, h, tmplPath)

	jwtSvc := jwt.New(cfg.JwtKey(), cfg.JwtTTL())
	auth := middleware.NewAuth(mw.NewAuth(jwtSvc, bans, cfg.Public.SecureCookies), cfg.Public.SecureCookies)

	return &Dependencies{
		Config:     cfg,
		Handler:    h,
		Auth:       auth,
		Guard:      middleware.NewGuard(sessions, guardAwaitTimeout, h.SessionErrorHandler),
		Sessions:   sessions,
		Storage:    store,
		DonorCache: donorCache,
	}, nil
}

func (d *Dependencies) Cleanup() {
	d.Sessions.Stop()
	if d.DonorCache != nil {
		if err := d.DonorCache.Close(); err != nil {
			logger.Log.Error("failed to close redis client", "error", err)
		}
	}
	d.Storage.Cleanup()
}

func templatesPath() string {
	if p := os.Getenv("TEMPLATES_PATH"); p != "" {
		return p
	}
	return defaultTemplatesPath
}

func list(values ...any) []any { return values }

func dict(values ...any) (map[string]any, error) {
	if len(values)%2 != 0 {
		return nil, fmt.Errorf("invalid dict call: number of arguments must be even")
	}
	m := make(map[string]any, len(values)/2)
	for i := 0; i < len(values); i += 2 {
		key, ok := values[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict keys must be strings")
		}
		m[key] = values[i+1]
	}
	return m, nil
}

// deref prints optional profile fields; nil becomes empty.
func deref(v any) any {
	switch p := v.(type) {
	case *string:
		if p != nil {
			return *p
		}
	case *int:
		if p != nil {
			return *p
		}
	}
	return ""
}

func formatDate(t time.Time) string {
	return t.Format("2 Jan 2006 15:04")
}

var funcs = template.FuncMap{
	"list":       list,
	"dict":       dict,
	"deref":      deref,
	"formatDate": formatDate,
}

// loadTemplates parses every page together with the base layout and partials.
func loadTemplates(tmplPath string) (map[string]*template.Template, error) {
	files, err := os.ReadDir(tmplPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read templates: %w", err)
	}

	templates := make(map[string]*template.Template)
	for _, f := range files {
		if filepath.Ext(f.Name()) != ".html" || f.Name() == baseTemplate || f.Name() == partialsTemplate {
			continue
		}
		t, err := template.New(baseTemplate).Funcs(funcs).ParseFiles(
			path.Join(tmplPath, baseTemplate),
			path.Join(tmplPath, f.Name()),
			path.Join(tmplPath, partialsTemplate),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", f.Name(), err)
		}
		templates[f.Name()] = t
	}
	return templates, nil
}

func startTemplateReloader(ctx context.Context, h *handler.Handler, tmplPath string) {
	if os.Getenv("ENV") != "development" {
		return
	}
	ticker := time.NewTicker(templateReloadInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				templates, err := loadTemplates(tmplPath)
				if err != nil {
					logger.Log.Error("template reload failed", "error", err)
					continue
				}
				h.SetTemplates(templates)
			case <-ctx.Done():
				return
			}
		}
	}()
}
