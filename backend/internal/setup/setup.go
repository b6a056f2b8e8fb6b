package setup

import (
	"context"
	"fmt"

	"github.com/bloodlink-dev/bloodlink/backend/internal/handler"
	"github.com/bloodlink-dev/bloodlink/backend/internal/service"
	"github.com/bloodlink-dev/bloodlink/backend/internal/storage/pg"
	"github.com/bloodlink-dev/bloodlink/backend/internal/utils/email"
	"github.com/bloodlink-dev/bloodlink/shared/bancache"
	"github.com/bloodlink-dev/bloodlink/shared/config"
	"github.com/bloodlink-dev/bloodlink/shared/jwt"
	"github.com/bloodlink-dev/bloodlink/shared/logger"
	mw "github.com/bloodlink-dev/bloodlink/shared/middleware"
)

// Dependencies holds everything the router needs.
type Dependencies struct {
	Config         *config.Config
	Storage        *pg.Storage
	Handler        *handler.Handler
	AuthMiddleware *mw.Auth
	Bans           *bancache.Cache
}

// SetupDependencies connects to the database and builds the service graph.
// Background work (ban cache refresh) stops when ctx is done.
func SetupDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	storage, err := pg.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	bans := bancache.New(storage)
	if err := bans.Update(ctx); err != nil {
		storage.Cleanup()
		return nil, fmt.Errorf("failed to load banned users: %w", err)
	}
	bans.StartBackgroundUpdate(ctx, cfg.Public.BanCacheUpdate)

	mailer := email.New(&cfg.Private.Email)
	if !cfg.Private.Email.Enabled() {
		logger.Log.Warn("smtp is not configured, moderation emails are only logged")
	}
	jwtSvc := jwt.New(cfg.JwtKey(), cfg.JwtTTL())

	auth := service.NewAuth(storage, mailer, jwtSvc, &cfg.Public)
	profile := service.NewProfile(storage)
	donor := service.NewDonor(storage)
	admin := service.NewAdmin(storage, mailer, bans)
	request := service.NewRequest(storage)

	h := handler.New(auth, profile, donor, admin, request, storage, cfg)

	return &Dependencies{
		Config:         cfg,
		Storage:        storage,
		Handler:        h,
		AuthMiddleware: mw.NewAuth(jwtSvc, bans, cfg.Public.SecureCookies).WithAdminChecker(storage),
		Bans:           bans,
	}, nil
}

func (d *Dependencies) Cleanup() {
	if err := d.Storage.Cleanup(); err != nil {
		logger.Log.Error("failed to close storage", "error", err)
	}
}
