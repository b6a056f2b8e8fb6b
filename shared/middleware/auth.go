package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/bloodlink-dev/bloodlink/shared/domain"
	jwt_internal "github.com/bloodlink-dev/bloodlink/shared/jwt"
	"github.com/bloodlink-dev/bloodlink/shared/logger"
	"github.com/bloodlink-dev/bloodlink/shared/utils"
)

const AccessTokenCookie = "accessToken"

// BanChecker reports users whose profile is banned. Their still-valid tokens
// are refused.
type BanChecker interface {
	IsBanned(userId domain.UserId) bool
}

// AdminChecker reads the stored admin flag. The claim in the token is only a
// hint and may be stale after a demotion.
type AdminChecker interface {
	IsAdmin(ctx context.Context, userId domain.UserId) (bool, error)
}

// Key to store the user claims in the request context
type key int

const UserClaimsKey key = 0

// Auth holds dependencies for authentication middleware
type Auth struct {
	jwtService    jwt_internal.JwtService
	bans          BanChecker
	admins        AdminChecker
	secureCookies bool
}

func NewAuth(jwtService jwt_internal.JwtService, bans BanChecker, secureCookies bool) *Auth {
	return &Auth{
		jwtService:    jwtService,
		bans:          bans,
		secureCookies: secureCookies,
	}
}

// WithAdminChecker makes AdminOnly consult the stored flag instead of the
// token claim.
func (a *Auth) WithAdminChecker(admins AdminChecker) *Auth {
	a.admins = admins
	return a
}

// NeedAuth returns middleware that requires authentication
func (a *Auth) NeedAuth() func(http.Handler) http.Handler {
	return a.auth(false)
}

// AdminOnly returns middleware that requires admin authentication
func (a *Auth) AdminOnly() func(http.Handler) http.Handler {
	return a.auth(true)
}

// OptionalAuth populates the user context if the token is valid but lets
// anonymous requests through.
func (a *Auth) OptionalAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if user, _, err := a.extractUser(r); err == nil {
				next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), UserClaimsKey, user)))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// TokenFromRequest reads the access token from the cookie (browsers) or the
// Authorization header (API clients).
func TokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(AccessTokenCookie); err == nil && c.Value != "" {
		return c.Value
	}
	if token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); found {
		return token
	}
	return ""
}

var (
	errNoToken       = errors.New("no token")
	errInvalidClaims = errors.New("invalid claims")
	errBanned        = errors.New("banned")
)

func (a *Auth) extractUser(r *http.Request) (*domain.User, string, error) {
	tokenString := TokenFromRequest(r)
	if tokenString == "" {
		return nil, "", errNoToken
	}

	token, err := a.jwtService.DecodeToken(tokenString)
	if err != nil {
		return nil, "", err
	}

	user, ok := jwt_internal.UserFromClaims(token)
	if !ok {
		return nil, "", errInvalidClaims
	}

	if a.bans != nil && a.bans.IsBanned(user.Id) {
		return nil, "", errBanned
	}

	return user, tokenString, nil
}

// ClearAccessCookie expires the access token cookie.
func ClearAccessCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Path:     "/",
		Name:     AccessTokenCookie,
		Value:    "",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (a *Auth) auth(adminOnly bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, _, err := a.extractUser(r)
			if err != nil {
				switch {
				case errors.Is(err, errNoToken):
					http.Error(w, "Please sign-in", http.StatusUnauthorized)
				case errors.Is(err, errBanned):
					ClearAccessCookie(w, a.secureCookies)
					http.Error(w, "Account suspended", http.StatusForbidden)
				case errors.Is(err, errInvalidClaims):
					logger.Log.Error("invalid jwt claims")
					http.Error(w, "Invalid token", http.StatusUnauthorized)
				default:
					utils.WriteErrorAndStatusCode(w, err)
				}
				return
			}

			if adminOnly {
				isAdmin, err := a.isAdmin(r.Context(), user)
				if err != nil {
					logger.Log.Error("failed to check admin flag", "user_id", user.Id, "error", err)
					http.Error(w, "Internal error", http.StatusInternalServerError)
					return
				}
				if !isAdmin {
					http.Error(w, "Access denied. Only for admin", http.StatusForbidden)
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), UserClaimsKey, user)))
		})
	}
}

func (a *Auth) isAdmin(ctx context.Context, user *domain.User) (bool, error) {
	if a.admins == nil {
		return user.Admin, nil
	}
	isAdmin, err := a.admins.IsAdmin(ctx, user.Id)
	if err != nil {
		return false, err
	}
	user.Admin = isAdmin
	return isAdmin, nil
}

// GetUserFromContext retrieves the user from the context
func GetUserFromContext(r *http.Request) *domain.User {
	user, ok := r.Context().Value(UserClaimsKey).(*domain.User)
	if !ok {
		return nil
	}
	return user
}
