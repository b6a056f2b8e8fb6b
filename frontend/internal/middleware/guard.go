package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/bloodlink-dev/bloodlink/shared/domain"
	"github.com/bloodlink-dev/bloodlink/shared/logger"
	mw "github.com/bloodlink-dev/bloodlink/shared/middleware"
	"github.com/bloodlink-dev/bloodlink/shared/session"
)

const PendingApprovalPath = "/pending-approval"

// Route says what a page needs beyond a signed-in user.
type Route int

const (
	RouteSignedIn Route = iota
	RouteSearch         // verified users only
	RouteAdmin
)

// Sessions is the bootstrapper registry.
type Sessions interface {
	Get(token string, user *domain.User) *session.Bootstrapper
}

// ErrorRenderer draws the page with a sticky inline alert and a refresh
// button when the profile could not be loaded.
type ErrorRenderer func(w http.ResponseWriter, r *http.Request, view session.View)

type Guard struct {
	sessions     Sessions
	awaitTimeout time.Duration
	onError      ErrorRenderer
}

func NewGuard(sessions Sessions, awaitTimeout time.Duration, onError ErrorRenderer) *Guard {
	return &Guard{sessions: sessions, awaitTimeout: awaitTimeout, onError: onError}
}

type sessionContextKey struct{}

type sessionContext struct {
	b    *session.Bootstrapper
	view session.View
}

// Require must run after Auth.NeedAuth. It waits for the session's profile
// and then allows, redirects or renders the inline error.
func (g *Guard) Require(route Route) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := mw.GetUserFromContext(r)
			token := mw.TokenFromRequest(r)
			if user == nil || token == "" {
				http.Redirect(w, r, SignInPath, http.StatusSeeOther)
				return
			}

			b := g.sessions.Get(token, user)
			view := g.await(r.Context(), b)

			// a ready session without a profile gets one more try
			if view.State == session.Ready && view.Profile == nil {
				b.Refresh()
				view = g.await(r.Context(), b)
			}

			switch view.State {
			case session.Unauthenticated:
				http.Redirect(w, r, SignInPath, http.StatusSeeOther)
				return
			case session.Error, session.Loading:
				ctx := context.WithValue(r.Context(), sessionContextKey{}, sessionContext{b: b, view: view})
				g.onError(w, r.WithContext(ctx), view)
				return
			}

			if route == RouteAdmin && !view.IsAdmin {
				http.Redirect(w, r, UnauthorizedPath, http.StatusSeeOther)
				return
			}
			if route == RouteSearch {
				switch view.Status() {
				case domain.StatusPending:
					http.Redirect(w, r, PendingApprovalPath, http.StatusSeeOther)
					return
				case domain.StatusBanned:
					http.Redirect(w, r, UnauthorizedPath, http.StatusSeeOther)
					return
				}
			}

			ctx := context.WithValue(r.Context(), sessionContextKey{}, sessionContext{b: b, view: view})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (g *Guard) await(ctx context.Context, b *session.Bootstrapper) session.View {
	ctx, cancel := context.WithTimeout(ctx, g.awaitTimeout)
	defer cancel()

	view, err := b.Await(ctx)
	if err != nil {
		logger.Log.Warn("profile still loading after timeout", "component", "guard", "state", view.State.String())
	}
	return view
}

// SessionFromContext returns the bootstrapper and the view the guard saw.
func SessionFromContext(r *http.Request) (*session.Bootstrapper, session.View, bool) {
	sc, ok := r.Context().Value(sessionContextKey{}).(sessionContext)
	if !ok {
		return nil, session.View{}, false
	}
	return sc.b, sc.view, true
}
