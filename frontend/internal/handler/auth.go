package handler

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/bloodlink-dev/bloodlink/frontend/internal/middleware"
	"github.com/bloodlink-dev/bloodlink/shared/api"
	"github.com/bloodlink-dev/bloodlink/shared/errors"
	"github.com/bloodlink-dev/bloodlink/shared/logger"
	mw "github.com/bloodlink-dev/bloodlink/shared/middleware"
)

const (
	thankYouPath   = "/thank-you"
	afterSignIn    = "/profile"
	signUpPath     = "/signup"
	backendDownMsg = "Internal error: backend unavailable."
)

func (h *Handler) SignInGetHandler(w http.ResponseWriter, r *http.Request) {
	h.renderTemplate(w, r, "signin.html", nil)
}

func (h *Handler) SignInPostHandler(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	token, err := h.API.Login(r.Context(), email, password)
	if err != nil {
		logger.Log.Info("sign-in failed", "email", email, "error", err)
		h.redirectWithFlash(w, r, middleware.SignInPath, middleware.FlashError, userMessage(err))
		return
	}

	h.setAccessCookie(w, token)
	http.Redirect(w, r, afterSignIn, http.StatusSeeOther)
}

func (h *Handler) SignUpGetHandler(w http.ResponseWriter, r *http.Request) {
	h.renderTemplate(w, r, "signup.html", nil)
}

func (h *Handler) SignUpPostHandler(w http.ResponseWriter, r *http.Request) {
	password := r.FormValue("password")
	if password != r.FormValue("confirm_password") {
		h.redirectWithFlash(w, r, signUpPath, middleware.FlashError, "Passwords do not match.")
		return
	}

	req := api.SignupRequest{
		Email:     strings.TrimSpace(r.FormValue("email")),
		Password:  password,
		Name:      strings.TrimSpace(r.FormValue("name")),
		BloodType: r.FormValue("blood_type"),
		City:      strings.TrimSpace(r.FormValue("city")),
		Region:    strings.TrimSpace(r.FormValue("region")),
	}
	if err := h.API.Signup(r.Context(), req); err != nil {
		logger.Log.Info("sign-up failed", "email", req.Email, "error", err)
		h.redirectWithFlash(w, r, signUpPath, middleware.FlashError, userMessage(err))
		return
	}

	http.Redirect(w, r, thankYouPath, http.StatusSeeOther)
}

// LogoutHandler forgets the session and clears the cookie.
func (h *Handler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	if token := mw.TokenFromRequest(r); token != "" {
		h.Sessions.SignOut(token)
	}
	mw.ClearAccessCookie(w, h.Public.SecureCookies)
	h.redirectWithFlash(w, r, middleware.SignInPath, middleware.FlashSuccess, "You have been signed out.")
}

// RefreshHandler is the refresh button: it rotates the token when the backend
// allows it and always restarts the profile fetch.
func (h *Handler) RefreshHandler(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)
	token := mw.TokenFromRequest(r)
	target := localPath(r.PostFormValue("next"))
	if target == "" {
		target = refererOr(r, afterSignIn)
	}

	newToken, err := h.API.Refresh(r.Context(), token)
	switch {
	case err == nil:
		h.setAccessCookie(w, newToken)
		h.Sessions.Rotate(token, newToken, user)
	case errors.StatusCode(err) == http.StatusUnauthorized || errors.StatusCode(err) == http.StatusForbidden:
		h.Sessions.SignOut(token)
		mw.ClearAccessCookie(w, h.Public.SecureCookies)
		h.redirectWithFlash(w, r, middleware.SignInPath, middleware.FlashError, userMessage(err))
		return
	default:
		logger.Log.Warn("token refresh failed, refetching profile", "user_id", user.Id, "error", err)
		h.Sessions.Get(token, user).Refresh()
	}

	http.Redirect(w, r, target, http.StatusSeeOther)
}

// userMessage keeps backend messages for client errors and hides the rest.
func userMessage(err error) string {
	code := errors.StatusCode(err)
	if code >= 400 && code < 500 {
		return err.Error()
	}
	return backendDownMsg
}

// localPath accepts only paths on this site.
func localPath(p string) string {
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.HasPrefix(p, "/\\") {
		return ""
	}
	return p
}

// refererOr returns the same-site path the form was posted from.
func refererOr(r *http.Request, fallback string) string {
	ref, err := url.Parse(r.Referer())
	if err != nil || r.Referer() == "" || (ref.Host != "" && ref.Host != r.Host) {
		return fallback
	}
	return ref.RequestURI()
}
