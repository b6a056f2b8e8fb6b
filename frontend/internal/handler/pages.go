package handler

import (
	"net/http"

	frontend_domain "github.com/bloodlink-dev/bloodlink/frontend/internal/domain"
	"github.com/bloodlink-dev/bloodlink/frontend/internal/middleware"
	"github.com/bloodlink-dev/bloodlink/shared/session"
)

func (h *Handler) HomeHandler(w http.ResponseWriter, r *http.Request) {
	h.renderTemplate(w, r, "home.html", nil)
}

func (h *Handler) ThankYouHandler(w http.ResponseWriter, r *http.Request) {
	h.renderTemplate(w, r, "thank_you.html", nil)
}

func (h *Handler) PendingApprovalHandler(w http.ResponseWriter, r *http.Request) {
	h.renderTemplate(w, r, "pending_approval.html", nil)
}

func (h *Handler) UnauthorizedHandler(w http.ResponseWriter, r *http.Request) {
	h.renderTemplateWithStatus(w, r, http.StatusForbidden, "unauthorized.html", nil, nil)
}

func (h *Handler) NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	h.renderTemplateWithStatus(w, r, http.StatusNotFound, "not_found.html", nil, nil)
}

// SessionErrorHandler renders the sticky alert with a refresh button when the
// guard could not get a profile. It also covers a fetch still running after
// the guard's timeout.
func (h *Handler) SessionErrorHandler(w http.ResponseWriter, r *http.Request, view session.View) {
	data := frontend_domain.SessionErrorData{
		Message:  session.FetchFailedMessage,
		Attempts: view.Attempts,
		Loading:  view.IsLoading(),
	}
	if data.Loading {
		data.Message = "Your profile is still loading."
	}
	h.renderTemplateWithStatus(w, r, http.StatusOK, "session_error.html", data, nil)
}

var _ middleware.ErrorRenderer = (&Handler{}).SessionErrorHandler
