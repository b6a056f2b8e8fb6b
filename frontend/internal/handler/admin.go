package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	frontend_domain "github.com/bloodlink-dev/bloodlink/frontend/internal/domain"
	"github.com/bloodlink-dev/bloodlink/frontend/internal/middleware"
	"github.com/bloodlink-dev/bloodlink/shared/api"
	"github.com/bloodlink-dev/bloodlink/shared/domain"
	"github.com/bloodlink-dev/bloodlink/shared/logger"
)

const (
	adminPath        = "/admin"
	adminLoadFailed  = "Could not load the admin console."
	mutationFailed   = "Nothing was changed: "
	deadlineLayout   = "2006-01-02T15:04"
	deadlineDateOnly = "2006-01-02"
)

var moderationActions = map[string]string{
	"verify":   "User verified.",
	"reject":   "User rejected.",
	"ban":      "User banned.",
	"activate": "User activated.",
}

// AdminHandler loads stats, users and requests in parallel.
func (h *Handler) AdminHandler(w http.ResponseWriter, r *http.Request) {
	_, view, _ := middleware.SessionFromContext(r)

	data := frontend_domain.AdminPageData{}
	var statusFilter *domain.Status
	if s := domain.Status(r.URL.Query().Get("status")); s.Valid() {
		statusFilter = &s
		data.StatusFilter = string(s)
	}

	var requests []domain.BloodRequest
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		data.Stats, err = h.API.Stats(ctx, view.Token)
		return err
	})
	g.Go(func() (err error) {
		data.Users, err = h.API.Users(ctx, view.Token, statusFilter)
		return err
	})
	g.Go(func() (err error) {
		requests, err = h.API.Requests(ctx, view.Token)
		return err
	})

	var notes []string
	if err := g.Wait(); err != nil {
		logger.Log.Error("failed to load admin console", "error", err)
		notes = append(notes, adminLoadFailed)
	}
	data.Requests = h.renderRequests(requests, false)

	h.renderTemplateWithStatus(w, r, http.StatusOK, "admin.html", data, notes)
}

// ModerateHandler applies verify/reject/ban/activate. A failure leaves the
// user as it was and says so.
func (h *Handler) ModerateHandler(w http.ResponseWriter, r *http.Request) {
	_, view, _ := middleware.SessionFromContext(r)
	back := adminBack(r)

	action := chi.URLParam(r, "action")
	success, ok := moderationActions[action]
	if !ok {
		h.redirectWithFlash(w, r, back, middleware.FlashError, "Unknown action.")
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		h.redirectWithFlash(w, r, back, middleware.FlashError, "Invalid user id.")
		return
	}

	if _, err := h.API.Moderate(r.Context(), view.Token, id, action); err != nil {
		logger.Log.Warn("moderation failed", "action", action, "user_id", id, "error", err)
		h.redirectWithFlash(w, r, back, middleware.FlashError, mutationFailed+userMessage(err))
		return
	}
	h.invalidateDonors(r.Context())
	h.redirectWithFlash(w, r, back, middleware.FlashSuccess, success)
}

func (h *Handler) CreateRequestHandler(w http.ResponseWriter, r *http.Request) {
	_, view, _ := middleware.SessionFromContext(r)

	req, err := parseRequestForm(r)
	if err != nil {
		h.redirectWithFlash(w, r, adminPath, middleware.FlashError, err.Error())
		return
	}
	if _, err := h.API.CreateRequest(r.Context(), view.Token, req); err != nil {
		logger.Log.Warn("create blood request failed", "error", err)
		h.redirectWithFlash(w, r, adminPath, middleware.FlashError, mutationFailed+userMessage(err))
		return
	}
	h.redirectWithFlash(w, r, adminPath, middleware.FlashSuccess, "Blood request created.")
}

// RequestActionHandler serves match, complete and delete.
func (h *Handler) RequestActionHandler(w http.ResponseWriter, r *http.Request) {
	_, view, _ := middleware.SessionFromContext(r)
	id := domain.RequestId(chi.URLParam(r, "requestId"))

	var (
		call    func(ctx context.Context, token string, id domain.RequestId) error
		success string
	)
	switch chi.URLParam(r, "action") {
	case "match":
		call, success = h.API.MatchRequest, "Request marked as matched."
	case "complete":
		call, success = h.API.CompleteRequest, "Request completed."
	case "delete":
		call, success = h.API.DeleteRequest, "Request deleted."
	default:
		h.redirectWithFlash(w, r, adminPath, middleware.FlashError, "Unknown action.")
		return
	}

	if err := call(r.Context(), view.Token, id); err != nil {
		logger.Log.Warn("blood request action failed", "request_id", id, "error", err)
		h.redirectWithFlash(w, r, adminPath, middleware.FlashError, mutationFailed+userMessage(err))
		return
	}
	h.redirectWithFlash(w, r, adminPath, middleware.FlashSuccess, success)
}

func parseRequestForm(r *http.Request) (api.CreateBloodRequestRequest, error) {
	req := api.CreateBloodRequestRequest{
		Title:       strings.TrimSpace(r.FormValue("title")),
		BloodType:   r.FormValue("blood_type"),
		Location:    strings.TrimSpace(r.FormValue("location")),
		Status:      r.FormValue("status"),
		Description: r.FormValue("description"),
	}

	raw := strings.TrimSpace(r.FormValue("deadline"))
	deadline, err := time.Parse(deadlineLayout, raw)
	if err != nil {
		deadline, err = time.Parse(deadlineDateOnly, raw)
	}
	if err != nil {
		return req, formError("Deadline must be a date.")
	}
	req.Deadline = deadline
	return req, nil
}

// adminBack keeps the status filter the admin was looking at.
func adminBack(r *http.Request) string {
	if s := domain.Status(r.FormValue("status_filter")); s.Valid() {
		return adminPath + "?status=" + string(s)
	}
	return adminPath
}
