package handler

import (
	"net/http"
	"strconv"
	"strings"

	frontend_domain "github.com/bloodlink-dev/bloodlink/frontend/internal/domain"
	"github.com/bloodlink-dev/bloodlink/frontend/internal/middleware"
	"github.com/bloodlink-dev/bloodlink/shared/api"
	"github.com/bloodlink-dev/bloodlink/shared/logger"
	"github.com/bloodlink-dev/bloodlink/shared/session"
)

const profilePath = "/profile"

func (h *Handler) ProfileGetHandler(w http.ResponseWriter, r *http.Request) {
	_, view, _ := middleware.SessionFromContext(r)
	h.renderTemplate(w, r, "profile.html", frontend_domain.ProfilePageData{
		Profile: view.Profile,
		Status:  view.Status(),
	})
}

func (h *Handler) ProfilePostHandler(w http.ResponseWriter, r *http.Request) {
	b, view, _ := middleware.SessionFromContext(r)

	req, err := parseProfileForm(r)
	if err != nil {
		h.redirectWithFlash(w, r, profilePath, middleware.FlashError, err.Error())
		return
	}

	if _, err := h.API.UpdateProfile(r.Context(), view.Token, req); err != nil {
		logger.Log.Info("profile update failed", "user_id", view.User.Id, "error", err)
		h.redirectWithFlash(w, r, profilePath, middleware.FlashError, userMessage(err))
		return
	}

	// the cached profile is stale now
	h.invalidateDonors(r.Context())
	b.Handle(session.UserUpdated, view.User, view.Token)
	h.redirectWithFlash(w, r, profilePath, middleware.FlashSuccess, "Profile saved.")
}

type formError string

func (e formError) Error() string { return string(e) }

func parseProfileForm(r *http.Request) (api.UpdateProfileRequest, error) {
	req := api.UpdateProfileRequest{
		Name:        strings.TrimSpace(r.FormValue("name")),
		BloodType:   r.FormValue("blood_type"),
		City:        strings.TrimSpace(r.FormValue("city")),
		Region:      strings.TrimSpace(r.FormValue("region")),
		IsAvailable: r.FormValue("is_available") != "",
	}
	if v := strings.TrimSpace(r.FormValue("phone")); v != "" {
		req.Phone = &v
	}
	if v := strings.TrimSpace(r.FormValue("family_card_number")); v != "" {
		req.FamilyCardNumber = &v
	}
	if v := strings.TrimSpace(r.FormValue("age")); v != "" {
		age, err := strconv.Atoi(v)
		if err != nil {
			return req, formError("Age must be a number.")
		}
		req.Age = &age
	}
	return req, nil
}
