package handler

import (
	"net/http"

	"github.com/bloodlink-dev/bloodlink/backend/internal/service"
	"github.com/bloodlink-dev/bloodlink/shared/api"
	"github.com/bloodlink-dev/bloodlink/shared/domain"
	"github.com/bloodlink-dev/bloodlink/shared/utils"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// GetUsers handles GET /v1/admin/users?status=pending
func (h *Handler) GetUsers(w http.ResponseWriter, r *http.Request) {
	var status *domain.Status
	if s := r.URL.Query().Get("status"); s != "" {
		st := domain.Status(s)
		status = &st
	}

	profiles, err := h.admin.Users(r.Context(), status)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	users := make([]api.AdminUser, len(profiles))
	for i, p := range profiles {
		users[i] = api.AdminUser{Profile: p, Status: p.Status()}
	}
	utils.WriteJSON(w, api.AdminUsersResponse{Users: users})
}

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	s, err := h.admin.Stats(r.Context())
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, api.AdminStatsResponse{
		Verified:     s.Verified,
		Pending:      s.Pending,
		Banned:       s.Banned,
		OpenRequests: s.OpenRequests,
	})
}

// Moderate returns the handler for POST /v1/admin/users/{userId}/<action>.
func (h *Handler) Moderate(action service.Action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "userId"))
		if err != nil {
			http.Error(w, "Invalid user ID", http.StatusBadRequest)
			return
		}

		p, err := h.admin.Moderate(r.Context(), id, action)
		if err != nil {
			utils.WriteErrorAndStatusCode(w, err)
			return
		}
		utils.WriteJSON(w, api.AdminUser{Profile: p, Status: p.Status()})
	}
}
