package handler

import (
	"net/http"

	"github.com/bloodlink-dev/bloodlink/shared/api"
	"github.com/bloodlink-dev/bloodlink/shared/domain"
	mw "github.com/bloodlink-dev/bloodlink/shared/middleware"
	"github.com/bloodlink-dev/bloodlink/shared/utils"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) GetRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := h.request.List(r.Context())
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	if requests == nil {
		requests = []domain.BloodRequest{}
	}
	utils.WriteJSON(w, api.BloodRequestsResponse{Requests: requests})
}

func (h *Handler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	admin := mw.GetUserFromContext(r)
	if admin == nil {
		http.Error(w, "Please sign-in", http.StatusUnauthorized)
		return
	}

	var body api.CreateBloodRequestRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	bt, _ := domain.ParseBloodType(body.BloodType)
	st, _ := domain.ParseRequestStatus(body.Status)

	req, err := h.request.Create(r.Context(), admin.Id, domain.BloodRequest{
		Title:       body.Title,
		BloodType:   bt,
		Location:    body.Location,
		Status:      st,
		Deadline:    body.Deadline,
		Description: body.Description,
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSONWithStatus(w, http.StatusCreated, api.BloodRequestResponse{Request: req})
}

func (h *Handler) MatchRequest(w http.ResponseWriter, r *http.Request) {
	req, err := h.request.Match(r.Context(), chi.URLParam(r, "requestId"))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, api.BloodRequestResponse{Request: req})
}

func (h *Handler) CompleteRequest(w http.ResponseWriter, r *http.Request) {
	req, err := h.request.Complete(r.Context(), chi.URLParam(r, "requestId"))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, api.BloodRequestResponse{Request: req})
}

func (h *Handler) DeleteRequest(w http.ResponseWriter, r *http.Request) {
	if err := h.request.Delete(r.Context(), chi.URLParam(r, "requestId")); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
