package handler

import (
	"net/http"

	"github.com/bloodlink-dev/bloodlink/shared/api"
	"github.com/bloodlink-dev/bloodlink/shared/domain"
	mw "github.com/bloodlink-dev/bloodlink/shared/middleware"
	"github.com/bloodlink-dev/bloodlink/shared/utils"
)

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)
	if user == nil {
		http.Error(w, "Please sign-in", http.StatusUnauthorized)
		return
	}

	p, err := h.profile.Profile(r.Context(), user.Id)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, api.ProfileResponse{Profile: p, Status: p.Status()})
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)
	if user == nil {
		http.Error(w, "Please sign-in", http.StatusUnauthorized)
		return
	}

	var body api.UpdateProfileRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	bt, _ := domain.ParseBloodType(body.BloodType)

	p, err := h.profile.Update(r.Context(), user.Id, domain.ProfileUpdate{
		Name:             body.Name,
		BloodType:        bt,
		City:             body.City,
		Region:           body.Region,
		IsAvailable:      body.IsAvailable,
		Phone:            body.Phone,
		Age:              body.Age,
		FamilyCardNumber: body.FamilyCardNumber,
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, api.ProfileResponse{Profile: p, Status: p.Status()})
}
