package handler

import (
	"net/http"

	"github.com/bloodlink-dev/bloodlink/shared/api"
	"github.com/bloodlink-dev/bloodlink/shared/domain"
	mw "github.com/bloodlink-dev/bloodlink/shared/middleware"
	"github.com/bloodlink-dev/bloodlink/shared/utils"
)

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var body api.SignupRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	profile := domain.Profile{Name: body.Name, City: body.City, Region: body.Region}
	if body.BloodType != "" {
		profile.BloodType, _ = domain.ParseBloodType(body.BloodType)
	}

	creds := domain.Credentials{Email: body.Email, Password: body.Password}
	if _, err := h.auth.Signup(r.Context(), creds, profile); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	utils.WriteJSONWithStatus(w, http.StatusCreated, api.SignupResponse{Message: "Account created. You can sign in now"})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var body api.LoginRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	token, err := h.auth.Login(r.Context(), domain.Credentials{Email: body.Email, Password: body.Password})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	h.setAccessCookie(w, token)

	utils.WriteJSON(w, api.LoginResponse{Message: "You are signed in", AccessToken: token})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	mw.ClearAccessCookie(w, h.cfg.Public.SecureCookies)
	utils.WriteJSON(w, api.LogoutResponse{Message: "You are signed out"})
}

// Refresh reissues the token so a changed admin flag takes effect.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUserFromContext(r)
	if user == nil {
		http.Error(w, "Please sign-in", http.StatusUnauthorized)
		return
	}

	token, err := h.auth.Refresh(r.Context(), user.Id)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	h.setAccessCookie(w, token)

	utils.WriteJSON(w, api.LoginResponse{Message: "Token refreshed", AccessToken: token})
}
