package api

import (
	"time"

	"github.com/bloodlink-dev/bloodlink/shared/domain"
)

type AdminUser struct {
	Profile domain.Profile `json:"profile"`
	Status  domain.Status  `json:"status"`
}

type AdminUsersResponse struct {
	Users []AdminUser `json:"users"`
}

type AdminStatsResponse struct {
	Verified     int `json:"verified"`
	Pending      int `json:"pending"`
	Banned       int `json:"banned"`
	OpenRequests int `json:"open_requests"`
}

type CreateBloodRequestRequest struct {
	Title       string    `json:"title" validate:"required,max=120"`
	BloodType   string    `json:"blood_type" validate:"required,bloodtype"`
	Location    string    `json:"location" validate:"required,max=200"`
	Status      string    `json:"status" validate:"omitempty,oneof=urgent scheduled ongoing completed"`
	Deadline    time.Time `json:"deadline" validate:"required"`
	Description string    `json:"description" validate:"max=5000"`
}

type BloodRequestsResponse struct {
	Requests []domain.BloodRequest `json:"requests"`
}

type BloodRequestResponse struct {
	Request domain.BloodRequest `json:"request"`
}
