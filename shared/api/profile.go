package api

import "github.com/bloodlink-dev/bloodlink/shared/domain"

type UpdateProfileRequest struct {
	Name             string  `json:"name" validate:"required,max=100"`
	BloodType        string  `json:"blood_type" validate:"required,bloodtype"`
	City             string  `json:"city" validate:"max=100"`
	Region           string  `json:"region" validate:"max=100"`
	IsAvailable      bool    `json:"is_available"`
	Phone            *string `json:"phone,omitempty" validate:"omitempty,max=32"`
	Age              *int    `json:"age,omitempty" validate:"omitempty,min=16,max=100"`
	FamilyCardNumber *string `json:"family_card_number,omitempty" validate:"omitempty,max=64"`
}

type ProfileResponse struct {
	Profile domain.Profile `json:"profile"`
	Status  domain.Status  `json:"status"`
}

type DonorsResponse struct {
	Donors []domain.Donor `json:"donors"`
}
