package api

// Request DTOs

type SignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name" validate:"required,max=100"`
	// BloodType is optional at sign-up; the profile can be completed later.
	BloodType string `json:"blood_type,omitempty" validate:"omitempty,bloodtype"`
	City      string `json:"city,omitempty" validate:"max=100"`
	Region    string `json:"region,omitempty" validate:"max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Response DTOs

type SignupResponse struct {
	Message string `json:"message"`
}

type LoginResponse struct {
	Message     string `json:"message"`
	AccessToken string `json:"access_token,omitempty"` // Token for non-cookie clients
}

type LogoutResponse struct {
	Message string `json:"message"`
}
