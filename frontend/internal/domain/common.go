package frontend_domain

import "github.com/bloodlink-dev/bloodlink/shared/domain"

// CommonTemplateData holds fields that are common to all page templates.
// Available in templates as .Common via the TemplateData wrapper.
type CommonTemplateData struct {
	Error   string
	Success string
	// Notifications are transient messages queued by background work, such as
	// a failed profile fetch.
	Notifications []string
	User          *domain.User
	Profile       *domain.Profile
	IsAdmin       bool
	Validation    ValidationData
	CSRFToken     string
	CurrentPath   string
}

func (c CommonTemplateData) SignedIn() bool {
	return c.User != nil
}

// ValidationData holds the form constraints shared by the templates.
type ValidationData struct {
	PasswordMinLen int
	MinDistance    int
	MaxDistance    int
	BloodTypes     []domain.BloodType
	RequestStatus  []domain.RequestStatus
}
