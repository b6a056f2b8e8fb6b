package frontend_domain

import (
	"html/template"

	"github.com/bloodlink-dev/bloodlink/shared/api"
	"github.com/bloodlink-dev/bloodlink/shared/domain"
	"github.com/bloodlink-dev/bloodlink/shared/donor"
)

type HomePageData struct {
	Status domain.Status
}

type ProfilePageData struct {
	Profile *domain.Profile
	Status  domain.Status
}

type SearchPageData struct {
	Filter     donor.Filter
	Donors     []domain.Donor
	Total      int
	LoadFailed bool
	Requests   []*BloodRequest
}

// SelectedBloodType is the value the blood type select should keep.
func (d SearchPageData) SelectedBloodType() string {
	if d.Filter.BloodType == nil {
		return ""
	}
	return string(*d.Filter.BloodType)
}

func (d SearchPageData) DateValue() string {
	if d.Filter.Date == nil {
		return ""
	}
	return d.Filter.Date.Format("2006-01-02")
}

type AdminPageData struct {
	Stats        api.AdminStatsResponse
	Users        []api.AdminUser
	StatusFilter string
	Requests     []*BloodRequest
}

// BloodRequest is a request with its description rendered to safe HTML.
type BloodRequest struct {
	domain.BloodRequest
	DescriptionHTML template.HTML
}

// SessionErrorData backs the inline alert shown when the profile could not
// be loaded.
type SessionErrorData struct {
	Message  string
	Attempts int
	Loading  bool
}
