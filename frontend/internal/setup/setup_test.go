package setup

import (
	"bytes"
	"html/template"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	frontend_domain "github.com/bloodlink-dev/bloodlink/frontend/internal/domain"
	"github.com/bloodlink-dev/bloodlink/frontend/internal/handler"
	"github.com/bloodlink-dev/bloodlink/shared/api"
	"github.com/bloodlink-dev/bloodlink/shared/domain"
	"github.com/bloodlink-dev/bloodlink/shared/donor"
)

const repoTemplates = "../../templates"

func common(signedIn bool) frontend_domain.CommonTemplateData {
	c := frontend_domain.CommonTemplateData{
		CSRFToken:     "csrf-value",
		Notifications: []string{"Could not load your profile."},
		Validation: frontend_domain.ValidationData{
			PasswordMinLen: 8,
			MinDistance:    1,
			MaxDistance:    20,
			BloodTypes:     domain.BloodTypes,
			RequestStatus:  []domain.RequestStatus{domain.RequestUrgent, domain.RequestCompleted},
		},
	}
	if signedIn {
		c.User = &domain.User{Id: uuid.New(), Email: "amir@example.com"}
		c.IsAdmin = true
	}
	return c
}

func TestLoadTemplatesRendersEveryPage(t *testing.T) {
	templates, err := loadTemplates(repoTemplates)
	require.NoError(t, err)

	phone := "+963 11 000"
	age := 34
	bt := domain.ONeg
	profile := &domain.Profile{
		Id: uuid.New(), Name: "Amir", Email: "amir@example.com", BloodType: domain.APos,
		City: "Damascus", IsAvailable: true, IsVerified: domain.Bool(true), Phone: &phone, Age: &age,
	}
	request := &frontend_domain.BloodRequest{
		BloodRequest: domain.BloodRequest{
			Id: "01HZX3Q1J6Y7K9T2M4N8P0R5SA", Title: "Surgery", BloodType: domain.ONeg,
			Status: domain.RequestUrgent, Deadline: time.Date(2026, 11, 2, 9, 30, 0, 0, time.UTC),
		},
		DescriptionHTML: template.HTML("<p><strong>two units</strong></p>"),
	}
	filter := donor.DefaultFilter()
	filter.BloodType = &bt

	pages := map[string]any{
		"home.html":             nil,
		"signin.html":           nil,
		"signup.html":           nil,
		"thank_you.html":        nil,
		"pending_approval.html": nil,
		"unauthorized.html":     nil,
		"not_found.html":        nil,
		"session_error.html":    frontend_domain.SessionErrorData{Message: "Could not load your profile.", Attempts: 3},
		"profile.html":          frontend_domain.ProfilePageData{Profile: profile, Status: domain.StatusVerified},
		"search.html": frontend_domain.SearchPageData{
			Filter:   filter,
			Donors:   []domain.Donor{{Name: "Sara", BloodType: domain.ONeg, City: "Homs", Distance: 4}},
			Total:    3,
			Requests: []*frontend_domain.BloodRequest{request},
		},
		"admin.html": frontend_domain.AdminPageData{
			Stats:        api.AdminStatsResponse{Verified: 1},
			Users:        []api.AdminUser{{Profile: *profile, Status: domain.StatusVerified}},
			StatusFilter: "verified",
			Requests:     []*frontend_domain.BloodRequest{request},
		},
	}
	assert.Len(t, templates, len(pages))

	for name, data := range pages {
		t.Run(name, func(t *testing.T) {
			tmpl, ok := templates[name]
			require.True(t, ok)

			var buf bytes.Buffer
			require.NoError(t, tmpl.Execute(&buf, handler.TemplateData{Data: data, Common: common(name != "signin.html")}))
			out := buf.String()
			assert.Contains(t, out, "<!DOCTYPE html>")
			assert.Contains(t, out, "Could not load your profile.")
		})
	}

	t.Run("search keeps the filter", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, templates["search.html"].Execute(&buf, handler.TemplateData{Data: pages["search.html"], Common: common(true)}))
		out := buf.String()
		assert.Contains(t, out, `<option value="O-" selected>`)
		assert.Contains(t, out, "1 of 3 donors")
		assert.Contains(t, out, `type="range" name="distance" min="1" max="20" value="20"`)
		assert.Contains(t, out, "<strong>two units</strong>")
		assert.Contains(t, out, "2 Nov 2026 09:30")
	})

	t.Run("pending page can recheck approval", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, templates["pending_approval.html"].Execute(&buf, handler.TemplateData{Common: common(true)}))
		out := buf.String()
		assert.Contains(t, out, `action="/refresh"`)
		assert.Contains(t, out, `name="next" value="/search"`)
	})

	t.Run("admin forms carry the csrf token", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, templates["admin.html"].Execute(&buf, handler.TemplateData{Data: pages["admin.html"], Common: common(true)}))
		out := buf.String()
		assert.Contains(t, out, `/admin/users/`+profile.Id.String()+`/ban`)
		assert.Contains(t, out, `value="csrf-value"`)
	})
}

func TestDeref(t *testing.T) {
	s := "x"
	n := 7
	var nilString *string
	assert.Equal(t, "x", deref(&s))
	assert.Equal(t, 7, deref(&n))
	assert.Equal(t, "", deref(nilString))
	assert.Equal(t, "", deref(nil))
}

func TestDict(t *testing.T) {
	m, err := dict("a", 1, "b", "two")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": 1, "b": "two"}, m)

	_, err = dict("odd")
	assert.Error(t, err)
	_, err = dict(1, 2)
	assert.Error(t, err)
}
