package handler

import (
	"bytes"
	"fmt"
	"net/http"

	frontend_domain "github.com/bloodlink-dev/bloodlink/frontend/internal/domain"
	"github.com/bloodlink-dev/bloodlink/frontend/internal/middleware"
	"github.com/bloodlink-dev/bloodlink/shared/domain"
	"github.com/bloodlink-dev/bloodlink/shared/donor"
	"github.com/bloodlink-dev/bloodlink/shared/logger"
	mw "github.com/bloodlink-dev/bloodlink/shared/middleware"
)

// TemplateData wraps page-specific data with common template data.
// Templates access page data via .Data and common data via .Common.
type TemplateData struct {
	Data   any
	Common frontend_domain.CommonTemplateData
}

func (h *Handler) renderTemplate(w http.ResponseWriter, r *http.Request, name string, data any) {
	h.renderTemplateWithStatus(w, r, http.StatusOK, name, data, nil)
}

// renderTemplateWithStatus renders name inside the base layout. notes are
// extra transient notifications collected while building the page.
func (h *Handler) renderTemplateWithStatus(w http.ResponseWriter, r *http.Request, status int, name string, data any, notes []string) {
	tmpl, ok := h.getTemplate(name)
	if !ok {
		http.Error(w, fmt.Sprintf("Template %s not found", name), http.StatusInternalServerError)
		return
	}

	common := h.initCommonTemplateData(w, r)
	common.Notifications = append(common.Notifications, notes...)

	wrapped := TemplateData{
		Data:   data,
		Common: common,
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, wrapped); err != nil {
		logger.Log.Error("error executing template", "template", name, "error", err)
		http.Error(w, "Internal Server Error rendering template", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (h *Handler) initCommonTemplateData(w http.ResponseWriter, r *http.Request) frontend_domain.CommonTemplateData {
	common := frontend_domain.CommonTemplateData{
		Error:       middleware.PopFlash(w, r, middleware.FlashError, h.Public.SecureCookies),
		Success:     middleware.PopFlash(w, r, middleware.FlashSuccess, h.Public.SecureCookies),
		User:        mw.GetUserFromContext(r),
		CSRFToken:   middleware.GetCSRFTokenFromContext(r),
		CurrentPath: r.URL.Path,
		Validation: frontend_domain.ValidationData{
			PasswordMinLen: h.Public.PasswordMinLen,
			MinDistance:    donor.MinDistance,
			MaxDistance:    donor.MaxDistance,
			BloodTypes:     domain.BloodTypes,
			RequestStatus: []domain.RequestStatus{
				domain.RequestUrgent, domain.RequestScheduled, domain.RequestOngoing, domain.RequestCompleted,
			},
		},
	}

	if b, view, ok := middleware.SessionFromContext(r); ok {
		common.Profile = view.Profile
		common.IsAdmin = view.IsAdmin
		common.Notifications = b.DrainNotifications()
	}
	return common
}

func (h *Handler) redirectWithFlash(w http.ResponseWriter, r *http.Request, url, name, message string) {
	middleware.RedirectWithFlash(w, r, url, name, message, h.Public.SecureCookies)
}

func (h *Handler) renderRequests(requests []domain.BloodRequest, openOnly bool) []*frontend_domain.BloodRequest {
	out := make([]*frontend_domain.BloodRequest, 0, len(requests))
	for i := range requests {
		if openOnly && !requests[i].Open() {
			continue
		}
		out = append(out, &frontend_domain.BloodRequest{
			BloodRequest:    requests[i],
			DescriptionHTML: h.TextProcessor.Render(requests[i].Description),
		})
	}
	return out
}
