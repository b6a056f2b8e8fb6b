package handler

import (
	"net/http"

	frontend_domain "github.com/bloodlink-dev/bloodlink/frontend/internal/domain"
	"github.com/bloodlink-dev/bloodlink/frontend/internal/middleware"
	"github.com/bloodlink-dev/bloodlink/shared/donor"
	"github.com/bloodlink-dev/bloodlink/shared/logger"
)

const requestsLoadFailedMessage = "Could not load blood requests."

// SearchHandler shows the donor directory. The list is fetched once per page
// view and filtered from the query string.
func (h *Handler) SearchHandler(w http.ResponseWriter, r *http.Request) {
	_, view, _ := middleware.SessionFromContext(r)

	var notes []string
	notify := donor.NotifierFunc(func(message string) { notes = append(notes, message) })

	dir := donor.NewDirectory(h.donorLoader(view.Token), notify)
	loadErr := dir.Load(r.Context())

	filter := donor.ParseFilter(r.URL.Query())
	data := frontend_domain.SearchPageData{
		Filter:     filter,
		Donors:     dir.Results(filter),
		Total:      dir.Total(),
		LoadFailed: loadErr != nil,
	}

	requests, err := h.API.Requests(r.Context(), view.Token)
	if err != nil {
		logger.Log.Error("failed to load blood requests", "error", err)
		notes = append(notes, requestsLoadFailedMessage)
	} else {
		data.Requests = h.renderRequests(requests, true)
	}

	h.renderTemplateWithStatus(w, r, http.StatusOK, "search.html", data, notes)
}
