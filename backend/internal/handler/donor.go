package handler

import (
	"net/http"

	"github.com/bloodlink-dev/bloodlink/shared/api"
	"github.com/bloodlink-dev/bloodlink/shared/donor"
	"github.com/bloodlink-dev/bloodlink/shared/middleware/metrics"
	"github.com/bloodlink-dev/bloodlink/shared/utils"
)

// GetDonors returns the donor projection. Filter query parameters are
// optional; without them the whole list comes back sorted by distance.
func (h *Handler) GetDonors(w http.ResponseWriter, r *http.Request) {
	donors, err := h.donor.Donors(r.Context())
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	metrics.DonorSearches.Inc()

	f := donor.ParseFilter(r.URL.Query())
	utils.WriteJSON(w, api.DonorsResponse{Donors: donor.Apply(donors, f)})
}
