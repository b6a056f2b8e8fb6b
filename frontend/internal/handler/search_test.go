package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bloodlink-dev/bloodlink/frontend/internal/middleware"
	"github.com/bloodlink-dev/bloodlink/shared/domain"
	"github.com/bloodlink-dev/bloodlink/shared/donor"
)

func testDonors() []domain.Donor {
	return []domain.Donor{
		{Name: "Sara", BloodType: domain.OPos, City: "Homs", Region: "Homs", Distance: 12},
		{Name: "Amir", BloodType: domain.APos, City: "Damascus", Region: "Rif Dimashq", Distance: 3},
		{Name: "Omar", BloodType: domain.OPos, City: "Aleppo", Region: "Aleppo", Distance: 8},
	}
}

func TestSearchHandler(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		donors string
	}{
		{"no filter sorts by distance", "", "donors:Amir,Omar,Sara,"},
		{"text search", "?q=HOMS", "donors:Sara,"},
		{"blood type", "?blood_type=O%2B", "donors:Omar,Sara,"},
		{"distance", "?distance=10", "donors:Amir,Omar,"},
		{"invalid values fall back", "?distance=99&blood_type=Z", "donors:Amir,Omar,Sara,"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, verifiedProfile())
			env.api.MockDonors = func(ctx context.Context, token string) ([]domain.Donor, error) {
				return testDonors(), nil
			}
			h := env.guarded(http.MethodGet, "/search", middleware.RouteSearch, env.h.SearchHandler)

			rr := serve(h, newRequest(http.MethodGet, "/search"+tt.query, nil))

			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.donors+" total:3 failed:false")
		})
	}
}

func TestSearchHandlerRequests(t *testing.T) {
	env := newTestEnv(t, verifiedProfile())
	env.api.MockRequests = func(ctx context.Context, token string) ([]domain.BloodRequest, error) {
		return []domain.BloodRequest{
			{Title: "Need O-", Status: domain.RequestUrgent, Description: "**today**<script>alert(1)</script>"},
			{Title: "Done", Status: domain.RequestCompleted},
		}, nil
	}
	h := env.guarded(http.MethodGet, "/search", middleware.RouteSearch, env.h.SearchHandler)

	body := serve(h, newRequest(http.MethodGet, "/search", nil)).Body.String()

	assert.Contains(t, body, "Need O-=")
	assert.Contains(t, body, "<strong>today</strong>")
	assert.NotContains(t, body, "<script>")
	assert.NotContains(t, body, "Done=")
}

func TestSearchHandlerFailures(t *testing.T) {
	env := newTestEnv(t, verifiedProfile())
	env.api.MockDonors = func(ctx context.Context, token string) ([]domain.Donor, error) {
		return nil, errors.New("api down")
	}
	env.api.MockRequests = func(ctx context.Context, token string) ([]domain.BloodRequest, error) {
		return nil, errors.New("api down")
	}
	h := env.guarded(http.MethodGet, "/search", middleware.RouteSearch, env.h.SearchHandler)

	rr := serve(h, newRequest(http.MethodGet, "/search", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "donors: total:0 failed:true")
	assert.Contains(t, body, donor.LoadFailedMessage+";")
	assert.Contains(t, body, requestsLoadFailedMessage+";")
}

func TestSearchHandlerRedirectsPending(t *testing.T) {
	env := newTestEnv(t, &domain.Profile{Name: "Sara", IsAvailable: true})
	env.api.MockDonors = func(ctx context.Context, token string) ([]domain.Donor, error) {
		t.Fatal("pending users must not load donors")
		return nil, nil
	}
	h := env.guarded(http.MethodGet, "/search", middleware.RouteSearch, env.h.SearchHandler)

	rr := serve(h, newRequest(http.MethodGet, "/search", nil))

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, middleware.PendingApprovalPath, rr.Header().Get("Location"))
}

func TestSearchHandlerUsesDonorCache(t *testing.T) {
	env := newTestEnv(t, verifiedProfile())
	wrapper := &MockDonorCache{}
	env.h.DonorCache = wrapper
	env.api.MockDonors = func(ctx context.Context, token string) ([]domain.Donor, error) {
		return testDonors(), nil
	}
	h := env.guarded(http.MethodGet, "/search", middleware.RouteSearch, env.h.SearchHandler)

	rr := serve(h, newRequest(http.MethodGet, "/search", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1, wrapper.wraps)
	assert.Zero(t, wrapper.invalidations)
}
