package handler

import (
	"context"

	"github.com/bloodlink-dev/bloodlink/shared/api"
	"github.com/bloodlink-dev/bloodlink/shared/domain"
	"github.com/bloodlink-dev/bloodlink/shared/donor"
)

type MockBackend struct {
	MockSignup          func(ctx context.Context, req api.SignupRequest) error
	MockLogin           func(ctx context.Context, email, password string) (string, error)
	MockRefresh         func(ctx context.Context, token string) (string, error)
	MockUpdateProfile   func(ctx context.Context, token string, req api.UpdateProfileRequest) (domain.Profile, error)
	MockDonors          func(ctx context.Context, token string) ([]domain.Donor, error)
	MockUsers           func(ctx context.Context, token string, status *domain.Status) ([]api.AdminUser, error)
	MockStats           func(ctx context.Context, token string) (api.AdminStatsResponse, error)
	MockModerate        func(ctx context.Context, token string, id domain.UserId, action string) (api.AdminUser, error)
	MockRequests        func(ctx context.Context, token string) ([]domain.BloodRequest, error)
	MockCreateRequest   func(ctx context.Context, token string, req api.CreateBloodRequestRequest) (domain.BloodRequest, error)
	MockMatchRequest    func(ctx context.Context, token string, id domain.RequestId) error
	MockCompleteRequest func(ctx context.Context, token string, id domain.RequestId) error
	MockDeleteRequest   func(ctx context.Context, token string, id domain.RequestId) error
}

func (m *MockBackend) Signup(ctx context.Context, req api.SignupRequest) error {
	if m.MockSignup != nil {
		return m.MockSignup(ctx, req)
	}
	return nil
}

func (m *MockBackend) Login(ctx context.Context, email, password string) (string, error) {
	if m.MockLogin != nil {
		return m.MockLogin(ctx, email, password)
	}
	return "token", nil
}

func (m *MockBackend) Refresh(ctx context.Context, token string) (string, error) {
	if m.MockRefresh != nil {
		return m.MockRefresh(ctx, token)
	}
	return token, nil
}

func (m *MockBackend) UpdateProfile(ctx context.Context, token string, req api.UpdateProfileRequest) (domain.Profile, error) {
	if m.MockUpdateProfile != nil {
		return m.MockUpdateProfile(ctx, token, req)
	}
	return domain.Profile{}, nil
}

type loaderFunc func(ctx context.Context) ([]domain.Donor, error)

func (f loaderFunc) Donors(ctx context.Context) ([]domain.Donor, error) { return f(ctx) }

func (m *MockBackend) DonorLoader(token string) donor.Loader {
	return loaderFunc(func(ctx context.Context) ([]domain.Donor, error) {
		if m.MockDonors != nil {
			return m.MockDonors(ctx, token)
		}
		return nil, nil
	})
}

func (m *MockBackend) Users(ctx context.Context, token string, status *domain.Status) ([]api.AdminUser, error) {
	if m.MockUsers != nil {
		return m.MockUsers(ctx, token, status)
	}
	return nil, nil
}

func (m *MockBackend) Stats(ctx context.Context, token string) (api.AdminStatsResponse, error) {
	if m.MockStats != nil {
		return m.MockStats(ctx, token)
	}
	return api.AdminStatsResponse{}, nil
}

func (m *MockBackend) Moderate(ctx context.Context, token string, id domain.UserId, action string) (api.AdminUser, error) {
	if m.MockModerate != nil {
		return m.MockModerate(ctx, token, id, action)
	}
	return api.AdminUser{}, nil
}

func (m *MockBackend) Requests(ctx context.Context, token string) ([]domain.BloodRequest, error) {
	if m.MockRequests != nil {
		return m.MockRequests(ctx, token)
	}
	return nil, nil
}

func (m *MockBackend) CreateRequest(ctx context.Context, token string, req api.CreateBloodRequestRequest) (domain.BloodRequest, error) {
	if m.MockCreateRequest != nil {
		return m.MockCreateRequest(ctx, token, req)
	}
	return domain.BloodRequest{}, nil
}

func (m *MockBackend) MatchRequest(ctx context.Context, token string, id domain.RequestId) error {
	if m.MockMatchRequest != nil {
		return m.MockMatchRequest(ctx, token, id)
	}
	return nil
}

func (m *MockBackend) CompleteRequest(ctx context.Context, token string, id domain.RequestId) error {
	if m.MockCompleteRequest != nil {
		return m.MockCompleteRequest(ctx, token, id)
	}
	return nil
}

func (m *MockBackend) DeleteRequest(ctx context.Context, token string, id domain.RequestId) error {
	if m.MockDeleteRequest != nil {
		return m.MockDeleteRequest(ctx, token, id)
	}
	return nil
}

type MockDonorCache struct {
	wraps         int
	invalidations int
}

func (m *MockDonorCache) Wrap(next donor.Loader) donor.Loader {
	m.wraps++
	return next
}

func (m *MockDonorCache) Invalidate(ctx context.Context) error {
	m.invalidations++
	return nil
}
