package handler

import (
	"context"

	"github.com/bloodlink-dev/bloodlink/backend/internal/service"
	"github.com/bloodlink-dev/bloodlink/shared/domain"
)

type MockAuthService struct {
	MockSignup  func(ctx context.Context, creds domain.Credentials, profile domain.Profile) (domain.UserId, error)
	MockLogin   func(ctx context.Context, creds domain.Credentials) (string, error)
	MockRefresh func(ctx context.Context, userId domain.UserId) (string, error)
}

func (m *MockAuthService) Signup(ctx context.Context, creds domain.Credentials, profile domain.Profile) (domain.UserId, error) {
	if m.MockSignup != nil {
		return m.MockSignup(ctx, creds, profile)
	}
	return domain.UserId{}, nil
}

func (m *MockAuthService) Login(ctx context.Context, creds domain.Credentials) (string, error) {
	if m.MockLogin != nil {
		return m.MockLogin(ctx, creds)
	}
	return "", nil
}

func (m *MockAuthService) Refresh(ctx context.Context, userId domain.UserId) (string, error) {
	if m.MockRefresh != nil {
		return m.MockRefresh(ctx, userId)
	}
	return "", nil
}

type MockProfileService struct {
	MockProfile func(ctx context.Context, id domain.UserId) (domain.Profile, error)
	MockUpdate  func(ctx context.Context, id domain.UserId, u domain.ProfileUpdate) (domain.Profile, error)
}

func (m *MockProfileService) Profile(ctx context.Context, id domain.UserId) (domain.Profile, error) {
	return m.MockProfile(ctx, id)
}

func (m *MockProfileService) Update(ctx context.Context, id domain.UserId, u domain.ProfileUpdate) (domain.Profile, error) {
	return m.MockUpdate(ctx, id, u)
}

type MockDonorService struct {
	MockDonors func(ctx context.Context) ([]domain.Donor, error)
}

func (m *MockDonorService) Donors(ctx context.Context) ([]domain.Donor, error) {
	return m.MockDonors(ctx)
}

type MockAdminService struct {
	MockUsers    func(ctx context.Context, status *domain.Status) ([]domain.Profile, error)
	MockStats    func(ctx context.Context) (service.Stats, error)
	MockModerate func(ctx context.Context, id domain.UserId, action service.Action) (domain.Profile, error)
}

func (m *MockAdminService) Users(ctx context.Context, status *domain.Status) ([]domain.Profile, error) {
	return m.MockUsers(ctx, status)
}

func (m *MockAdminService) Stats(ctx context.Context) (service.Stats, error) {
	return m.MockStats(ctx)
}

func (m *MockAdminService) Moderate(ctx context.Context, id domain.UserId, action service.Action) (domain.Profile, error) {
	return m.MockModerate(ctx, id, action)
}

type MockRequestService struct {
	MockList     func(ctx context.Context) ([]domain.BloodRequest, error)
	MockCreate   func(ctx context.Context, author domain.UserId, req domain.BloodRequest) (domain.BloodRequest, error)
	MockMatch    func(ctx context.Context, id domain.RequestId) (domain.BloodRequest, error)
	MockComplete func(ctx context.Context, id domain.RequestId) (domain.BloodRequest, error)
	MockDelete   func(ctx context.Context, id domain.RequestId) error
}

func (m *MockRequestService) List(ctx context.Context) ([]domain.BloodRequest, error) {
	return m.MockList(ctx)
}

func (m *MockRequestService) Create(ctx context.Context, author domain.UserId, req domain.BloodRequest) (domain.BloodRequest, error) {
	return m.MockCreate(ctx, author, req)
}

func (m *MockRequestService) Match(ctx context.Context, id domain.RequestId) (domain.BloodRequest, error) {
	return m.MockMatch(ctx, id)
}

func (m *MockRequestService) Complete(ctx context.Context, id domain.RequestId) (domain.BloodRequest, error) {
	return m.MockComplete(ctx, id)
}

func (m *MockRequestService) Delete(ctx context.Context, id domain.RequestId) error {
	return m.MockDelete(ctx, id)
}
