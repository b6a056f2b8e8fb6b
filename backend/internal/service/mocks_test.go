package service

import (
	"context"
	"sync"

	"github.com/bloodlink-dev/bloodlink/shared/domain"
)

// --- Storage mocks ---

type MockStorage struct {
	SaveUserFunc          func(ctx context.Context, user domain.User, profile domain.Profile) error
	UserFunc              func(ctx context.Context, email domain.Email) (domain.User, error)
	UserByIdFunc          func(ctx context.Context, id domain.UserId) (domain.User, error)
	ProfileFunc           func(ctx context.Context, id domain.UserId) (domain.Profile, error)
	UpdateProfileFunc     func(ctx context.Context, id domain.UserId, u domain.ProfileUpdate) (domain.Profile, error)
	AvailableDonorsFunc   func(ctx context.Context) ([]domain.Profile, error)
	ProfilesFunc          func(ctx context.Context, status *domain.Status) ([]domain.Profile, error)
	CountByStatusFunc     func(ctx context.Context, status domain.Status) (int, error)
	CountOpenRequestsFunc func(ctx context.Context) (int, error)
	ModerateFunc          func(ctx context.Context, id domain.UserId, m domain.Moderation) (domain.Profile, error)
	SaveRequestFunc       func(ctx context.Context, req domain.BloodRequest) (domain.BloodRequest, error)
	RequestsFunc          func(ctx context.Context) ([]domain.BloodRequest, error)
	MatchRequestFunc      func(ctx context.Context, id domain.RequestId) (domain.BloodRequest, error)
	CompleteRequestFunc   func(ctx context.Context, id domain.RequestId) (domain.BloodRequest, error)
	DeleteRequestFunc     func(ctx context.Context, id domain.RequestId) error
}

func (m *MockStorage) SaveUser(ctx context.Context, user domain.User, profile domain.Profile) error {
	if m.SaveUserFunc != nil {
		return m.SaveUserFunc(ctx, user, profile)
	}
	return nil
}

func (m *MockStorage) User(ctx context.Context, email domain.Email) (domain.User, error) {
	return m.UserFunc(ctx, email)
}

func (m *MockStorage) UserById(ctx context.Context, id domain.UserId) (domain.User, error) {
	return m.UserByIdFunc(ctx, id)
}

func (m *MockStorage) Profile(ctx context.Context, id domain.UserId) (domain.Profile, error) {
	if m.ProfileFunc != nil {
		return m.ProfileFunc(ctx, id)
	}
	return domain.Profile{Id: id, IsAvailable: true}, nil
}

func (m *MockStorage) UpdateProfile(ctx context.Context, id domain.UserId, u domain.ProfileUpdate) (domain.Profile, error) {
	return m.UpdateProfileFunc(ctx, id, u)
}

func (m *MockStorage) AvailableDonors(ctx context.Context) ([]domain.Profile, error) {
	return m.AvailableDonorsFunc(ctx)
}

func (m *MockStorage) Profiles(ctx context.Context, status *domain.Status) ([]domain.Profile, error) {
	return m.ProfilesFunc(ctx, status)
}

func (m *MockStorage) CountByStatus(ctx context.Context, status domain.Status) (int, error) {
	return m.CountByStatusFunc(ctx, status)
}

func (m *MockStorage) CountOpenRequests(ctx context.Context) (int, error) {
	return m.CountOpenRequestsFunc(ctx)
}

func (m *MockStorage) Moderate(ctx context.Context, id domain.UserId, mod domain.Moderation) (domain.Profile, error) {
	return m.ModerateFunc(ctx, id, mod)
}

func (m *MockStorage) SaveRequest(ctx context.Context, req domain.BloodRequest) (domain.BloodRequest, error) {
	if m.SaveRequestFunc != nil {
		return m.SaveRequestFunc(ctx, req)
	}
	return req, nil
}

func (m *MockStorage) Requests(ctx context.Context) ([]domain.BloodRequest, error) {
	return m.RequestsFunc(ctx)
}

func (m *MockStorage) MatchRequest(ctx context.Context, id domain.RequestId) (domain.BloodRequest, error) {
	return m.MatchRequestFunc(ctx, id)
}

func (m *MockStorage) CompleteRequest(ctx context.Context, id domain.RequestId) (domain.BloodRequest, error) {
	return m.CompleteRequestFunc(ctx, id)
}

func (m *MockStorage) DeleteRequest(ctx context.Context, id domain.RequestId) error {
	return m.DeleteRequestFunc(ctx, id)
}

// --- Email mock ---

type sentEmail struct {
	to, subject, body string
}

type MockEmail struct {
	SendFunc      func(to, subject, body string) error
	IsCorrectFunc func(email domain.Email) error

	mu   sync.Mutex
	sent []sentEmail
}

func (m *MockEmail) Send(to, subject, body string) error {
	m.mu.Lock()
	m.sent = append(m.sent, sentEmail{to, subject, body})
	m.mu.Unlock()
	if m.SendFunc != nil {
		return m.SendFunc(to, subject, body)
	}
	return nil
}

func (m *MockEmail) IsCorrect(email domain.Email) error {
	if m.IsCorrectFunc != nil {
		return m.IsCorrectFunc(email)
	}
	return nil
}

// --- Jwt mock ---

type MockJwt struct {
	NewTokenFunc func(user domain.User) (string, error)
}

func (m *MockJwt) NewToken(user domain.User) (string, error) {
	if m.NewTokenFunc != nil {
		return m.NewTokenFunc(user)
	}
	return "token-" + user.Id.String(), nil
}

// --- Ban cache mock ---

type MockBanCache struct {
	added   []domain.UserId
	removed []domain.UserId
}

func (m *MockBanCache) Add(id domain.UserId)    { m.added = append(m.added, id) }
func (m *MockBanCache) Remove(id domain.UserId) { m.removed = append(m.removed, id) }
