package service

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/bloodlink-dev/bloodlink/shared/domain"
	internal_errors "github.com/bloodlink-dev/bloodlink/shared/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// moderatingStorage applies moderations to an in-memory profile the way the
// SQL update does.
func moderatingStorage(p *domain.Profile) *MockStorage {
	var mu sync.Mutex
	return &MockStorage{ModerateFunc: func(ctx context.Context, id domain.UserId, m domain.Moderation) (domain.Profile, error) {
		mu.Lock()
		defer mu.Unlock()
		if id != p.Id {
			return domain.Profile{}, internal_errors.NotFound("Profile not found")
		}
		if m.IsVerified != nil {
			p.IsVerified = domain.Bool(*m.IsVerified)
		}
		if m.IsAvailable != nil {
			p.IsAvailable = *m.IsAvailable
		}
		return *p, nil
	}}
}

func TestModerate(t *testing.T) {
	ctx := context.Background()

	t.Run("each action yields its status", func(t *testing.T) {
		tests := []struct {
			action Action
			want   domain.Status
		}{
			{ActionVerify, domain.StatusVerified},
			{ActionReject, domain.StatusPending},
			{ActionBan, domain.StatusBanned},
			{ActionActivate, domain.StatusVerified},
		}
		for _, tt := range tests {
			t.Run(string(tt.action), func(t *testing.T) {
				p := &domain.Profile{Id: uuid.New(), Email: "d@example.com", IsAvailable: true}
				admin := NewAdmin(moderatingStorage(p), &MockEmail{}, &MockBanCache{})

				got, err := admin.Moderate(ctx, p.Id, tt.action)
				require.NoError(t, err)
				assert.Equal(t, tt.want, got.Status())
			})
		}
	})

	t.Run("ban twice equals ban once", func(t *testing.T) {
		p := &domain.Profile{Id: uuid.New(), Email: "d@example.com", IsAvailable: true, IsVerified: domain.Bool(true)}
		bans := &MockBanCache{}
		admin := NewAdmin(moderatingStorage(p), &MockEmail{}, bans)

		once, err := admin.Moderate(ctx, p.Id, ActionBan)
		require.NoError(t, err)
		twice, err := admin.Moderate(ctx, p.Id, ActionBan)
		require.NoError(t, err)

		assert.Equal(t, once, twice)
		assert.Equal(t, domain.StatusBanned, twice.Status())
		assert.False(t, twice.IsAvailable)
		assert.False(t, *twice.IsVerified)
		assert.Equal(t, []domain.UserId{p.Id, p.Id}, bans.added)
	})

	t.Run("activate lifts the ban", func(t *testing.T) {
		p := &domain.Profile{Id: uuid.New(), IsVerified: domain.Bool(false)}
		bans := &MockBanCache{}
		admin := NewAdmin(moderatingStorage(p), &MockEmail{}, bans)

		_, err := admin.Moderate(ctx, p.Id, ActionActivate)
		require.NoError(t, err)
		assert.Equal(t, []domain.UserId{p.Id}, bans.removed)
		assert.Empty(t, bans.added)
	})

	t.Run("sends notice on verify", func(t *testing.T) {
		p := &domain.Profile{Id: uuid.New(), Name: "Amir", Email: "amir@example.com"}
		email := &MockEmail{}
		admin := NewAdmin(moderatingStorage(p), email, nil)

		_, err := admin.Moderate(ctx, p.Id, ActionVerify)
		require.NoError(t, err)
		require.Len(t, email.sent, 1)
		assert.Equal(t, "amir@example.com", email.sent[0].to)
		assert.Contains(t, email.sent[0].body, "Hello Amir")
	})

	t.Run("reject sends nothing", func(t *testing.T) {
		p := &domain.Profile{Id: uuid.New(), Email: "x@example.com"}
		email := &MockEmail{}
		_, err := NewAdmin(moderatingStorage(p), email, nil).Moderate(ctx, p.Id, ActionReject)
		require.NoError(t, err)
		assert.Empty(t, email.sent)
	})

	t.Run("email failure does not fail the action", func(t *testing.T) {
		p := &domain.Profile{Id: uuid.New(), Email: "x@example.com"}
		email := &MockEmail{SendFunc: func(to, subject, body string) error { return assert.AnError }}

		got, err := NewAdmin(moderatingStorage(p), email, nil).Moderate(ctx, p.Id, ActionBan)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusBanned, got.Status())
	})

	t.Run("storage failure changes nothing", func(t *testing.T) {
		storage := &MockStorage{ModerateFunc: func(ctx context.Context, id domain.UserId, m domain.Moderation) (domain.Profile, error) {
			return domain.Profile{}, assert.AnError
		}}
		email := &MockEmail{}
		bans := &MockBanCache{}

		_, err := NewAdmin(storage, email, bans).Moderate(ctx, uuid.New(), ActionBan)
		assert.ErrorIs(t, err, assert.AnError)
		assert.Empty(t, email.sent)
		assert.Empty(t, bans.added)
	})

	t.Run("unknown action", func(t *testing.T) {
		_, err := NewAdmin(&MockStorage{}, nil, nil).Moderate(ctx, uuid.New(), Action("delete"))
		assert.Equal(t, http.StatusBadRequest, internal_errors.StatusCode(err))
	})
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	counts := map[domain.Status]int{domain.StatusVerified: 4, domain.StatusPending: 2, domain.StatusBanned: 1}

	t.Run("success", func(t *testing.T) {
		storage := &MockStorage{
			CountByStatusFunc:     func(ctx context.Context, s domain.Status) (int, error) { return counts[s], nil },
			CountOpenRequestsFunc: func(ctx context.Context) (int, error) { return 3, nil },
		}
		stats, err := NewAdmin(storage, nil, nil).Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, Stats{Verified: 4, Pending: 2, Banned: 1, OpenRequests: 3}, stats)
	})

	t.Run("one failing count fails the whole", func(t *testing.T) {
		storage := &MockStorage{
			CountByStatusFunc: func(ctx context.Context, s domain.Status) (int, error) {
				if s == domain.StatusBanned {
					return 0, assert.AnError
				}
				return counts[s], nil
			},
			CountOpenRequestsFunc: func(ctx context.Context) (int, error) { return 3, nil },
		}
		stats, err := NewAdmin(storage, nil, nil).Stats(ctx)
		assert.ErrorIs(t, err, assert.AnError)
		assert.Equal(t, Stats{}, stats)
	})
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	var gotStatus *domain.Status
	storage := &MockStorage{ProfilesFunc: func(ctx context.Context, s *domain.Status) ([]domain.Profile, error) {
		gotStatus = s
		return []domain.Profile{{Name: "a"}}, nil
	}}
	admin := NewAdmin(storage, nil, nil)

	pending := domain.StatusPending
	list, err := admin.Users(ctx, &pending)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, domain.StatusPending, *gotStatus)

	bogus := domain.Status("x")
	_, err = admin.Users(ctx, &bogus)
	assert.Equal(t, http.StatusBadRequest, internal_errors.StatusCode(err))
}
