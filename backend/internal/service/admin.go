package service

import (
	"context"
	"fmt"

	"github.com/bloodlink-dev/bloodlink/shared/domain"
	"github.com/bloodlink-dev/bloodlink/shared/errors"
	"github.com/bloodlink-dev/bloodlink/shared/logger"
	"github.com/bloodlink-dev/bloodlink/shared/middleware/metrics"
	"golang.org/x/sync/errgroup"
)

type Action string

const (
	ActionVerify   Action = "verify"
	ActionReject   Action = "reject"
	ActionBan      Action = "ban"
	ActionActivate Action = "activate"
)

// moderations maps each admin action to the flags it writes.
var moderations = map[Action]domain.Moderation{
	ActionVerify:   {IsVerified: domain.Bool(true)},
	ActionReject:   {IsVerified: domain.Bool(false)},
	ActionBan:      {IsVerified: domain.Bool(false), IsAvailable: domain.Bool(false)},
	ActionActivate: {IsVerified: domain.Bool(true), IsAvailable: domain.Bool(true)},
}

type notice struct {
	subject string
	body    string
}

var notices = map[Action]notice{
	ActionVerify: {
		subject: "Your BloodLink account is verified",
		body:    "Hello %s,\n\nAn administrator verified your profile. You can now search for donors.\n",
	},
	ActionBan: {
		subject: "Your BloodLink account is suspended",
		body:    "Hello %s,\n\nYour account has been suspended by an administrator.\n",
	},
	ActionActivate: {
		subject: "Your BloodLink account is active again",
		body:    "Hello %s,\n\nAn administrator re-activated your profile. You are listed as an available donor again.\n",
	},
}

type Stats struct {
	Verified     int
	Pending      int
	Banned       int
	OpenRequests int
}

type AdminService interface {
	Users(ctx context.Context, status *domain.Status) ([]domain.Profile, error)
	Stats(ctx context.Context) (Stats, error)
	Moderate(ctx context.Context, id domain.UserId, action Action) (domain.Profile, error)
}

type AdminStorage interface {
	Profiles(ctx context.Context, status *domain.Status) ([]domain.Profile, error)
	CountByStatus(ctx context.Context, status domain.Status) (int, error)
	CountOpenRequests(ctx context.Context) (int, error)
	Moderate(ctx context.Context, id domain.UserId, m domain.Moderation) (domain.Profile, error)
}

// BanCache is told about bans right away so the auth middleware does not wait
// for its next refresh.
type BanCache interface {
	Add(id domain.UserId)
	Remove(id domain.UserId)
}

type Admin struct {
	storage AdminStorage
	email   Email
	bans    BanCache
}

func NewAdmin(storage AdminStorage, email Email, bans BanCache) *Admin {
	return &Admin{storage: storage, email: email, bans: bans}
}

func (a *Admin) Users(ctx context.Context, status *domain.Status) ([]domain.Profile, error) {
	if status != nil && !status.Valid() {
		return nil, errors.BadRequest("Unknown status")
	}
	return a.storage.Profiles(ctx, status)
}

// Stats runs the four counts concurrently.
func (a *Admin) Stats(ctx context.Context) (Stats, error) {
	var s Stats
	g, ctx := errgroup.WithContext(ctx)
	count := func(status domain.Status, dst *int) {
		g.Go(func() error {
			n, err := a.storage.CountByStatus(ctx, status)
			*dst = n
			return err
		})
	}
	count(domain.StatusVerified, &s.Verified)
	count(domain.StatusPending, &s.Pending)
	count(domain.StatusBanned, &s.Banned)
	g.Go(func() error {
		n, err := a.storage.CountOpenRequests(ctx)
		s.OpenRequests = n
		return err
	})

	if err := g.Wait(); err != nil {
		return Stats{}, err
	}
	return s, nil
}

// Moderate applies action to the profile. Repeating an action is harmless.
// A failed update changes nothing and sends nothing.
func (a *Admin) Moderate(ctx context.Context, id domain.UserId, action Action) (domain.Profile, error) {
	m, ok := moderations[action]
	if !ok {
		return domain.Profile{}, errors.BadRequest("Unknown action")
	}

	p, err := a.storage.Moderate(ctx, id, m)
	if err != nil {
		return domain.Profile{}, err
	}
	metrics.ModerationActions.WithLabelValues(string(action)).Inc()
	logger.Log.Info("profile moderated", "user_id", id, "action", action, "status", p.Status())

	if a.bans != nil {
		if p.Status() == domain.StatusBanned {
			a.bans.Add(id)
		} else {
			a.bans.Remove(id)
		}
	}

	a.notify(p, action)
	return p, nil
}

// notify is best effort: a mail failure is logged and the moderation stands.
func (a *Admin) notify(p domain.Profile, action Action) {
	n, ok := notices[action]
	if !ok || a.email == nil {
		return
	}
	name := p.Name
	if name == "" {
		name = "donor"
	}
	if err := a.email.Send(p.Email, n.subject, fmt.Sprintf(n.body, name)); err != nil {
		logger.Log.Warn("moderation email not sent", "user_id", p.Id, "action", action, "error", err)
	}
}
