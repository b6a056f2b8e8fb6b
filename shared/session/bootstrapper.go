// Package session turns auth events for one signed-in token into a stable
// view of the user's profile, refetching it with a bounded retry.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/bloodlink-dev/bloodlink/shared/domain"
	"github.com/bloodlink-dev/bloodlink/shared/logger"
	"github.com/bloodlink-dev/bloodlink/shared/middleware/metrics"
)

type State int

const (
	Unauthenticated State = iota
	Loading
	Ready
	Error
)

func (s State) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Error:
		return "error"
	}
	return "unknown"
}

type Event int

const (
	SignedIn Event = iota
	TokenRefreshed
	UserUpdated
	SignedOut
)

func (e Event) String() string {
	switch e {
	case SignedIn:
		return "signed_in"
	case TokenRefreshed:
		return "token_refreshed"
	case UserUpdated:
		return "user_updated"
	case SignedOut:
		return "signed_out"
	}
	return "unknown"
}

// ProfileFetcher loads the profile of the signed-in user.
type ProfileFetcher interface {
	Profile(ctx context.Context, token string, id domain.UserId) (*domain.Profile, error)
}

type Notifier interface {
	Notify(message string)
}

const FetchFailedMessage = "Could not load your profile."

var ErrProfileUnavailable = errors.New("profile unavailable")

type Options struct {
	MaxAttempts int
	RetryDelay  time.Duration
	// MaxAge is how long a loaded profile is trusted before the registry
	// refetches it on the next Get. Zero keeps it until the next auth event.
	MaxAge time.Duration
	// Notifier, if set, also receives every failure notification.
	Notifier Notifier
}

// View is a point-in-time copy of the bootstrapper's state.
type View struct {
	User     *domain.User
	Token    string
	Profile  *domain.Profile
	IsAdmin  bool
	State    State
	Err      error
	Attempts int
}

func (v View) IsLoading() bool { return v.State == Loading }

func (v View) Status() domain.Status {
	if v.Profile == nil {
		return domain.StatusPending
	}
	return v.Profile.Status()
}

type Bootstrapper struct {
	fetcher ProfileFetcher
	opts    Options
	log     *slog.Logger

	mu       sync.Mutex
	user     *domain.User
	token    string
	profile  *domain.Profile
	isAdmin  bool
	state    State
	err      error
	attempts int
	inbox    []string
	loadedAt time.Time

	// gen tags the current fetch chain. Results from older chains are dropped.
	gen     uint64
	cancel  context.CancelFunc
	changed chan struct{}
	wg      sync.WaitGroup
}

func New(fetcher ProfileFetcher, opts Options) *Bootstrapper {
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	return &Bootstrapper{
		fetcher: fetcher,
		opts:    opts,
		log:     logger.Component("session"),
		changed: make(chan struct{}),
	}
}

// Handle applies an auth event. user and token are ignored for SignedOut.
func (b *Bootstrapper) Handle(ev Event, user *domain.User, token string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ev == SignedOut {
		b.resetLocked()
		return
	}

	if user == nil {
		return
	}
	if b.user == nil || b.user.Id != user.Id {
		// never show one user's profile to another
		b.profile = nil
		b.isAdmin = false
	}
	u := *user
	b.user = &u
	b.token = token
	b.startLocked(ev)
}

// Refresh restarts the fetch with a fresh attempt counter. It clears a sticky
// error and does nothing when signed out.
func (b *Bootstrapper) Refresh() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.user == nil {
		return
	}
	b.startLocked(UserUpdated)
}

// RefreshIfStale refetches a Ready profile loaded more than maxAge ago and
// reports whether it did. Loading and Error are left alone, so a sticky error
// still needs an explicit Refresh.
func (b *Bootstrapper) RefreshIfStale(maxAge time.Duration) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.user == nil || b.state != Ready || time.Since(b.loadedAt) < maxAge {
		return false
	}
	b.startLocked(UserUpdated)
	return true
}

func (b *Bootstrapper) resetLocked() {
	b.gen++
	if b.cancel != nil {
		b.cancel()
		b.cancel = nil
	}
	b.user = nil
	b.token = ""
	b.profile = nil
	b.isAdmin = false
	b.err = nil
	b.attempts = 0
	b.inbox = nil
	b.setStateLocked(Unauthenticated)
}

func (b *Bootstrapper) startLocked(ev Event) {
	b.gen++
	if b.cancel != nil {
		b.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	b.cancel = cancel
	b.attempts = 0
	b.err = nil
	b.setStateLocked(Loading)

	gen, user, token := b.gen, *b.user, b.token
	b.log.Debug("profile fetch started", "event", ev.String(), "user_id", user.Id, "gen", gen)

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.run(ctx, gen, user, token)
	}()
}

func (b *Bootstrapper) run(ctx context.Context, gen uint64, user domain.User, token string) {
	for {
		profile, err := b.fetcher.Profile(ctx, token, user.Id)
		if err == nil && profile == nil {
			err = ErrProfileUnavailable
		}

		b.mu.Lock()
		if gen != b.gen {
			b.mu.Unlock()
			return
		}
		attempts, decision := NextAttempt(err, b.attempts, b.opts.MaxAttempts)
		b.attempts = attempts

		switch decision {
		case Done:
			p := *profile
			b.profile = &p
			b.isAdmin = DeriveAdmin(&p)
			b.loadedAt = time.Now()
			b.setStateLocked(Ready)
			b.mu.Unlock()
			return
		case GiveUp:
			b.err = err
			b.setStateLocked(Error)
		}
		b.mu.Unlock()

		b.log.Warn("profile fetch failed", "user_id", user.Id, "attempt", attempts, "decision", decision.String(), "error", err)
		metrics.ProfileFetchFailures.WithLabelValues(decision.String()).Inc()
		b.notify(gen, FetchFailedMessage)

		if decision == GiveUp {
			return
		}
		timer := time.NewTimer(b.opts.RetryDelay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return
		}
	}
}

func (b *Bootstrapper) notify(gen uint64, message string) {
	b.mu.Lock()
	if gen != b.gen {
		b.mu.Unlock()
		return
	}
	b.inbox = append(b.inbox, message)
	b.mu.Unlock()

	if b.opts.Notifier != nil {
		b.opts.Notifier.Notify(message)
	}
}

// setStateLocked wakes every Await caller.
func (b *Bootstrapper) setStateLocked(s State) {
	b.state = s
	close(b.changed)
	b.changed = make(chan struct{})
}

// View returns a snapshot of the current state.
func (b *Bootstrapper) View() View {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.viewLocked()
}

func (b *Bootstrapper) viewLocked() View {
	v := View{
		Token:    b.token,
		IsAdmin:  b.isAdmin,
		State:    b.state,
		Err:      b.err,
		Attempts: b.attempts,
	}
	if b.user != nil {
		u := *b.user
		v.User = &u
	}
	if b.profile != nil {
		p := *b.profile
		v.Profile = &p
	}
	return v
}

// Await blocks until the state is no longer Loading or ctx is done. It
// returns the latest view either way.
func (b *Bootstrapper) Await(ctx context.Context) (View, error) {
	for {
		b.mu.Lock()
		if b.state != Loading {
			v := b.viewLocked()
			b.mu.Unlock()
			return v, nil
		}
		ch := b.changed
		b.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return b.View(), ctx.Err()
		}
	}
}

// DrainNotifications returns and clears the pending failure messages.
func (b *Bootstrapper) DrainNotifications() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.inbox
	b.inbox = nil
	return out
}

// Close signs out and waits for the fetch goroutine to exit.
func (b *Bootstrapper) Close() {
	b.Handle(SignedOut, nil, "")
	b.wg.Wait()
}
