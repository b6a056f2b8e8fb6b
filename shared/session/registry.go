package session

import (
	"sync"
	"time"

	"github.com/bloodlink-dev/bloodlink/shared/domain"
	"github.com/bloodlink-dev/bloodlink/shared/logger"
)

type entry struct {
	b        *Bootstrapper
	lastSeen time.Time
}

// Registry keeps one bootstrapper per access token. Entries not touched for
// idleTimeout are signed out by a janitor goroutine.
type Registry struct {
	fetcher     ProfileFetcher
	opts        Options
	idleTimeout time.Duration

	mu      sync.Mutex
	entries map[string]*entry

	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewRegistry(fetcher ProfileFetcher, opts Options, idleTimeout time.Duration) *Registry {
	r := &Registry{
		fetcher:     fetcher,
		opts:        opts,
		idleTimeout: idleTimeout,
		entries:     make(map[string]*entry),
		stop:        make(chan struct{}),
	}
	r.wg.Add(1)
	go r.janitor()
	return r
}

func (r *Registry) janitor() {
	defer r.wg.Done()
	interval := r.idleTimeout / 2
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case now := <-ticker.C:
			r.evictIdle(now)
		case <-r.stop:
			return
		}
	}
}

func (r *Registry) evictIdle(now time.Time) {
	var expired []*Bootstrapper
	r.mu.Lock()
	for token, e := range r.entries {
		if now.Sub(e.lastSeen) > r.idleTimeout {
			expired = append(expired, e.b)
			delete(r.entries, token)
		}
	}
	r.mu.Unlock()

	for _, b := range expired {
		b.Close()
	}
	if len(expired) > 0 {
		logger.Log.Debug("evicted idle sessions", "component", "session_registry", "count", len(expired))
	}
}

// Get returns the bootstrapper for token, creating it and firing SignedIn on
// first sight. A known session whose profile is older than Options.MaxAge is
// refetched, so moderation changes show up on the next page view.
func (r *Registry) Get(token string, user *domain.User) *Bootstrapper {
	r.mu.Lock()
	if e, ok := r.entries[token]; ok {
		e.lastSeen = time.Now()
		r.mu.Unlock()
		if r.opts.MaxAge > 0 {
			e.b.RefreshIfStale(r.opts.MaxAge)
		}
		return e.b
	}

	b := New(r.fetcher, r.opts)
	b.Handle(SignedIn, user, token)
	r.entries[token] = &entry{b: b, lastSeen: time.Now()}
	r.mu.Unlock()
	return b
}

// Rotate moves the session from oldToken to newToken and fires TokenRefreshed.
func (r *Registry) Rotate(oldToken, newToken string, user *domain.User) *Bootstrapper {
	r.mu.Lock()
	e, ok := r.entries[oldToken]
	if ok {
		delete(r.entries, oldToken)
		e.lastSeen = time.Now()
		r.entries[newToken] = e
	}
	r.mu.Unlock()

	if !ok {
		return r.Get(newToken, user)
	}
	e.b.Handle(TokenRefreshed, user, newToken)
	return e.b
}

// SignOut fires SignedOut and forgets the token.
func (r *Registry) SignOut(token string) {
	r.mu.Lock()
	e, ok := r.entries[token]
	delete(r.entries, token)
	r.mu.Unlock()

	if ok {
		e.b.Close()
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Stop ends the janitor and signs out every session.
func (r *Registry) Stop() {
	r.stopOnce.Do(func() {
		close(r.stop)
		r.wg.Wait()

		r.mu.Lock()
		entries := r.entries
		r.entries = make(map[string]*entry)
		r.mu.Unlock()

		for _, e := range entries {
			e.b.Close()
		}
	})
}
