package ratelimiter

import (
	"sync"
	"time"
)

// bucket implements a token bucket for one identity.
type bucket struct {
	mu         sync.Mutex
	tokens     float64
	capacity   float64
	rate       float64
	lastRefill time.Time
	lastSeen   time.Time
}

func (b *bucket) allow(now time.Time) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	elapsed := now.Sub(b.lastRefill).Seconds()
	b.tokens += elapsed * b.rate
	if b.tokens > b.capacity {
		b.tokens = b.capacity
	}
	b.lastRefill = now
	b.lastSeen = now

	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

func (b *bucket) idleSince(now time.Time) time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	return now.Sub(b.lastSeen)
}

// UserRateLimiter keeps one bucket per identity (IP, user id, "global") and
// forgets identities that stayed idle for longer than expiration.
type UserRateLimiter struct {
	mu         sync.RWMutex
	buckets    map[string]*bucket
	rate       float64
	capacity   float64
	expiration time.Duration
	stop       chan struct{}
	stopOnce   sync.Once
}

// New creates a limiter allowing rate requests per second with the given burst capacity.
func New(rate float64, capacity float64, expiration time.Duration) *UserRateLimiter {
	rl := &UserRateLimiter{
		buckets:    make(map[string]*bucket),
		rate:       rate,
		capacity:   capacity,
		expiration: expiration,
		stop:       make(chan struct{}),
	}
	go rl.janitor()
	return rl
}

func (rl *UserRateLimiter) janitor() {
	interval := rl.expiration / 2
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.evictIdle(time.Now())
		case <-rl.stop:
			return
		}
	}
}

func (rl *UserRateLimiter) evictIdle(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for id, b := range rl.buckets {
		if b.idleSince(now) > rl.expiration {
			delete(rl.buckets, id)
		}
	}
}

func (rl *UserRateLimiter) get(identity string, now time.Time) *bucket {
	rl.mu.RLock()
	b, ok := rl.buckets[identity]
	rl.mu.RUnlock()
	if ok {
		return b
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()
	// Double-check after acquiring write lock
	if b, ok = rl.buckets[identity]; ok {
		return b
	}
	b = &bucket{
		tokens:     rl.capacity,
		capacity:   rl.capacity,
		rate:       rl.rate,
		lastRefill: now,
		lastSeen:   now,
	}
	rl.buckets[identity] = b
	return b
}

// Allow checks if a request should be allowed for a given identity
func (rl *UserRateLimiter) Allow(identity string) bool {
	now := time.Now()
	return rl.get(identity, now).allow(now)
}

func (rl *UserRateLimiter) size() int {
	rl.mu.RLock()
	defer rl.mu.RUnlock()
	return len(rl.buckets)
}

// Stop terminates the eviction goroutine.
func (rl *UserRateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

func OnceInSecond() *UserRateLimiter { return New(1, 1, time.Hour) }
func Rps10() *UserRateLimiter        { return New(10, 10, time.Hour) }
func Rps100() *UserRateLimiter       { return New(100, 100, time.Hour) }
