package bancache

import (
	"context"
	"sync"
	"time"

	"github.com/bloodlink-dev/bloodlink/shared/domain"
	"github.com/bloodlink-dev/bloodlink/shared/logger"
)

// Storage is the single read the cache needs. Banning and activating users
// belong to the backend's own storage.
type Storage interface {
	BannedUserIds(ctx context.Context) ([]domain.UserId, error)
}

// Cache is a periodically refreshed snapshot of banned users. The auth
// middleware consults it so a ban takes effect before the user's token expires.
type Cache struct {
	storage    Storage
	mu         sync.RWMutex
	banned     map[domain.UserId]struct{}
	lastUpdate time.Time
}

func New(storage Storage) *Cache {
	return &Cache{
		storage: storage,
		banned:  make(map[domain.UserId]struct{}),
	}
}

// Update replaces the snapshot. Activated users drop out on the next refresh.
func (c *Cache) Update(ctx context.Context) error {
	ids, err := c.storage.BannedUserIds(ctx)
	if err != nil {
		return err
	}

	next := make(map[domain.UserId]struct{}, len(ids))
	for _, id := range ids {
		next[id] = struct{}{}
	}

	c.mu.Lock()
	c.banned = next
	c.lastUpdate = time.Now()
	c.mu.Unlock()

	logger.Log.Debug("ban cache updated", "component", "ban_cache", "entries", len(next))
	return nil
}

// Add marks a user banned right away, without waiting for the next refresh.
func (c *Cache) Add(id domain.UserId) {
	c.mu.Lock()
	c.banned[id] = struct{}{}
	c.mu.Unlock()
}

// Remove lifts a ban locally after an activate.
func (c *Cache) Remove(id domain.UserId) {
	c.mu.Lock()
	delete(c.banned, id)
	c.mu.Unlock()
}

func (c *Cache) IsBanned(id domain.UserId) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.banned[id]
	return ok
}

func (c *Cache) LastUpdate() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastUpdate
}

// StartBackgroundUpdate refreshes the snapshot every interval until ctx is done.
func (c *Cache) StartBackgroundUpdate(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	logger.Log.Info("started ban cache background updates", "component", "ban_cache", "interval", interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				updateCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
				if err := c.Update(updateCtx); err != nil {
					logger.Log.Error("ban cache update failed", "component", "ban_cache", "error", err)
				}
				cancel()
			case <-ctx.Done():
				logger.Log.Info("ban cache shutting down", "component", "ban_cache")
				return
			}
		}
	}()
}
