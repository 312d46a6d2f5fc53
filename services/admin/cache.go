package admin

import (
	"context"
	"sync"
	"time"

	"salonbook/models"
)

type settingsGetter interface {
	Get(ctx context.Context) (*models.PlatformSettings, error)
}

// SettingsCache serves the platform settings document from memory for TTL.
type SettingsCache struct {
	Source settingsGetter
	TTL    time.Duration

	mu       sync.RWMutex
	cached   *models.PlatformSettings
	loadedAt time.Time
	now      func() time.Time
}

func NewSettingsCache(source settingsGetter, ttl time.Duration) *SettingsCache {
	return &SettingsCache{Source: source, TTL: ttl, now: time.Now}
}

// Get returns a copy, reloading when the cached document is stale.
func (c *SettingsCache) Get(ctx context.Context) (*models.PlatformSettings, error) {
	c.mu.RLock()
	if c.cached != nil && c.now().Sub(c.loadedAt) < c.TTL {
		s := *c.cached
		c.mu.RUnlock()
		return &s, nil
	}
	c.mu.RUnlock()

	fresh, err := c.Source.Get(ctx)
	if err != nil {
		return nil, err
	}
	c.Set(fresh)
	s := *fresh
	return &s, nil
}

// Set replaces the cached document after a save.
func (c *SettingsCache) Set(s *models.PlatformSettings) {
	cp := *s
	c.mu.Lock()
	c.cached = &cp
	c.loadedAt = c.now()
	c.mu.Unlock()
}
