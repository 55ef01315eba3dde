// Package seriescache is the shared ticker -> PriceSeries cache.
//
// Entries expire after a TTL and can be invalidated explicitly. Concurrent
// misses for the same ticker are collapsed into one upstream fetch.
package seriescache

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/investifai/investif/internal/model"
)

// Fetcher loads the full series of a ticker from upstream.
type Fetcher func(ctx context.Context, ticker string) (model.PriceSeries, error)

type entry struct {
	series    model.PriceSeries
	fetchedAt time.Time
}

// Cache holds fetched series. The zero TTL keeps entries until invalidated.
type Cache struct {
	name   string
	fetch  Fetcher
	ttl    time.Duration
	now    func() time.Time
	logger *slog.Logger

	mu      sync.RWMutex
	entries map[string]entry
	group   singleflight.Group
}

// New creates a cache named name (used in logs) that loads misses with fetch.
func New(name string, fetch Fetcher, ttl time.Duration, logger *slog.Logger) *Cache {
	return &Cache{
		name:    name,
		fetch:   fetch,
		ttl:     ttl,
		now:     time.Now,
		logger:  logger.With("cache", name),
		entries: make(map[string]entry),
	}
}

// Get returns the cached series of ticker, fetching it on a miss.
// Failed fetches are not cached.
func (c *Cache) Get(ctx context.Context, ticker string) (model.PriceSeries, error) {
	if s, ok := c.Peek(ticker); ok {
		return s, nil
	}

	ch := c.group.DoChan(ticker, func() (any, error) {
		// The shared fetch outlives any single waiter.
		s, err := c.fetch(context.WithoutCancel(ctx), ticker)
		if err != nil {
			return model.PriceSeries{}, err
		}
		c.mu.Lock()
		c.entries[ticker] = entry{series: s, fetchedAt: c.now()}
		c.mu.Unlock()
		c.logger.Debug("series cached", "ticker", ticker, "points", s.Len())
		return s, nil
	})

	select {
	case <-ctx.Done():
		return model.PriceSeries{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return model.PriceSeries{}, res.Err
		}
		return res.Val.(model.PriceSeries), nil
	}
}

// Peek returns the cached series of ticker without fetching.
func (c *Cache) Peek(ticker string) (model.PriceSeries, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[ticker]
	if !ok || c.expired(e) {
		return model.PriceSeries{}, false
	}
	return e.series, true
}

// Snapshot returns the cached series of the given tickers. Missing and
// expired tickers are absent from the result.
func (c *Cache) Snapshot(tickers []string) map[string]model.PriceSeries {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]model.PriceSeries, len(tickers))
	for _, t := range tickers {
		if e, ok := c.entries[t]; ok && !c.expired(e) {
			out[t] = e.series
		}
	}
	return out
}

// Invalidate drops ticker so the next Get refetches it.
func (c *Cache) Invalidate(ticker string) {
	c.mu.Lock()
	delete(c.entries, ticker)
	c.mu.Unlock()
}

// Sweep removes expired entries and returns how many were dropped.
func (c *Cache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for t, e := range c.entries {
		if c.expired(e) {
			delete(c.entries, t)
			n++
		}
	}
	if n > 0 {
		c.logger.Info("swept expired series", "count", n, "remaining", len(c.entries))
	}
	return n
}

// Len returns the number of entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache) expired(e entry) bool {
	return c.ttl > 0 && c.now().Sub(e.fetchedAt) >= c.ttl
}
