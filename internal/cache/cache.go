package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/dpup/prefab/errors"
	"github.com/dpup/prefab/logging"
	"github.com/facebookgo/clock"

	"github.com/transitmap/mapscreen/internal/lib/itinerary"
)

// Cache provides thread-safe in-memory caching with TTL
type Cache struct {
	entries map[string]*CacheEntry
	mutex   sync.RWMutex
	clock   clock.Clock
}

// CacheEntry represents a cached item with metadata
type CacheEntry struct {
	Key       string        `json:"key"`
	Data      []byte        `json:"data"`
	CreatedAt time.Time     `json:"created_at"`
	ExpiresAt time.Time     `json:"expires_at"`
	TTL       time.Duration `json:"ttl"`
	Source    string        `json:"source"`
}

// NewCache creates a new in-memory cache using the wall clock
func NewCache() *Cache {
	return NewCacheWithClock(clock.New())
}

// NewCacheWithClock creates a cache that reads time from clk
func NewCacheWithClock(clk clock.Clock) *Cache {
	return &Cache{
		entries: make(map[string]*CacheEntry),
		clock:   clk,
	}
}

// Set stores data in cache, expiring after ttl
func (c *Cache) Set(key string, data interface{}, ttl time.Duration, source string) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal data for cache: %w", err)
	}

	now := c.clock.Now()
	entry := &CacheEntry{
		Key:       key,
		Data:      jsonData,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
		TTL:       ttl,
		Source:    source,
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries[key] = entry
	return nil
}

// Get retrieves data from cache if not stale
func (c *Cache) Get(key string, result interface{}) (bool, error) {
	c.mutex.RLock()
	entry, exists := c.entries[key]
	c.mutex.RUnlock()

	if !exists || c.clock.Now().After(entry.ExpiresAt) {
		return false, nil
	}

	if err := json.Unmarshal(entry.Data, result); err != nil {
		return false, fmt.Errorf("failed to unmarshal cached data: %w", err)
	}

	return true, nil
}

// Delete removes an entry from cache
func (c *Cache) Delete(key string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.entries, key)
}

// Stats returns cache statistics
func (c *Cache) Stats() CacheStats {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	now := c.clock.Now()
	stats := CacheStats{
		TotalEntries: len(c.entries),
	}

	for _, entry := range c.entries {
		if now.After(entry.ExpiresAt) {
			stats.StaleEntries++
		} else {
			stats.FreshEntries++
		}

		if stats.OldestEntry.IsZero() || entry.CreatedAt.Before(stats.OldestEntry) {
			stats.OldestEntry = entry.CreatedAt
		}
		if entry.CreatedAt.After(stats.NewestEntry) {
			stats.NewestEntry = entry.CreatedAt
		}
	}

	return stats
}

// CleanupStale removes all stale entries from cache
func (c *Cache) CleanupStale() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := c.clock.Now()
	var removed int

	for key, entry := range c.entries {
		if now.After(entry.ExpiresAt) {
			delete(c.entries, key)
			removed++
		}
	}

	return removed
}

// StartPeriodicCleanup starts a goroutine that removes stale entries every
// interval until ctx is cancelled
func (c *Cache) StartPeriodicCleanup(ctx context.Context, interval time.Duration) {
	ctx = logging.EnsureLogger(ctx)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				err, _ := errors.ParseStack(debug.Stack())
				skipFrames := 3
				numFrames := 5
				logging.Errorw(ctx, "Cache cleanup: recovered from panic",
					"error", r, "error.stack_trace", err.MinimalStack(skipFrames, numFrames))
			}
		}()

		ticker := c.clock.Ticker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if removed := c.CleanupStale(); removed > 0 {
					stats := c.Stats()
					logging.Infow(ctx, "Cache cleanup: removed stale itineraries",
						"removed", removed, "remaining", stats.TotalEntries, "oldest", stats.OldestEntry)
				}
			}
		}
	}()
}

// CacheStats provides cache usage statistics
type CacheStats struct {
	TotalEntries int
	FreshEntries int
	StaleEntries int
	OldestEntry  time.Time
	NewestEntry  time.Time
}

// Built itinerary memoization keyed by payload content hash

// SetItinerary caches a built itinerary under its payload hash
func (c *Cache) SetItinerary(payloadHash string, built *itinerary.Itinerary, ttl time.Duration) error {
	return c.Set(itineraryKey(payloadHash), built, ttl, "itinerary")
}

// DeleteItinerary drops a cached itinerary
func (c *Cache) DeleteItinerary(payloadHash string) {
	c.Delete(itineraryKey(payloadHash))
}

// GetItinerary retrieves a cached itinerary by payload hash
func (c *Cache) GetItinerary(payloadHash string) (*itinerary.Itinerary, bool, error) {
	var built itinerary.Itinerary
	found, err := c.Get(itineraryKey(payloadHash), &built)
	if err != nil || !found {
		return nil, false, err
	}

	return &built, true, nil
}

func itineraryKey(payloadHash string) string {
	return fmt.Sprintf("itinerary:%s", payloadHash)
}
