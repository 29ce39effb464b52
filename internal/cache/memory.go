package cache

import (
	"context"
	"sync"
	"time"

	"tavolo-order-service/internal/analytics"
)

const memoryCacheMaxEntries = 100

type memoryEntry struct {
	report    analytics.Report
	expiresAt time.Time
}

// MemoryReportCache is the default single-process cache: a mutex-guarded map
// with TTL expiry and a hard size cap that resets the whole map rather than
// tracking an eviction order.
type MemoryReportCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

func NewMemoryReportCache() *MemoryReportCache {
	return &MemoryReportCache{entries: make(map[string]memoryEntry)}
}

func (c *MemoryReportCache) Get(_ context.Context, key string) (*analytics.Report, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	if time.Now().After(entry.expiresAt) {
		delete(c.entries, key)
		return nil, false, nil
	}
	report := entry.report
	return &report, true, nil
}

func (c *MemoryReportCache) Set(_ context.Context, key string, report *analytics.Report, ttl time.Duration) error {
	if report == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = memoryEntry{report: *report, expiresAt: time.Now().Add(ttl)}
	if len(c.entries) > memoryCacheMaxEntries {
		c.entries = make(map[string]memoryEntry)
	}
	return nil
}

func (c *MemoryReportCache) Invalidate(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}
