package apiclient

import (
	"strings"
	"sync"
	"time"
)

// memEntry is a cached response body with its write time.
type memEntry struct {
	data     []byte
	storedAt time.Time
}

// memoryCache is the in-process response cache. Entries expire by TTL on
// read; there is no background sweeper since the process is short-lived.
type memoryCache struct {
	mu      sync.RWMutex
	entries map[string]memEntry
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string]memEntry)}
}

// get returns the cached body for key if it is younger than ttl.
func (mc *memoryCache) get(key string, ttl time.Duration, now time.Time) ([]byte, bool) {
	mc.mu.RLock()
	entry, ok := mc.entries[key]
	mc.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if now.Sub(entry.storedAt) >= ttl {
		return nil, false
	}
	return entry.data, true
}

func (mc *memoryCache) set(key string, data []byte, now time.Time) {
	mc.mu.Lock()
	mc.entries[key] = memEntry{data: data, storedAt: now}
	mc.mu.Unlock()
}

// deleteContains removes every entry whose key contains the substring.
// An empty substring matches everything.
func (mc *memoryCache) deleteContains(substring string) {
	mc.mu.Lock()
	for key := range mc.entries {
		if strings.Contains(key, substring) {
			delete(mc.entries, key)
		}
	}
	mc.mu.Unlock()
}

func (mc *memoryCache) clear() {
	mc.mu.Lock()
	mc.entries = make(map[string]memEntry)
	mc.mu.Unlock()
}

func (mc *memoryCache) len() int {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return len(mc.entries)
}
