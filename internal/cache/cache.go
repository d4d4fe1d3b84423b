// Package cache provides the bounded in-process response cache shared by
// all request handlers.
package cache

import (
	"sync"
	"sync/atomic"
	"time"
)

// Store is a concurrent-safe LRU cache for serialized response bodies
// with TTL expiration.
type Store struct {
	mu         sync.RWMutex
	entries    map[string]*storeEntry
	order      []string // LRU order: front=oldest, back=newest
	maxEntries int
	ttl        time.Duration
	hits       atomic.Int64
	misses     atomic.Int64
}

type storeEntry struct {
	data      []byte
	createdAt time.Time
}

// Stats contains cache performance statistics.
type Stats struct {
	Entries    int     `json:"entries"`
	MaxEntries int     `json:"max_entries"`
	Hits       int64   `json:"hits"`
	Misses     int64   `json:"misses"`
	HitRate    float64 `json:"hit_rate"`
}

// New creates a Store with the given capacity and TTL.
func New(maxEntries int, ttl time.Duration) *Store {
	return &Store{
		entries:    make(map[string]*storeEntry),
		maxEntries: maxEntries,
		ttl:        ttl,
	}
}

// TTL returns the configured entry lifetime.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Get retrieves a cached body. Returns nil on miss or expiration; an
// expired entry behaves as a miss even before the sweeper removes it.
func (s *Store) Get(key string) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		s.misses.Add(1)
		return nil
	}

	// Check TTL.
	if time.Since(entry.createdAt) > s.ttl {
		delete(s.entries, key)
		s.removeFromOrder(key)
		s.misses.Add(1)
		return nil
	}

	// Move to back (most recently used).
	s.removeFromOrder(key)
	s.order = append(s.order, key)
	s.hits.Add(1)
	return entry.data
}

// Put stores a body under key, evicting the least-recently-used entry if
// at capacity. Overwriting an existing key is an idempotent refresh.
func (s *Store) Put(key string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// If key already exists, update in place and move to back.
	if _, ok := s.entries[key]; ok {
		s.entries[key] = &storeEntry{data: data, createdAt: time.Now()}
		s.removeFromOrder(key)
		s.order = append(s.order, key)
		return
	}

	// Evict from front if at capacity.
	for len(s.entries) >= s.maxEntries && len(s.order) > 0 {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.entries, oldest)
	}

	s.entries[key] = &storeEntry{data: data, createdAt: time.Now()}
	s.order = append(s.order, key)
}

// Sweep removes entries whose TTL has elapsed and returns the number
// removed. Get already treats expired entries as misses; the sweep only
// reclaims memory for keys that are never read again.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int
	var remaining []string
	for _, key := range s.order {
		entry, ok := s.entries[key]
		if ok && time.Since(entry.createdAt) > s.ttl {
			delete(s.entries, key)
			removed++
		} else {
			remaining = append(remaining, key)
		}
	}
	s.order = remaining
	return removed
}

// Stats returns cache performance statistics.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	entries := len(s.entries)
	maxEntries := s.maxEntries
	s.mu.RUnlock()

	hits := s.hits.Load()
	misses := s.misses.Load()

	var hitRate float64
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total)
	}

	return Stats{
		Entries:    entries,
		MaxEntries: maxEntries,
		Hits:       hits,
		Misses:     misses,
		HitRate:    hitRate,
	}
}

// removeFromOrder removes a key from the LRU order slice.
func (s *Store) removeFromOrder(key string) {
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}
