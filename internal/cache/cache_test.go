package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_BasicGetPut(t *testing.T) {
	store := New(100, time.Hour)

	// Miss on empty cache.
	assert.Nil(t, store.Get("brand:bbox=1"))

	// Put and get.
	data := []byte(`{"type":"FeatureCollection"}`)
	store.Put("brand:bbox=1", data)
	got := store.Get("brand:bbox=1")
	assert.Equal(t, data, got)

	// Different key is still a miss.
	assert.Nil(t, store.Get("brand:bbox=2"))
}

func TestStore_TTLExpiration(t *testing.T) {
	store := New(100, 50*time.Millisecond)

	store.Put("k", []byte("v"))
	assert.NotNil(t, store.Get("k"))

	time.Sleep(60 * time.Millisecond)
	assert.Nil(t, store.Get("k"))

	// Expired entry should be removed from the map.
	store.mu.RLock()
	_, exists := store.entries["k"]
	store.mu.RUnlock()
	assert.False(t, exists)
}

func TestStore_LRUEviction(t *testing.T) {
	store := New(3, time.Hour)

	store.Put("a", []byte("1"))
	store.Put("b", []byte("2"))
	store.Put("c", []byte("3"))

	// Cache is full. Adding a fourth should evict "a" (oldest).
	store.Put("d", []byte("4"))

	assert.Nil(t, store.Get("a"))
	assert.NotNil(t, store.Get("b"))
	assert.NotNil(t, store.Get("c"))
	assert.NotNil(t, store.Get("d"))
}

func TestStore_LRUEviction_AccessOrder(t *testing.T) {
	store := New(3, time.Hour)

	store.Put("a", []byte("1"))
	store.Put("b", []byte("2"))
	store.Put("c", []byte("3"))

	// Access "a" to move it to back.
	store.Get("a")

	// Now "b" is the oldest. Adding "d" should evict "b".
	store.Put("d", []byte("4"))

	assert.NotNil(t, store.Get("a"))
	assert.Nil(t, store.Get("b"))
	assert.NotNil(t, store.Get("c"))
	assert.NotNil(t, store.Get("d"))
}

func TestStore_ConcurrentAccess(t *testing.T) {
	store := New(1000, time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := Key("brand", map[string]string{"n": string(rune('a' + n%26))})
			store.Put(key, []byte("data"))
			store.Get(key)
		}(i)
	}
	wg.Wait()

	stats := store.Stats()
	assert.LessOrEqual(t, stats.Entries, 1000)
	assert.True(t, stats.Hits+stats.Misses > 0)
}

func TestStore_Sweep(t *testing.T) {
	store := New(100, 50*time.Millisecond)

	store.Put("a", []byte("1"))
	store.Put("b", []byte("2"))

	time.Sleep(60 * time.Millisecond)
	store.Put("c", []byte("3"))

	removed := store.Sweep()
	assert.Equal(t, 2, removed)
	assert.NotNil(t, store.Get("c"))

	store.mu.RLock()
	assert.Len(t, store.entries, 1)
	store.mu.RUnlock()
}

func TestStore_Stats(t *testing.T) {
	store := New(100, time.Hour)

	store.Put("a", []byte("1"))
	store.Put("b", []byte("2"))

	store.Get("a") // hit
	store.Get("b") // hit
	store.Get("c") // miss

	stats := store.Stats()
	assert.Equal(t, 2, stats.Entries)
	assert.Equal(t, 100, stats.MaxEntries)
	assert.Equal(t, int64(2), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	require.InDelta(t, 0.6667, stats.HitRate, 0.01)
}

func TestStore_UpdateExistingKey(t *testing.T) {
	store := New(100, time.Hour)

	store.Put("a", []byte("old"))
	store.Put("a", []byte("new"))

	got := store.Get("a")
	assert.Equal(t, []byte("new"), got)

	// Should still only have one entry.
	store.mu.RLock()
	assert.Len(t, store.entries, 1)
	store.mu.RUnlock()
}
