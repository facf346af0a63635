// Package cache — generic, thread-safe in-memory TTL cache.
//
// Ban listesi her kayıt için banlanan kullanıcının public profilini çözer.
// Aynı moderatör paneli saniyeler içinde defalarca yenilendiğinde her seferinde
// N adet users sorgusu atmamak için profiller kısa süreliğine burada tutulur.
//
//	profiles := cache.New[string, models.PublicUser](30*time.Second, time.Minute)
//	profiles.Set(userID, profile)
//	p, ok := profiles.Get(userID)
package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTLCache, her entry'si ttl sonra okunamaz hale gelen map.
// Süresi dolan entry'ler cleanupInterval aralıkla fiziksel olarak silinir.
type TTLCache[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]entry[V]
	ttl     time.Duration
	now     func() time.Time

	stopCleanup chan struct{}
	closeOnce   sync.Once
}

// New, cache oluşturur ve arka plan temizleme goroutine'ini başlatır.
// cleanupInterval <= 0 ise temizleme goroutine'i başlatılmaz.
func New[K comparable, V any](ttl, cleanupInterval time.Duration) *TTLCache[K, V] {
	c := &TTLCache[K, V]{
		entries:     make(map[K]entry[V]),
		ttl:         ttl,
		now:         time.Now,
		stopCleanup: make(chan struct{}),
	}

	if cleanupInterval > 0 {
		go c.cleanupLoop(cleanupInterval)
	}

	return c
}

// Get, key varsa ve süresi dolmamışsa (value, true) döner.
func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || c.now().After(e.expiresAt) {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set, değeri ttl ile yazar (varsa üzerine yazar).
func (c *TTLCache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry[V]{
		value:     value,
		expiresAt: c.now().Add(c.ttl),
	}
}

// Delete, key'i invalidate eder.
func (c *TTLCache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
}

// Close, temizleme goroutine'ini durdurur. Birden fazla çağrı güvenlidir.
func (c *TTLCache[K, V]) Close() {
	c.closeOnce.Do(func() { close(c.stopCleanup) })
}

func (c *TTLCache[K, V]) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.evictExpired()
		case <-c.stopCleanup:
			return
		}
	}
}

func (c *TTLCache[K, V]) evictExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
		}
	}
}
