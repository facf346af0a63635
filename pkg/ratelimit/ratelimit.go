// Package ratelimit — moderasyon aksiyonları için aktör bazlı rate limiting.
//
// Ele geçirilmiş bir moderatör hesabı toplu ban atmaya başladığında
// sunucunun tüm üye listesini saniyeler içinde boşaltabilir. ActionRateLimiter
// her aktör (userID) için sabit pencere içinde izin verilen aksiyon sayısını sınırlar.
//
// Tasarım:
// - İlk aksiyonda windowStart = now, count = 1.
// - Pencere dolmadan count == maxActions ise istek reddedilir.
// - Pencere dolunca sayaç sıfırlanır.
// - Arka plan goroutine'i süresi dolmuş bucket'ları temizler (memory leak engeli).
//
// pkg/ratelimit hiçbir proje içi pakete bağımlı değildir (leaf dependency).
package ratelimit

import (
	"fmt"
	"sync"
	"time"
)

type bucket struct {
	count       int
	windowStart time.Time
}

// ActionRateLimiter, key (aktör ID) bazlı sabit pencere rate limiter.
//
//	limiter := NewActionRateLimiter(10, time.Minute)
//	if !limiter.Allow(actorID) { return 429 }
type ActionRateLimiter struct {
	mu         sync.Mutex
	buckets    map[string]*bucket
	maxActions int
	window     time.Duration
	now        func() time.Time

	stopCleanup chan struct{}
	stopOnce    sync.Once
}

// NewActionRateLimiter, limiter oluşturur ve temizleme goroutine'ini başlatır.
// maxActions <= 0 ise limiter her isteğe izin verir.
func NewActionRateLimiter(maxActions int, window time.Duration) *ActionRateLimiter {
	rl := &ActionRateLimiter{
		buckets:     make(map[string]*bucket),
		maxActions:  maxActions,
		window:      window,
		now:         time.Now,
		stopCleanup: make(chan struct{}),
	}

	go rl.cleanupLoop()

	return rl
}

// Allow, key için bir aksiyon daha yapılıp yapılamayacağını döner.
// İzin verilen her çağrı sayacı artırır; reddedilenler artırmaz.
func (rl *ActionRateLimiter) Allow(key string) bool {
	if rl.maxActions <= 0 {
		return true
	}

	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, exists := rl.buckets[key]
	if !exists {
		rl.buckets[key] = &bucket{count: 1, windowStart: now}
		return true
	}

	if now.Sub(b.windowStart) > rl.window {
		b.count = 1
		b.windowStart = now
		return true
	}

	if b.count >= rl.maxActions {
		return false
	}
	b.count++
	return true
}

// Refund, Allow ile sayılan son aksiyonu geri verir. Reddedilen (hiçbir şey
// değiştirmeyen) istekler bütçeden düşmez. Pencere dolmuşsa etkisizdir.
func (rl *ActionRateLimiter) Refund(key string) {
	if rl.maxActions <= 0 {
		return
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, exists := rl.buckets[key]
	if !exists || rl.now().Sub(b.windowStart) > rl.window || b.count == 0 {
		return
	}
	b.count--
}

// RetryAfterSeconds, pencerenin bitmesine kalan süreyi saniye cinsinden döner.
// HTTP Retry-After header değeri olarak kullanılır.
func (rl *ActionRateLimiter) RetryAfterSeconds(key string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, exists := rl.buckets[key]
	if !exists {
		return 0
	}

	remaining := rl.window - rl.now().Sub(b.windowStart)
	if remaining < 0 {
		return 0
	}
	return int(remaining.Seconds()) + 1
}

// Stop, temizleme goroutine'ini durdurur.
func (rl *ActionRateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCleanup) })
}

func (rl *ActionRateLimiter) cleanupLoop() {
	ticker := time.NewTicker(60 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCleanup:
			return
		}
	}
}

func (rl *ActionRateLimiter) cleanup() {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for key, b := range rl.buckets {
		if now.Sub(b.windowStart) > rl.window {
			delete(rl.buckets, key)
		}
	}
}

// FormatRetryMessage, kalan süreyi okunabilir formata çevirir.
func FormatRetryMessage(seconds int) string {
	if seconds >= 60 {
		return fmt.Sprintf("%d minute(s)", seconds/60)
	}
	return fmt.Sprintf("%d second(s)", seconds)
}
