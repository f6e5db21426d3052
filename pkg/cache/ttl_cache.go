// Package cache — generic in-memory TTL cache.
//
// Tek kullanıcısı şu an ws/feed.go: system event'lerine kullanıcı adı
// eklenirken her event için DB'ye gitmemek adına display name'ler kısa
// süreliğine (30sn) burada tutulur. TTL kısa tutulur ki profil
// güncellemesi en geç bir cache süresi içinde event'lere yansısın.
package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTLCache, süre bazlı expiry'li thread-safe key/value cache.
//
//	names := cache.New[string, string](30*time.Second, 5*time.Minute)
//	names.Set(userID, displayName)
//	name, ok := names.Get(userID)
//
// Okumalar RLock ile paraleldir; expiry kontrolü Get sırasında yapılır,
// fiziksel silme arka plan goroutine'ine bırakılır.
type TTLCache[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]entry[V]
	ttl     time.Duration
	stop    chan struct{}
}

// New, cache'i oluşturur ve süresi dolan entry'leri silen arka plan
// goroutine'ini başlatır. cleanupInterval ttl'den uzun seçilebilir —
// Get zaten stale entry döndürmez, temizlik sadece bellek içindir.
func New[K comparable, V any](ttl, cleanupInterval time.Duration) *TTLCache[K, V] {
	c := &TTLCache[K, V]{
		entries: make(map[K]entry[V]),
		ttl:     ttl,
		stop:    make(chan struct{}),
	}

	go func() {
		ticker := time.NewTicker(cleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				c.evictExpired()
			case <-c.stop:
				return
			}
		}
	}()

	return c
}

// Get, key varsa ve süresi dolmamışsa (value, true) döner.
// Süresi dolmuş entry burada silinmez — Get RLock ile hızlı kalır.
func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || time.Now().After(e.expiresAt) {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set, değeri ttl süresiyle yazar. Var olan key'in süresi baştan başlar.
func (c *TTLCache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry[V]{
		value:     value,
		expiresAt: time.Now().Add(c.ttl),
	}
}

// Delete, key'i hemen düşürür. Kaynak veri değiştiğinde (ör. kullanıcı
// display name'ini güncellediğinde) TTL'i beklemeden invalidate etmek için.
func (c *TTLCache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
}

// Len, süresi dolmuş ama henüz temizlenmemiş entry'ler dahil toplam sayı.
func (c *TTLCache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// Close, temizlik goroutine'ini durdurur.
func (c *TTLCache[K, V]) Close() {
	close(c.stop)
}

func (c *TTLCache[K, V]) evictExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
		}
	}
}
