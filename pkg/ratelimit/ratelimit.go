// Package ratelimit — login ve mesaj gönderimi için in-memory rate limiting.
//
// İki ayrı limiter var:
//   - LoginRateLimiter: IP bazlı, brute-force koruması. Pencere dolana
//     kadar bekletir (ceza süresi = kalan pencere).
//   - MessageRateLimiter: kullanıcı bazlı, spam koruması. Limit aşılınca
//     pencereden bağımsız sabit bir cooldown uygular.
//
// Tek instance deploy hedeflendiği için sayaçlar bellekte tutulur;
// her istekte SQLite'a yazmak gereksiz I/O ve contention yaratırdı.
// Paket proje içi hiçbir pakete bağımlı değildir — handlers ve
// middleware arasında import cycle oluşmaması için ayrı tutulur.
package ratelimit

import (
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"
)

// attemptBucket, bir IP için deneme sayacı ve pencere başlangıcı.
type attemptBucket struct {
	count       int
	windowStart time.Time
}

func (b *attemptBucket) expired(now time.Time, window time.Duration) bool {
	return now.Sub(b.windowStart) > window
}

// LoginRateLimiter, IP bazlı login denemesi sınırlar.
//
// main.go'daki kurulum: 5 deneme / 15 dakika. Limit aşılınca istekler
// pencere dolana kadar reddedilir; başarılı login Reset ile sayacı siler
// (silinmezse meşru kullanıcı şifresini hatırladığı anda bile bloke kalır).
type LoginRateLimiter struct {
	mu          sync.RWMutex
	buckets     map[string]*attemptBucket
	maxAttempts int
	window      time.Duration
	stop        chan struct{}
	stopOnce    sync.Once
}

// NewLoginRateLimiter, limiter'ı oluşturur ve süresi dolmuş bucket'ları
// silen arka plan temizliğini başlatır. Temizlik olmadan her farklı IP
// süresiz bellekte kalırdı.
func NewLoginRateLimiter(maxAttempts int, window time.Duration) *LoginRateLimiter {
	rl := &LoginRateLimiter{
		buckets:     make(map[string]*attemptBucket),
		maxAttempts: maxAttempts,
		window:      window,
		stop:        make(chan struct{}),
	}
	go rl.cleanupLoop(time.Minute)
	return rl
}

// Allow, IP'nin yeni bir login denemesine izin verilip verilmediğini döner.
// Her çağrı sayacı artırır; false dönerse caller 429 + Retry-After dönmeli.
func (rl *LoginRateLimiter) Allow(ip string) bool {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.buckets[ip]
	if !ok || b.expired(now, rl.window) {
		rl.buckets[ip] = &attemptBucket{count: 1, windowStart: now}
		return true
	}

	b.count++
	return b.count <= rl.maxAttempts
}

// Reset, başarılı login sonrası IP'nin sayacını siler.
func (rl *LoginRateLimiter) Reset(ip string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	delete(rl.buckets, ip)
}

// RetryAfterSeconds, pencerenin dolmasına kalan süreyi saniye cinsinden
// döner. Retry-After header değeri olarak kullanılır; +1 yukarı yuvarlama,
// client'ın süre dolmadan tekrar denemesini engeller.
func (rl *LoginRateLimiter) RetryAfterSeconds(ip string) int {
	rl.mu.RLock()
	defer rl.mu.RUnlock()

	b, ok := rl.buckets[ip]
	if !ok {
		return 0
	}

	remaining := rl.window - time.Since(b.windowStart)
	if remaining < 0 {
		return 0
	}
	return int(remaining.Seconds()) + 1
}

// Close, arka plan temizlik goroutine'ini durdurur. Testlerde ve graceful
// shutdown'da çağrılır; birden fazla çağrı güvenlidir.
func (rl *LoginRateLimiter) Close() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

func (rl *LoginRateLimiter) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stop:
			return
		}
	}
}

func (rl *LoginRateLimiter) cleanup() {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for ip, b := range rl.buckets {
		if b.expired(now, rl.window) {
			delete(rl.buckets, ip)
		}
	}
}

// ExtractIP, request'ten client IP'sini çıkarır.
//
// Uygulama production'da reverse proxy arkasında koşar; o durumda
// RemoteAddr proxy'nin adresidir. Sıra: X-Forwarded-For'un ilk değeri,
// sonra X-Real-IP, en son RemoteAddr.
func ExtractIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// "client, proxy1, proxy2" — ilk değer gerçek client
		for i := 0; i < len(xff); i++ {
			if xff[i] == ',' {
				return xff[:i]
			}
		}
		return xff
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// FormatRetryMessage, Retry-After saniyesini hata mesajı için okunabilir
// hale getirir: 900 → "15 minute(s)", 30 → "30 second(s)".
func FormatRetryMessage(seconds int) string {
	if seconds >= 60 {
		return fmt.Sprintf("%d minute(s)", seconds/60)
	}
	return fmt.Sprintf("%d second(s)", seconds)
}
