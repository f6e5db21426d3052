package ratelimit

import (
	"sync"
	"time"
)

// messageBucket, bir kullanıcı için mesaj sayacı ve varsa cooldown sonu.
// cooldownUntil zero value ise kullanıcı normal moddadır.
type messageBucket struct {
	count         int
	windowStart   time.Time
	cooldownUntil time.Time
}

// MessageRateLimiter, kullanıcı bazlı mesaj spam koruması.
//
// LoginRateLimiter'dan farkı ceza modeli: pencere kısa, ceza uzun.
// main.go'daki kurulum 10 mesaj / 10 saniye + 30 saniye cooldown'dır —
// 11. mesajda cooldown başlar ve 30 saniye boyunca grup, thread ve AI
// sohbeti dahil hiçbir mesaj kabul edilmez. Cooldown bitince pencere
// sıfırdan başlar.
//
// Key userID'dir, IP değil: mesaj endpoint'leri authenticated olduğu
// için kullanıcı bazlı takip hem daha adil hem NAT arkasındaki
// takımları yanlışlıkla cezalandırmaz.
type MessageRateLimiter struct {
	mu          sync.RWMutex
	buckets     map[string]*messageBucket
	maxMessages int
	window      time.Duration
	cooldown    time.Duration
	stop        chan struct{}
	stopOnce    sync.Once
}

// NewMessageRateLimiter, limiter'ı oluşturur ve arka plan temizliğini
// başlatır. Mesaj bucket'ları kısa ömürlüdür (pencere + cooldown),
// o yüzden temizlik login limiter'dan daha sık koşar.
func NewMessageRateLimiter(maxMessages int, window, cooldown time.Duration) *MessageRateLimiter {
	rl := &MessageRateLimiter{
		buckets:     make(map[string]*messageBucket),
		maxMessages: maxMessages,
		window:      window,
		cooldown:    cooldown,
		stop:        make(chan struct{}),
	}
	go rl.cleanupLoop(30 * time.Second)
	return rl
}

// Allow, kullanıcının mesaj göndermesine izin verilip verilmediğini döner.
//
// Sıra önemli: önce cooldown kontrolü (cooldown'dayken hiçbir mesaj
// geçmez), sonra pencere kontrolü. Limit aşımında cooldown başlatılır
// ve o mesaj da reddedilir.
func (rl *MessageRateLimiter) Allow(userID string) bool {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.buckets[userID]
	if !ok {
		rl.buckets[userID] = &messageBucket{count: 1, windowStart: now}
		return true
	}

	if !b.cooldownUntil.IsZero() {
		if now.Before(b.cooldownUntil) {
			return false
		}
		// Cooldown bitti — temiz pencereyle devam
		b.count = 1
		b.windowStart = now
		b.cooldownUntil = time.Time{}
		return true
	}

	if now.Sub(b.windowStart) > rl.window {
		b.count = 1
		b.windowStart = now
		return true
	}

	b.count++
	if b.count > rl.maxMessages {
		b.cooldownUntil = now.Add(rl.cooldown)
		return false
	}
	return true
}

// CooldownSeconds, kalan cooldown süresini saniye cinsinden döner
// (Retry-After header için). Cooldown yoksa 0. +1 yukarı yuvarlama,
// client'ın süre dolmadan tekrar denemesini engeller.
func (rl *MessageRateLimiter) CooldownSeconds(userID string) int {
	rl.mu.RLock()
	defer rl.mu.RUnlock()

	b, ok := rl.buckets[userID]
	if !ok || b.cooldownUntil.IsZero() {
		return 0
	}

	remaining := time.Until(b.cooldownUntil)
	if remaining <= 0 {
		return 0
	}
	return int(remaining.Seconds()) + 1
}

// Close, arka plan temizlik goroutine'ini durdurur.
func (rl *MessageRateLimiter) Close() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

func (rl *MessageRateLimiter) cleanupLoop(interval time.Duration) {
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

// cleanup, hem penceresi hem cooldown'ı geçmiş bucket'ları siler.
// İki koşul birden aranır; yoksa cooldown'daki bir kullanıcının
// bucket'ı silinip cezası erken biterdi.
func (rl *MessageRateLimiter) cleanup() {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for userID, b := range rl.buckets {
		windowExpired := now.Sub(b.windowStart) > rl.window
		cooldownExpired := b.cooldownUntil.IsZero() || now.After(b.cooldownUntil)

		if windowExpired && cooldownExpired {
			delete(rl.buckets, userID)
		}
	}
}
