package ratelimit

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoginLimiterBlocksAfterMax(t *testing.T) {
	rl := NewLoginRateLimiter(3, time.Minute)
	defer rl.Close()

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("1.2.3.4"), "attempt %d", i+1)
	}
	assert.False(t, rl.Allow("1.2.3.4"))
	assert.Greater(t, rl.RetryAfterSeconds("1.2.3.4"), 0)

	// Farklı IP'ler birbirini etkilemez
	assert.True(t, rl.Allow("5.6.7.8"))
}

func TestLoginLimiterReset(t *testing.T) {
	rl := NewLoginRateLimiter(1, time.Minute)
	defer rl.Close()

	assert.True(t, rl.Allow("1.2.3.4"))
	assert.False(t, rl.Allow("1.2.3.4"))

	// Başarılı login sayacı sıfırlar
	rl.Reset("1.2.3.4")
	assert.True(t, rl.Allow("1.2.3.4"))
}

func TestLoginLimiterWindowExpiry(t *testing.T) {
	rl := NewLoginRateLimiter(1, 30*time.Millisecond)
	defer rl.Close()

	assert.True(t, rl.Allow("1.2.3.4"))
	assert.False(t, rl.Allow("1.2.3.4"))

	time.Sleep(40 * time.Millisecond)
	assert.True(t, rl.Allow("1.2.3.4"))
}

func TestMessageLimiterCooldown(t *testing.T) {
	rl := NewMessageRateLimiter(2, 50*time.Millisecond, 120*time.Millisecond)
	defer rl.Close()

	assert.True(t, rl.Allow("user-1"))
	assert.True(t, rl.Allow("user-1"))

	// Limit aşıldı — cooldown başlar
	assert.False(t, rl.Allow("user-1"))
	assert.Greater(t, rl.CooldownSeconds("user-1"), 0)

	// Window geçse bile cooldown sürdükçe reddedilir
	time.Sleep(60 * time.Millisecond)
	assert.False(t, rl.Allow("user-1"))

	// Cooldown bitti — yeni pencere açılır
	time.Sleep(80 * time.Millisecond)
	assert.True(t, rl.Allow("user-1"))
}

func TestMessageLimiterPerUser(t *testing.T) {
	rl := NewMessageRateLimiter(1, time.Minute, time.Minute)
	defer rl.Close()

	assert.True(t, rl.Allow("user-1"))
	assert.False(t, rl.Allow("user-1"))

	// Başka kullanıcının bucket'ı ayrıdır
	assert.True(t, rl.Allow("user-2"))
}

func TestExtractIPPrefersForwardedHeaders(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.1:4321"

	// Doğrudan bağlantı — RemoteAddr'dan port ayrılır
	assert.Equal(t, "10.0.0.1", ExtractIP(r))

	r.Header.Set("X-Real-IP", "203.0.113.7")
	assert.Equal(t, "203.0.113.7", ExtractIP(r))

	// X-Forwarded-For en yüksek öncelik, listeden ilk değer alınır
	r.Header.Set("X-Forwarded-For", "198.51.100.9, 10.0.0.1")
	assert.Equal(t, "198.51.100.9", ExtractIP(r))
}
