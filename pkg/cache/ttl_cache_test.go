package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTTLCacheGetSet(t *testing.T) {
	c := New[string, string](time.Minute, time.Minute)
	defer c.Close()

	_, ok := c.Get("u1")
	assert.False(t, ok)

	c.Set("u1", "Alice")
	name, ok := c.Get("u1")
	assert.True(t, ok)
	assert.Equal(t, "Alice", name)
}

func TestTTLCacheExpiry(t *testing.T) {
	c := New[string, string](20*time.Millisecond, time.Minute)
	defer c.Close()

	c.Set("u1", "Alice")
	time.Sleep(30 * time.Millisecond)

	// Süre doldu — Get miss döner, fiziksel silme cleanup'a kalmıştır
	_, ok := c.Get("u1")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len())
}

func TestTTLCacheDelete(t *testing.T) {
	c := New[string, string](time.Minute, time.Minute)
	defer c.Close()

	c.Set("u1", "Alice")
	c.Delete("u1")

	_, ok := c.Get("u1")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestTTLCacheSetRefreshesExpiry(t *testing.T) {
	c := New[string, string](40*time.Millisecond, time.Minute)
	defer c.Close()

	c.Set("u1", "Alice")
	time.Sleep(25 * time.Millisecond)
	c.Set("u1", "Alice A.")
	time.Sleep(25 * time.Millisecond)

	// İkinci Set süreyi baştan başlattı — entry hâlâ taze
	name, ok := c.Get("u1")
	assert.True(t, ok)
	assert.Equal(t, "Alice A.", name)
}
