package ws

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresenceJoinLeaveBroadcastOnlyAtEdges(t *testing.T) {
	p := NewPresenceTracker()
	now := time.Now()

	// İlk bağlantı → join broadcast edilmeli
	_, first := p.Join("group:g1", "u1", "Ayşe", now)
	assert.True(t, first)

	// İkinci tab → sessiz
	_, first = p.Join("group:g1", "u1", "Ayşe", now)
	assert.False(t, first)

	// İlk tab kapanır → kullanıcı hâlâ online
	assert.False(t, p.Leave("group:g1", "u1", now))
	assert.True(t, p.IsOnline("group:g1", "u1"))

	// Son tab kapanır → artık offline
	assert.True(t, p.Leave("group:g1", "u1", now))
	assert.False(t, p.IsOnline("group:g1", "u1"))
}

func TestPresenceLeaveWithoutJoinIsNoop(t *testing.T) {
	p := NewPresenceTracker()

	assert.False(t, p.Leave("group:g1", "ghost", time.Now()))
	assert.False(t, p.IsOnline("group:g1", "ghost"))
}

func TestPresenceSnapshotSortedAndComplete(t *testing.T) {
	p := NewPresenceTracker()
	now := time.Now()

	p.Join("group:g1", "u2", "Veli", now)
	p.Join("group:g1", "u1", "Ali", now)
	p.Join("group:g2", "u3", "Can", now)

	snap := p.Snapshot("group:g1")
	require.Len(t, snap, 2)
	assert.Equal(t, "u1", snap[0].UserID)
	assert.Equal(t, "u2", snap[1].UserID)

	// Boş scope nil değil boş slice döner — JSON'da [] görünmeli
	empty := p.Snapshot("group:yok")
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestPresenceScopesAreIndependent(t *testing.T) {
	p := NewPresenceTracker()
	now := time.Now()

	p.Join("group:g1", "u1", "Ali", now)
	p.Join("thread:t1", "u1", "Ali", now)

	p.Leave("group:g1", "u1", now)

	assert.False(t, p.IsOnline("group:g1", "u1"))
	assert.True(t, p.IsOnline("thread:t1", "u1"))
}

func TestLastSeenLabel(t *testing.T) {
	p := NewPresenceTracker()
	now := time.Now()

	// Online kullanıcı → nil
	p.Join("group:g1", "u1", "Ali", now)
	assert.Nil(t, p.LastSeenLabel("group:g1", "u1"))

	// Ayrılmış kullanıcı → "last seen ..." etiketi
	p.Leave("group:g1", "u1", now.Add(-10*time.Minute))
	label := p.LastSeenLabel("group:g1", "u1")
	require.NotNil(t, label)
	assert.Contains(t, *label, "last seen")

	// Bu süreçte hiç görülmemiş kullanıcı → düz "Offline"
	label = p.LastSeenLabel("group:g1", "hiç-bağlanmadı")
	require.NotNil(t, label)
	assert.Equal(t, "Offline", *label)
}
