package ws

import (
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// typingRecorder, broadcast edilen typing event'lerini sırayla biriktirir.
type typingRecorder struct {
	mu     sync.Mutex
	events []TypingEventData
}

func (r *typingRecorder) record(scope string, data TypingEventData) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, data)
}

func (r *typingRecorder) all() []TypingEventData {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]TypingEventData(nil), r.events...)
}

func TestTypingBroadcastOnlyOnTransition(t *testing.T) {
	rec := &typingRecorder{}
	mock := clock.NewMock()
	tr := NewTypingTrackerWithClock(rec.record, mock)

	tr.StartTyping("thread:t1", "u1", "Ali")
	tr.StartTyping("thread:t1", "u1", "Ali") // tuş başına gelen tekrar sinyali
	tr.StartTyping("thread:t1", "u1", "Ali")

	events := rec.all()
	require.Len(t, events, 1)
	assert.True(t, events[0].IsTyping)
	assert.Equal(t, "Ali", events[0].Name)

	tr.StopTyping("thread:t1", "u1")
	events = rec.all()
	require.Len(t, events, 2)
	assert.False(t, events[1].IsTyping)
}

func TestTypingStopIsIdempotent(t *testing.T) {
	rec := &typingRecorder{}
	tr := NewTypingTrackerWithClock(rec.record, clock.NewMock())

	tr.StopTyping("thread:t1", "u1") // hiç başlamamış kullanıcı
	assert.Empty(t, rec.all())

	tr.StartTyping("thread:t1", "u1", "Ali")
	tr.StopTyping("thread:t1", "u1")
	tr.StopTyping("thread:t1", "u1")

	assert.Len(t, rec.all(), 2) // start + tek stop
}

func TestTypingExpiresWithoutStop(t *testing.T) {
	rec := &typingRecorder{}
	mock := clock.NewMock()
	tr := NewTypingTrackerWithClock(rec.record, mock)

	tr.StartTyping("thread:t1", "u1", "Ali")
	assert.Equal(t, []string{"Ali"}, tr.TypingUsers("thread:t1"))

	// Sekme kapandı, stop hiç gelmedi — 3sn sonra gösterge düşmeli
	mock.Add(typingExpiry + time.Millisecond)

	events := rec.all()
	require.Len(t, events, 2)
	assert.False(t, events[1].IsTyping)
	assert.Empty(t, tr.TypingUsers("thread:t1"))
}

func TestTypingRepeatSignalResetsExpiry(t *testing.T) {
	rec := &typingRecorder{}
	mock := clock.NewMock()
	tr := NewTypingTrackerWithClock(rec.record, mock)

	tr.StartTyping("thread:t1", "u1", "Ali")

	// 2sn sonra hâlâ yazıyor — sayaç sıfırlanır
	mock.Add(2 * time.Second)
	tr.StartTyping("thread:t1", "u1", "Ali")

	// İlk start'tan 4sn geçti ama son sinyalden sadece 2sn — hâlâ yazıyor
	mock.Add(2 * time.Second)
	assert.Equal(t, []string{"Ali"}, tr.TypingUsers("thread:t1"))

	// Son sinyalden 3sn+ geçince düşer
	mock.Add(2 * time.Second)
	assert.Empty(t, tr.TypingUsers("thread:t1"))
}

func TestTypingUsersSorted(t *testing.T) {
	rec := &typingRecorder{}
	tr := NewTypingTrackerWithClock(rec.record, clock.NewMock())

	tr.StartTyping("thread:t1", "u1", "Veli")
	tr.StartTyping("thread:t1", "u2", "Ali")
	tr.StartTyping("thread:t2", "u3", "Can")

	assert.Equal(t, []string{"Ali", "Veli"}, tr.TypingUsers("thread:t1"))
}
