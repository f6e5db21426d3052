package ws

import (
	"sort"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// typingExpiry: Son typing sinyalinden bu kadar süre sonra kullanıcı
// hâlâ "stop" göndermediyse göstergesi otomatik düşürülür.
// Sekme kapanması, ağ kopması gibi durumlarda gösterge sonsuza kadar
// ekranda kalmaz.
const typingExpiry = 3 * time.Second

// TypingBroadcast, bir typing durum değişikliğini ilgili scope'a duyurur.
// Hub bu callback'i broadcastTyping ile bağlar; testler kendi closure'ını verir.
type TypingBroadcast func(scope string, data TypingEventData)

type typingState struct {
	name  string
	timer *clock.Timer
}

// TypingTracker, scope bazlı "kim yazıyor" durumunu takip eder.
//
// clock.Clock nedir?
// time paketinin enjekte edilebilir hâli. Üretimde gerçek saat çalışır;
// testlerde mock clock ile süre beklemeden 3 saniye "ilerletilir".
// Timer'lı kod başka türlü deterministik test edilemez.
type TypingTracker struct {
	mu        sync.Mutex
	clk       clock.Clock
	broadcast TypingBroadcast

	// scopes: scope → userID → typing durumu (aktif timer dahil)
	scopes map[string]map[string]*typingState
}

// NewTypingTracker, gerçek saatle çalışan bir tracker oluşturur.
func NewTypingTracker(broadcast TypingBroadcast) *TypingTracker {
	return NewTypingTrackerWithClock(broadcast, clock.New())
}

// NewTypingTrackerWithClock, saat enjeksiyonlu kurucu (testler için).
func NewTypingTrackerWithClock(broadcast TypingBroadcast, clk clock.Clock) *TypingTracker {
	return &TypingTracker{
		clk:       clk,
		broadcast: broadcast,
		scopes:    make(map[string]map[string]*typingState),
	}
}

// StartTyping, kullanıcının yazdığını kaydeder.
//
// Her çağrı expiry sayacını sıfırdan başlatır — kullanıcı yazmaya devam
// ettikçe tuş başına gelen sinyaller göstergeyi ayakta tutar.
// Broadcast yalnızca duruma GEÇİŞTE yapılır: zaten yazıyor görünen
// kullanıcı için tekrar tekrar event yayınlanmaz.
func (t *TypingTracker) StartTyping(scope, userID, name string) {
	t.mu.Lock()

	users, ok := t.scopes[scope]
	if !ok {
		users = make(map[string]*typingState)
		t.scopes[scope] = users
	}

	if st, exists := users[userID]; exists {
		st.timer.Reset(typingExpiry)
		t.mu.Unlock()
		return
	}

	st := &typingState{name: name}
	st.timer = t.clk.AfterFunc(typingExpiry, func() {
		t.expire(scope, userID)
	})
	users[userID] = st
	t.mu.Unlock()

	t.broadcast(scope, TypingEventData{
		Scope:    scope,
		UserID:   userID,
		Name:     name,
		IsTyping: true,
	})
}

// StopTyping, kullanıcının yazmayı bıraktığını kaydeder (mesaj gönderildi
// veya input temizlendi). Aktif kaydı yoksa sessizce döner — idempotent.
func (t *TypingTracker) StopTyping(scope, userID string) {
	t.mu.Lock()
	st, name, ok := t.remove(scope, userID)
	t.mu.Unlock()
	if !ok {
		return
	}
	st.timer.Stop()

	t.broadcast(scope, TypingEventData{
		Scope:    scope,
		UserID:   userID,
		Name:     name,
		IsTyping: false,
	})
}

// expire, timer dolduğunda çalışır — kullanıcı "stop" göndermeden kaybolmuştur.
func (t *TypingTracker) expire(scope, userID string) {
	t.mu.Lock()
	_, name, ok := t.remove(scope, userID)
	t.mu.Unlock()
	if !ok {
		return
	}

	t.broadcast(scope, TypingEventData{
		Scope:    scope,
		UserID:   userID,
		Name:     name,
		IsTyping: false,
	})
}

// remove, kaydı map'ten düşürür. Çağıran mutex'i tutuyor olmalı.
func (t *TypingTracker) remove(scope, userID string) (*typingState, string, bool) {
	users, ok := t.scopes[scope]
	if !ok {
		return nil, "", false
	}
	st, exists := users[userID]
	if !exists {
		return nil, "", false
	}
	delete(users, userID)
	if len(users) == 0 {
		delete(t.scopes, scope)
	}
	return st, st.name, true
}

// TypingUsers, scope'ta şu anda yazıyor görünen kullanıcı adlarını döner
// (deterministik sırada). Testler ve snapshot istekleri için.
func (t *TypingTracker) TypingUsers(scope string) []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	users := t.scopes[scope]
	names := make([]string, 0, len(users))
	for _, st := range users {
		names = append(names, st.name)
	}
	sort.Strings(names)
	return names
}
