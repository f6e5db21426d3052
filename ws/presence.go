package ws

import (
	"sort"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
)

// presenceState, bir kullanıcının tek bir scope'taki online durumu.
// conns: Kullanıcının o scope'a abone bağlantı sayısı. Birden fazla tab
// açık olabilir — kullanıcı ancak SON bağlantısı da düştüğünde offline olur.
type presenceState struct {
	entry PresenceEntry
	conns int
}

// PresenceTracker, scope bazlı online kullanıcı kümelerini ve offline olan
// kullanıcıların son görülme zamanını takip eder.
//
// İki invariant:
// 1. Bir kullanıcı bir scope'ta ya online'dır ya offline — conn sayacı
//    join/leave dengesizliğinde bile negatife düşmez.
// 2. Snapshot her zaman o anki TAM kümedir; alıcı taraf kendi kümesini
//    bu kümeyle değiştirir, birleştirmez.
type PresenceTracker struct {
	mu sync.RWMutex

	// scopes: scope → userID → presence durumu
	scopes map[string]map[string]*presenceState

	// lastSeen: scope → userID → son ayrılış zamanı.
	// Sadece en az bir kez ayrılmış kullanıcılar için kayıt vardır.
	lastSeen map[string]map[string]time.Time
}

func NewPresenceTracker() *PresenceTracker {
	return &PresenceTracker{
		scopes:   make(map[string]map[string]*presenceState),
		lastSeen: make(map[string]map[string]time.Time),
	}
}

// Join, kullanıcının scope'a bir bağlantısını kaydeder.
// Dönen `first` true ise bu, kullanıcının o scope'taki ilk bağlantısıdır —
// çağıran taraf presence_join broadcast eder. Sonraki tab'lar sessizdir.
func (p *PresenceTracker) Join(scope, userID, name string, at time.Time) (PresenceEntry, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	users, ok := p.scopes[scope]
	if !ok {
		users = make(map[string]*presenceState)
		p.scopes[scope] = users
	}

	if st, exists := users[userID]; exists {
		st.conns++
		return st.entry, false
	}

	st := &presenceState{
		entry: PresenceEntry{UserID: userID, Name: name, OnlineAt: at},
		conns: 1,
	}
	users[userID] = st
	return st.entry, true
}

// Leave, kullanıcının scope'tan bir bağlantısını düşürür.
// Dönen `last` true ise kullanıcının o scope'taki son bağlantısıydı —
// kullanıcı artık offline'dır ve last-seen kaydedilmiştir.
func (p *PresenceTracker) Leave(scope, userID string, at time.Time) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	users, ok := p.scopes[scope]
	if !ok {
		return false
	}
	st, exists := users[userID]
	if !exists {
		return false
	}

	st.conns--
	if st.conns > 0 {
		return false
	}

	delete(users, userID)
	if len(users) == 0 {
		delete(p.scopes, scope)
	}

	if _, ok := p.lastSeen[scope]; !ok {
		p.lastSeen[scope] = make(map[string]time.Time)
	}
	p.lastSeen[scope][userID] = at
	return true
}

// Snapshot, scope'un o anki TAM online kümesini döner.
// Deterministik sıra için userID'ye göre sıralıdır.
// nil slice yerine boş slice döner — JSON'da null değil [] görünür.
func (p *PresenceTracker) Snapshot(scope string) []PresenceEntry {
	p.mu.RLock()
	defer p.mu.RUnlock()

	users := p.scopes[scope]
	entries := make([]PresenceEntry, 0, len(users))
	for _, st := range users {
		entries = append(entries, st.entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].UserID < entries[j].UserID
	})
	return entries
}

// IsOnline, kullanıcının scope'ta en az bir aktif bağlantısı olup olmadığını söyler.
func (p *PresenceTracker) IsOnline(scope, userID string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	users, ok := p.scopes[scope]
	if !ok {
		return false
	}
	_, exists := users[userID]
	return exists
}

// LastSeenLabel, kullanıcının son görülme metnini döner.
//
// Üç durum:
//   - Kullanıcı online → nil (gösterilecek bir şey yok)
//   - Kullanıcı en az bir kez ayrılmış → "last seen 3 minutes ago" gibi
//   - Hiç kaydı yok (bu süreçte hiç bağlanmadı) → "Offline"
//
// Son durum bilinçli bir fallback: elimizde zaman damgası olmadan
// "son görülme" uydurmak yerine düz "Offline" gösterilir.
func (p *PresenceTracker) LastSeenLabel(scope, userID string) *string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if users, ok := p.scopes[scope]; ok {
		if _, online := users[userID]; online {
			return nil
		}
	}

	if seen, ok := p.lastSeen[scope]; ok {
		if at, exists := seen[userID]; exists {
			label := "last seen " + humanize.Time(at)
			return &label
		}
	}

	label := "Offline"
	return &label
}
