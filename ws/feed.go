package ws

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/eraydn/odak/pkg/cache"
)

// feedLimit: Scope başına bellekte tutulan maksimum system event sayısı.
// Daha eskiler düşer — feed bir aktivite şeridi, kalıcı log değil.
const feedLimit = 200

// NameResolver, user ID'den gösterim adı çözer.
// EventFeed repository katmanını import edemez; çözücü main.go'da
// user repo üzerinden bir adapter olarak bağlanır.
type NameResolver interface {
	ResolveName(ctx context.Context, userID string) (string, error)
}

// EventFeed, grup aktivite şeridini tutar: side thread açılması,
// üye katılması, üye ayrılması gibi mesaj olmayan olaylar.
//
// Sıralama invariant'ı: Events() her zaman event'in KENDİ timestamp'ine
// göre sıralı döner. Kayıt sırasına güvenilmez — isim çözümü (DB lookup)
// değişken sürdüğü için iki eşzamanlı Record listeye ters sırada
// ulaşabilir; sorted insert bunu düzeltir.
type EventFeed struct {
	mu sync.RWMutex

	// events: scope → timestamp'e göre sıralı event listesi
	events map[string][]SystemEventData

	names NameResolver

	// nameCache: Aynı kullanıcı arka arkaya birçok event üretebilir
	// (thread aç, katıl, ayrıl) — her seferinde DB'ye gitmeye gerek yok.
	nameCache *cache.TTLCache[string, string]

	publisher EventPublisher
}

func NewEventFeed(names NameResolver, publisher EventPublisher) *EventFeed {
	return &EventFeed{
		events:    make(map[string][]SystemEventData),
		names:     names,
		nameCache: cache.New[string, string](30*time.Second, 5*time.Minute),
		publisher: publisher,
	}
}

// Record, bir system event'i kaydeder ve scope abonelerine broadcast eder.
//
// Timestamp fonksiyona GİRİŞTE alınır; isim çözümü ne kadar sürerse
// sürsün event gerçekleştiği ana sıralanır.
//
// detail: event tipine göre ek bilgi — thread_create için thread adı.
func (f *EventFeed) Record(ctx context.Context, scope, eventType, actorID, detail string) {
	at := time.Now()
	name := f.resolveName(ctx, actorID)

	var message string
	switch eventType {
	case SystemEventThreadCreate:
		message = name + " started a side thread: " + detail
	case SystemEventMemberJoin:
		message = name + " joined the group"
	case SystemEventMemberLeave:
		message = name + " left the group"
	default:
		log.Printf("[feed] unknown system event type: %s", eventType)
		return
	}

	event := SystemEventData{
		ID:        uuid.NewString(),
		Scope:     scope,
		Type:      eventType,
		ActorID:   actorID,
		Message:   message,
		Timestamp: at,
	}

	f.mu.Lock()
	f.events[scope] = insertByTimestamp(f.events[scope], event)
	if len(f.events[scope]) > feedLimit {
		f.events[scope] = f.events[scope][len(f.events[scope])-feedLimit:]
	}
	f.mu.Unlock()

	if f.publisher != nil {
		f.publisher.BroadcastToScope(scope, Event{
			Op:   OpSystemEvent,
			Data: event,
		})
	}
}

// Events, scope'un aktivite şeridini timestamp sırasıyla döner.
// İç slice'ın kopyası döner — çağıran taraf güvenle tutabilir.
func (f *EventFeed) Events(scope string) []SystemEventData {
	f.mu.RLock()
	defer f.mu.RUnlock()

	events := make([]SystemEventData, len(f.events[scope]))
	copy(events, f.events[scope])
	return events
}

// Clear, scope'un şeridini boşaltır (örn. thread silindiğinde).
func (f *EventFeed) Clear(scope string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.events, scope)
}

// Close, name cache'in cleanup goroutine'ini durdurur.
func (f *EventFeed) Close() {
	f.nameCache.Close()
}

// resolveName, actor'ün gösterim adını cache üzerinden çözer.
// Çözüm başarısız olursa event kaybedilmez — "Someone" ile yazılır.
func (f *EventFeed) resolveName(ctx context.Context, userID string) string {
	if name, ok := f.nameCache.Get(userID); ok {
		return name
	}

	name, err := f.names.ResolveName(ctx, userID)
	if err != nil || name == "" {
		log.Printf("[feed] failed to resolve name for %s: %v", userID, err)
		return "Someone"
	}

	f.nameCache.Set(userID, name)
	return name
}

// insertByTimestamp, event'i sıralamayı koruyarak yerleştirir.
// Liste zaten sıralı olduğu için binary search yeterli.
func insertByTimestamp(events []SystemEventData, event SystemEventData) []SystemEventData {
	i := sort.Search(len(events), func(i int) bool {
		return events[i].Timestamp.After(event.Timestamp)
	})
	events = append(events, SystemEventData{})
	copy(events[i+1:], events[i:])
	events[i] = event
	return events
}
