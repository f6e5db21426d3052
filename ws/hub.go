package ws

import (
	"encoding/json"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/eraydn/odak/metrics"
	"github.com/eraydn/odak/models"
)

// EventPublisher, service katmanının WebSocket event'leri broadcast etmek için
// kullandığı interface.
//
// Dependency Inversion: Service'ler Hub'ın concrete struct'ına değil,
// bu interface'e bağımlıdır. Böylece:
// 1. Service test edilirken mock EventPublisher kullanılabilir
// 2. Hub implementasyonu değişse bile service kodu etkilenmez
type EventPublisher interface {
	BroadcastToScope(scope string, event Event)
	BroadcastToScopeExcept(excludeUserID, scope string, event Event)
	BroadcastToUser(userID string, event Event)
}

// SubscribeAuthorizer, bir kullanıcının bir conversation scope'una abone
// olup olamayacağını söyler. Side thread'ler özeldir — katılımcı olmayan
// bir kullanıcı thread scope'una abone olamaz.
//
// Callback pattern: Hub repository katmanını import edemez (ws alt katmandır),
// bu yüzden üyelik kontrolü main.go'da bir closure olarak enjekte edilir.
type SubscribeAuthorizer func(userID string, conv models.Conversation) bool

// Hub, tüm WebSocket bağlantılarını ve scope aboneliklerini yöneten
// merkezi yapıdır (Observer pattern).
//
// Bir "subject" (Hub) birden fazla "observer"ı (Client) takip eder.
// Bir event olduğunda Hub, ilgili scope'a abone observer'lara bildirim gönderir.
//
// Go channel nedir? (register, unregister)
// Goroutine'ler arası güvenli iletişim sağlayan yapılar.
// Hub.Run() goroutine'i bu channel'lardan `select` ile okur.
type Hub struct {
	// clients: userID → Client set (bir kullanıcının birden fazla tab'ı olabilir).
	// map[*Client]bool — Go'da set yoktur, map[T]bool kullanılır.
	clients map[string]map[*Client]bool

	// subs: scope → o scope'a abone Client set.
	// Bir client hem clients hem birden fazla subs girişinde yer alabilir.
	subs map[string]map[*Client]bool

	// mu: clients ve subs map'lerini koruyan read-write mutex.
	// Broadcast okuma ağırlıklıdır — RLock ile birden fazla broadcast
	// aynı anda çalışabilir.
	mu sync.RWMutex

	register   chan *Client
	unregister chan *Client

	// seq: Her outbound event'e verilen artan sayaç.
	// atomic.Int64: Birden fazla goroutine'in güvenle artırabildiği sayı.
	seq atomic.Int64

	// presence ve typing, scope bazlı durum takipçileri.
	presence *PresenceTracker
	typing   *TypingTracker

	// authorize: Scope aboneliği yetki kontrolü (main.go'da enjekte edilir).
	// nil ise tüm abonelikler kabul edilir (test kolaylığı).
	authorize SubscribeAuthorizer

	// names: userID → display name cache (presence/typing payload'ları için).
	names  map[string]string
	nameMu sync.RWMutex
}

// NewHub, yeni bir Hub oluşturur.
// typing tracker'a gerçek saat verilir; testler NewTypingTracker'ı
// mock clock ile ayrıca kurar.
func NewHub() *Hub {
	h := &Hub{
		clients:    make(map[string]map[*Client]bool),
		subs:       make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		names:      make(map[string]string),
		presence:   NewPresenceTracker(),
	}
	h.typing = NewTypingTracker(h.broadcastTyping)
	return h
}

// SetAuthorizer, scope abonelik yetki kontrolünü bağlar.
// main.go wire-up sırasında, repo'lar oluşturulduktan sonra çağrılır.
func (h *Hub) SetAuthorizer(fn SubscribeAuthorizer) {
	h.authorize = fn
}

// Presence, IsOnline / LastSeen sorguları için presence tracker'ı döner.
func (h *Hub) Presence() *PresenceTracker { return h.presence }

// Typing, typing tracker'ı döner (handler'lar ve testler için).
func (h *Hub) Typing() *TypingTracker { return h.typing }

// Run, Hub'ın ana event loop'udur. main.go'da `go hub.Run()` ile başlatılır.
//
// select: Birden fazla channel'ı aynı anda dinler.
// Hangi channel'dan veri gelirse o case çalışır.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)

		case client := <-h.unregister:
			h.removeClient(client)
		}
	}
}

// addClient, yeni bir client'ı Hub'a ekler.
func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.userID]; !ok {
		h.clients[client.userID] = make(map[*Client]bool)
	}
	h.clients[client.userID][client] = true
	metrics.WSConnections.Inc()

	log.Printf("[ws] client connected: user=%s (total connections for user: %d)",
		client.userID, len(h.clients[client.userID]))
}

// removeClient, bir client'ı Hub'dan çıkarır ve send channel'ını kapatır.
// Client'ın abone olduğu tüm scope'lardan da çıkarılır — tab kapansa bile
// presence entry'si eninde sonunda düşer (spec invariant'ı).
func (h *Hub) removeClient(client *Client) {
	// Önce abonelikleri topla — unsubscribeScope kendi lock'unu alır,
	// RWMutex reentrant olmadığı için iç içe Lock deadlock yaratır.
	client.scopeMu.Lock()
	scopes := make([]string, 0, len(client.scopes))
	for scope := range client.scopes {
		scopes = append(scopes, scope)
	}
	client.scopes = make(map[string]bool)
	client.scopeMu.Unlock()

	for _, scope := range scopes {
		h.unsubscribeScope(client, scope)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.clients[client.userID]; ok {
		if _, exists := clients[client]; exists {
			delete(clients, client)
			close(client.send)
			metrics.WSConnections.Dec()

			if len(clients) == 0 {
				delete(h.clients, client.userID)
				log.Printf("[ws] user fully disconnected: %s", client.userID)
			} else {
				log.Printf("[ws] client disconnected: user=%s (remaining: %d)",
					client.userID, len(clients))
			}
		}
	}
}

// Subscribe, bir client'ı conversation scope'una abone eder.
//
// Akış:
// 1. Yetki kontrolü (authorize callback — DB'ye gidebilir, lock DIŞINDA)
// 2. subs map'ine ekle
// 3. Presence join — kullanıcının bu scope'taki İLK bağlantısıysa
//    diğer abonelere presence_join broadcast edilir
// 4. Yeni abone olan client'a tam presence_sync gönderilir.
//    Sync her zaman TAM kümedir — alıcı kendi kümesini replace eder.
func (h *Hub) Subscribe(client *Client, conv models.Conversation) {
	if h.authorize != nil && !h.authorize(client.userID, conv) {
		log.Printf("[ws] subscribe denied: user=%s scope=%s", client.userID, conv.Scope())
		return
	}

	scope := conv.Scope()

	client.scopeMu.Lock()
	client.scopes[scope] = true
	client.scopeMu.Unlock()

	h.mu.Lock()
	if _, ok := h.subs[scope]; !ok {
		h.subs[scope] = make(map[*Client]bool)
	}
	h.subs[scope][client] = true
	h.mu.Unlock()

	entry, first := h.presence.Join(scope, client.userID, h.getName(client.userID), time.Now())

	// Yeni aboneye tam durum — kendisi de dahil
	client.sendEvent(h.stamp(Event{
		Op: OpPresenceSync,
		Data: PresenceSyncData{
			Scope:   scope,
			Entries: h.presence.Snapshot(scope),
		},
	}))

	if first {
		h.BroadcastToScopeExcept(client.userID, scope, Event{
			Op:   OpPresenceJoin,
			Data: PresenceJoinData{Scope: scope, Entry: entry},
		})
	}
}

// Unsubscribe, bir client'ın scope aboneliğini bırakır.
func (h *Hub) Unsubscribe(client *Client, conv models.Conversation) {
	scope := conv.Scope()

	client.scopeMu.Lock()
	delete(client.scopes, scope)
	client.scopeMu.Unlock()

	h.unsubscribeScope(client, scope)
}

// unsubscribeScope, abonelik çıkışının ortak yolu (explicit unsubscribe +
// bağlantı kopması). Kullanıcının bu scope'taki SON bağlantısıysa
// presence_leave broadcast edilir ve last-seen kaydedilir.
func (h *Hub) unsubscribeScope(client *Client, scope string) {
	h.mu.Lock()
	if clients, ok := h.subs[scope]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.subs, scope)
		}
	}
	h.mu.Unlock()

	leftAt := time.Now()
	if last := h.presence.Leave(scope, client.userID, leftAt); last {
		// Yazarken bağlantı koptuysa typing durumu da temizlenmeli
		h.typing.StopTyping(scope, client.userID)

		h.BroadcastToScope(scope, Event{
			Op:   OpPresenceLeave,
			Data: PresenceLeaveData{Scope: scope, UserID: client.userID, LeftAt: leftAt},
		})
	}
}

// BroadcastToScope, bir scope'a abone tüm client'lara event gönderir.
func (h *Hub) BroadcastToScope(scope string, event Event) {
	data, ok := h.marshal(event)
	if !ok {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.subs[scope] {
		h.deliver(client, data)
	}
}

// BroadcastToScopeExcept, belirli bir kullanıcı hariç scope abonelerine gönderir.
// Typing indicator gibi durumlarda gönderen kişiye kendi event'i gitmez.
func (h *Hub) BroadcastToScopeExcept(excludeUserID, scope string, event Event) {
	data, ok := h.marshal(event)
	if !ok {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.subs[scope] {
		if client.userID == excludeUserID {
			continue
		}
		h.deliver(client, data)
	}
}

// BroadcastToUser, belirli bir kullanıcının tüm bağlantılarına event gönderir.
func (h *Hub) BroadcastToUser(userID string, event Event) {
	data, ok := h.marshal(event)
	if !ok {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients[userID] {
		h.deliver(client, data)
	}
}

// marshal, event'e seq numarası verir ve JSON'a çevirir.
func (h *Hub) marshal(event Event) ([]byte, bool) {
	event = h.stampValue(event)

	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[ws] failed to marshal event %s: %v", event.Op, err)
		return nil, false
	}
	metrics.WSEventsBroadcast.Inc()
	return data, true
}

// stamp / stampValue, outbound event'e artan seq numarası verir.
func (h *Hub) stamp(event Event) Event      { return h.stampValue(event) }
func (h *Hub) stampValue(event Event) Event {
	event.Seq = h.seq.Add(1)
	return event
}

// deliver, marshal edilmiş event'i tek bir client'ın buffer'ına yazar.
// Buffer doluysa client yavaş demektir — bağlantı kapatılır.
func (h *Hub) deliver(client *Client, data []byte) {
	select {
	case client.send <- data:
	default:
		go func(c *Client) { h.unregister <- c }(client)
	}
}

// broadcastTyping, TypingTracker'ın broadcast callback'i.
// Yazan kullanıcının kendisine typing event'i gitmez — bir kullanıcı
// kendi typing göstergesini asla görmez.
func (h *Hub) broadcastTyping(scope string, data TypingEventData) {
	h.BroadcastToScopeExcept(data.UserID, scope, Event{
		Op:   OpTypingUpdate,
		Data: data,
	})
}

// SetUserName, kullanıcı bağlandığında isim cache'ini günceller.
func (h *Hub) SetUserName(userID, name string) {
	h.nameMu.Lock()
	defer h.nameMu.Unlock()
	h.names[userID] = name
}

// getName, userID'den gösterim adını döner (presence/typing payload'ları için).
func (h *Hub) getName(userID string) string {
	h.nameMu.RLock()
	defer h.nameMu.RUnlock()
	return h.names[userID]
}

// Shutdown, tüm client bağlantılarını kapatır (graceful shutdown).
func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, clients := range h.clients {
		for client := range clients {
			close(client.send)
		}
	}
	h.clients = make(map[string]map[*Client]bool)
	h.subs = make(map[string]map[*Client]bool)
	log.Println("[ws] hub shut down, all connections closed")
}
