// Package ws, WebSocket bağlantı yönetimi ve gerçek zamanlı event dağıtımını sağlar.
//
// Mimari:
// - Hub: Tüm bağlantıları ve scope aboneliklerini yöneten merkezi yapı
// - Client: Her WebSocket bağlantısını temsil eder
// - PresenceTracker: Scope başına "kim online" kümesi + last-seen kayıtları
// - TypingTracker: Scope başına "kim yazıyor" kümesi, 3 saniyelik auto-expiry
// - EventFeed: Yapısal olaylar (thread açıldı, üye katıldı/ayrıldı) listesi
//
// Kanal isimlendirmesi frontend kontratıyla aynıdır:
// presence ve typing event'leri "group:<id>" / "thread:<id>" scope'una göre
// dağıtılır; bir client sadece abone olduğu scope'ların event'lerini alır.
//
// Event akışı:
// 1. Kullanıcı mesaj gönderir → HTTP POST → Service → DB kayıt
// 2. Service, Hub'ın BroadcastToScope metodunu çağırır
// 3. Hub, event'i scope'a abone tüm client'lara iletir
// 4. Her client'ın WritePump'ı event'i WebSocket'e yazar
package ws

import (
	"time"

	"github.com/eraydn/odak/models"
)

// Event, WebSocket üzerinden iletilen bir mesajı temsil eder.
//
// Op (operation): Event türü — "message_create", "heartbeat" vb.
// Data: Event'e özgü payload — mesaj objesi, presence bilgisi vb.
// Seq (sequence number): Her outbound event'e verilen artan sayı.
//   Frontend eksik event tespit etmek için seq'i takip eder.
type Event struct {
	Op   string `json:"op"`
	Data any    `json:"d,omitempty"`
	Seq  int64  `json:"seq,omitempty"`
}

// Client → Server operasyonları
const (
	OpHeartbeat   = "heartbeat"   // Client her 30sn'de gönderir — "hâlâ bağlıyım" sinyali
	OpSubscribe   = "subscribe"   // Bir conversation scope'una abone ol (presence track dahil)
	OpUnsubscribe = "unsubscribe" // Scope aboneliğini bırak
	OpTypingStart = "typing_start" // Kullanıcı yazmaya başladı (her tuş vuruşunda tekrar gönderilebilir)
	OpTypingStop  = "typing_stop"  // Kullanıcı yazmayı bıraktı (input temizlendi / blur)
)

// Server → Client operasyonları
const (
	OpReady        = "ready"         // Bağlantı kurulduğunda ilk gönderilen
	OpHeartbeatAck = "heartbeat_ack" // Heartbeat'e yanıt — "seni duydum"

	// Presence — presence:<scope> kanalı
	OpPresenceSync  = "presence_sync"  // Tam durum: scope'taki TÜM online kullanıcılar (replace, merge değil)
	OpPresenceJoin  = "presence_join"  // Delta: bir kullanıcı online oldu
	OpPresenceLeave = "presence_leave" // Delta: bir kullanıcı offline oldu

	// Typing — typing:<scope> kanalı
	OpTypingUpdate = "typing_update" // Bir kullanıcının typing durumu değişti

	// Mesaj operasyonları — scope'a abone client'lara gider
	OpMessageCreate = "message_create"
	OpMessageUpdate = "message_update"
	OpMessageDelete = "message_delete"
	OpMessagePin    = "message_pin"
	OpMessageUnpin  = "message_unpin"

	// Reaction / read receipt
	OpReactionUpdate = "reaction_update" // Mesajın reaction listesi değişti — tam liste gönderilir
	OpReceiptCreate  = "receipt_create"  // Yeni read receipt eklendi

	// AI streaming — asistan yanıtı chunk chunk büyür
	OpAIStreamDelta = "ai_stream_delta"

	// Yapısal olaylar (system event feed)
	OpSystemEvent = "system_event"
)

// System event tipleri (SystemEventData.Type).
const (
	SystemEventThreadCreate = "thread_create"
	SystemEventMemberJoin   = "member_join"
	SystemEventMemberLeave  = "member_leave"
)

// ReadyData, bağlantı kurulduğunda client'a gönderilen ilk event'in payload'ı.
type ReadyData struct {
	UserID string `json:"user_id"`
}

// SubscribeData, subscribe/unsubscribe op'larının Client → Server payload'ı.
// Scope formatı: "group:<id>" veya "thread:<id>".
type SubscribeData struct {
	Scope string `json:"scope"`
}

// PresenceEntry, scope'taki tek bir online kullanıcı.
// Client presence kanalına katılırken kendini bu payload ile duyurur;
// OnlineAt bağlantının track edildiği an.
type PresenceEntry struct {
	UserID   string    `json:"user_id"`
	Name     string    `json:"name"`
	OnlineAt time.Time `json:"online_at"`
}

// PresenceSyncData, presence_sync event'inin payload'ı.
// Alıcı scope'un online kümesini bu listeyle SIFIRDAN kurar (replace) —
// merge edilirse kopan bağlantılardan kalan stale entry'ler temizlenmez.
type PresenceSyncData struct {
	Scope   string          `json:"scope"`
	Entries []PresenceEntry `json:"entries"`
}

// PresenceJoinData, presence_join event'inin payload'ı.
type PresenceJoinData struct {
	Scope string        `json:"scope"`
	Entry PresenceEntry `json:"entry"`
}

// PresenceLeaveData, presence_leave event'inin payload'ı.
// LeftAt, diğer client'ların "last seen" göstergesi için kaydettiği an.
type PresenceLeaveData struct {
	Scope  string    `json:"scope"`
	UserID string    `json:"user_id"`
	LeftAt time.Time `json:"left_at"`
}

// TypingEventData, typing_start/stop (Client → Server) ve
// typing_update (Server → Client) payload'ı.
// Server → Client yönünde IsTyping false olduğunda kullanıcı listeden çıkarılır.
type TypingEventData struct {
	Scope    string `json:"scope"`
	UserID   string `json:"user_id,omitempty"`
	Name     string `json:"name,omitempty"`
	IsTyping bool   `json:"is_typing"`
}

// MessageEventData, message_* event'lerinin payload'ı.
// Delete için Message nil'dir, sadece MessageID dolu gelir.
type MessageEventData struct {
	Scope     string          `json:"scope"`
	MessageID string          `json:"message_id"`
	Message   *models.Message `json:"message,omitempty"`
}

// ReactionUpdateData, reaction_update event'inin payload'ı.
//
// Reactions listesi viewer'dan bağımsızdır (HasReacted her alıcı için ayrı
// hesaplanamaz — broadcast tek seferde gider). Client kendi user ID'sini
// Users listesinde arayarak has_reacted'ı kendisi türetir.
type ReactionUpdateData struct {
	Scope           string                 `json:"scope"`
	MessageID       string                 `json:"message_id"`
	Reactions       []models.ReactionGroup `json:"reactions"`
	ActorID         string                 `json:"actor_id"`
	MessageAuthorID string                 `json:"message_author_id"`
	Added           bool                   `json:"added"`
}

// ReceiptCreateData, receipt_create event'inin payload'ı.
type ReceiptCreateData struct {
	Scope   string             `json:"scope"`
	Receipt models.ReadReceipt `json:"receipt"`
}

// AIStreamDeltaData, ai_stream_delta event'inin payload'ı.
// MessageID stream başlamadan önce üretilir — client boş bir "düşünüyor"
// balonunu ilk byte gelmeden render edebilir. Done true olduğunda
// mesaj kalıcılaşmıştır, delta artık gelmez.
type AIStreamDeltaData struct {
	Scope     string `json:"scope"`
	MessageID string `json:"message_id"`
	Delta     string `json:"delta,omitempty"`
	Done      bool   `json:"done,omitempty"`
}

// SystemEventData, system_event payload'ı ve EventFeed'in sakladığı kayıt.
//
// Timestamp event'in server'da oluştuğu andır — farklı kanallardan gelen
// event'ler arasında varış sırası garanti edilmediği için, render eden
// taraf varış sırasına değil bu timestamp'e göre sıralar.
type SystemEventData struct {
	ID        string    `json:"id"`
	Scope     string    `json:"scope"`
	Type      string    `json:"type"`
	ActorID   string    `json:"actor_id"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}
