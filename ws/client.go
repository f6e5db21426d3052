package ws

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/eraydn/odak/models"
)

const (
	// writeWait: Tek bir yazma işleminin tamamlanması için tanınan süre.
	writeWait = 10 * time.Second

	// heartbeatWait: Client bu süre içinde heartbeat göndermezse bağlantı ölü sayılır.
	// Client 30 saniyede bir gönderir — 90 saniye, iki kaçırılmış heartbeat toleransı.
	heartbeatWait = 90 * time.Second

	// maxMessageSize: Client'tan kabul edilen maksimum frame boyutu.
	// Mesaj içeriği HTTP'den gider; WebSocket'te sadece küçük kontrol
	// payload'ları akar, 4KB fazlasıyla yeter.
	maxMessageSize = 4096

	// sendBufferSize: Client başına outbound event buffer'ı.
	// Buffer dolarsa client yavaş demektir ve bağlantısı kesilir.
	sendBufferSize = 256
)

// Client, tek bir WebSocket bağlantısını temsil eder.
// Bir kullanıcının birden fazla Client'ı olabilir (her tab için bir tane).
type Client struct {
	hub  *Hub
	conn *websocket.Conn

	// send: Hub'dan bu client'a gidecek marshal edilmiş event'ler.
	// Buffered — Hub broadcast yaparken yavaş bir client diğerlerini bekletmez.
	send chan []byte

	userID string
	name   string

	// scopes: Bu bağlantının abone olduğu scope'lar.
	// Bağlantı koptuğunda hepsinden presence düşürülür.
	scopes  map[string]bool
	scopeMu sync.Mutex

	// writeMu: gorilla/websocket aynı anda tek writer'a izin verir.
	writeMu sync.Mutex
}

// inboundEvent, client'tan gelen ham event.
// Data, op'a göre farklı tiplere parse edildiği için RawMessage olarak bekletilir.
type inboundEvent struct {
	Op   string          `json:"op"`
	Data json.RawMessage `json:"d"`
}

// ReadPump, client'tan gelen mesajları okur. Her bağlantı için bir goroutine.
// Döngü bittiğinde (bağlantı koptu / hata) client Hub'dan çıkarılır.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(heartbeatWait))

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[ws] unexpected close: user=%s err=%v", c.userID, err)
			}
			break
		}

		var event inboundEvent
		if err := json.Unmarshal(data, &event); err != nil {
			log.Printf("[ws] invalid event from user=%s: %v", c.userID, err)
			continue
		}

		c.handleEvent(event)
	}
}

// handleEvent, client'tan gelen tek bir event'i işler.
func (c *Client) handleEvent(event inboundEvent) {
	switch event.Op {
	case OpHeartbeat:
		// Heartbeat = "hâlâ buradayım". Deadline ileri alınır, ack dönülür.
		c.conn.SetReadDeadline(time.Now().Add(heartbeatWait))
		c.sendEvent(Event{Op: OpHeartbeatAck})

	case OpSubscribe:
		conv, ok := c.parseScope(event.Data)
		if !ok {
			return
		}
		// Authorize callback DB'ye gidebilir — read loop'u bloklamamak için
		// abonelik ayrı goroutine'de kurulur.
		go c.hub.Subscribe(c, conv)

	case OpUnsubscribe:
		conv, ok := c.parseScope(event.Data)
		if !ok {
			return
		}
		c.hub.Unsubscribe(c, conv)

	case OpTypingStart:
		conv, ok := c.parseScope(event.Data)
		if ok && c.subscribed(conv.Scope()) {
			c.hub.typing.StartTyping(conv.Scope(), c.userID, c.name)
		}

	case OpTypingStop:
		conv, ok := c.parseScope(event.Data)
		if ok && c.subscribed(conv.Scope()) {
			c.hub.typing.StopTyping(conv.Scope(), c.userID)
		}

	default:
		log.Printf("[ws] unknown op from user=%s: %s", c.userID, event.Op)
	}
}

// parseScope, payload'daki scope string'ini doğrulayıp Conversation'a çevirir.
func (c *Client) parseScope(data json.RawMessage) (models.Conversation, bool) {
	var payload SubscribeData
	if err := json.Unmarshal(data, &payload); err != nil {
		log.Printf("[ws] invalid scope payload from user=%s: %v", c.userID, err)
		return models.Conversation{}, false
	}
	conv, err := models.ParseScope(payload.Scope)
	if err != nil {
		log.Printf("[ws] bad scope %q from user=%s: %v", payload.Scope, c.userID, err)
		return models.Conversation{}, false
	}
	return conv, true
}

// subscribed, bağlantının scope'a abone olup olmadığını söyler.
// Typing event'leri yalnızca abone olunan scope'lar için kabul edilir.
func (c *Client) subscribed(scope string) bool {
	c.scopeMu.Lock()
	defer c.scopeMu.Unlock()
	return c.scopes[scope]
}

// WritePump, send channel'ından gelen event'leri bağlantıya yazar.
// Her bağlantı için bir goroutine — gorilla/websocket tek concurrent
// writer'a izin verdiği için tüm yazmalar buradan geçer.
func (c *Client) WritePump() {
	defer c.conn.Close()

	for data := range c.send {
		if err := c.writeMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}

	// Channel kapandı — Hub bağlantıyı bıraktı, client'a nazikçe haber ver.
	c.writeMessage(websocket.CloseMessage, []byte{})
}

// sendEvent, tek bir client'a event gönderir (broadcast dışı, hedefli).
func (c *Client) sendEvent(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[ws] failed to marshal event %s: %v", event.Op, err)
		return
	}

	select {
	case c.send <- data:
	default:
		// Buffer dolu — client tüketemiyor, Hub bağlantıyı kapatacak.
		go func() { c.hub.unregister <- c }()
	}
}

// writeMessage, write deadline ve mutex ile korunan tek yazma noktası.
func (c *Client) writeMessage(messageType int, data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(messageType, data)
}
