package ws

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/eraydn/odak/models"
)

// TokenValidator, WebSocket auth için token doğrulama interface'i.
// AuthService bu interface'i sağlar — ws paketi services'i import etmez.
type TokenValidator interface {
	ValidateAccessToken(token string) (*models.TokenClaims, error)
}

// Handler, HTTP isteklerini WebSocket bağlantısına yükseltir.
type Handler struct {
	hub       *Hub
	validator TokenValidator
	upgrader  websocket.Upgrader
}

func NewHandler(hub *Hub, validator TokenValidator) *Handler {
	return &Handler{
		hub:       hub,
		validator: validator,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Origin kontrolü CORS middleware'de yapılır; WebSocket
			// handshake'i token ile yetkilendirilir.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// HandleConnection, GET /ws?token=<access_token> isteğini karşılar.
//
// Token neden query parameter'da?
// Tarayıcı WebSocket API'si custom header göndermeye izin vermez —
// Authorization header'ı kullanılamaz.
func (h *Handler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	claims, err := h.validator.ValidateAccessToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade hatası yanıtı kendisi yazar, sadece logla
		log.Printf("[ws] upgrade failed for user=%s: %v", claims.UserID, err)
		return
	}

	client := &Client{
		hub:    h.hub,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
		userID: claims.UserID,
		name:   claims.Username,
		scopes: make(map[string]bool),
	}

	h.hub.SetUserName(claims.UserID, claims.Username)
	h.hub.register <- client

	go client.WritePump()
	go client.ReadPump()

	client.sendEvent(Event{Op: OpReady, Data: ReadyData{UserID: claims.UserID}})
}
