// Package main — Handler katmanı başlatma.
//
// initHandlers, tüm HTTP handler'larını oluşturur.
// Handler'lar "thin"dir — sadece HTTP parse + service call + response write.
package main

import (
	"github.com/eraydn/odak/handlers"
	"github.com/eraydn/odak/ws"
)

// Handlers, tüm handler instance'larını tutan container struct.
type Handlers struct {
	Auth       *handlers.AuthHandler
	Group      *handlers.GroupHandler
	Thread     *handlers.ThreadHandler
	Message    *handlers.MessageHandler
	Reaction   *handlers.ReactionHandler
	Receipt    *handlers.ReceiptHandler
	Unread     *handlers.UnreadHandler
	Presence   *handlers.PresenceHandler
	Invitation *handlers.InvitationHandler
	Waitlist   *handlers.WaitlistHandler
	AI         *handlers.AIHandler
	WS         *ws.Handler
}

// initHandlers, tüm handler'ları service ve rate limiter dependency'leri ile oluşturur.
func initHandlers(svcs *Services, limiters *RateLimiters, hub *ws.Hub, feed *ws.EventFeed) *Handlers {
	return &Handlers{
		Auth:       handlers.NewAuthHandler(svcs.Auth, limiters.Login),
		Group:      handlers.NewGroupHandler(svcs.Group, feed),
		Thread:     handlers.NewThreadHandler(svcs.Thread),
		Message:    handlers.NewMessageHandler(svcs.Message, limiters.Message),
		Reaction:   handlers.NewReactionHandler(svcs.Reaction),
		Receipt:    handlers.NewReceiptHandler(svcs.Receipt),
		Unread:     handlers.NewUnreadHandler(svcs.Unread),
		Presence:   handlers.NewPresenceHandler(hub, svcs.Access),
		Invitation: handlers.NewInvitationHandler(svcs.Invitation),
		Waitlist:   handlers.NewWaitlistHandler(svcs.Waitlist),
		AI:         handlers.NewAIHandler(svcs.AI),
		WS:         ws.NewHandler(hub, svcs.Auth),
	}
}
