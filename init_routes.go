// Package main — HTTP route registration.
//
// initRoutes, tüm API endpoint'lerini mux'a bağlar.
// Middleware chain helper'ı burada tanımlıdır:
//   - auth: JWT token doğrulaması
package main

import (
	"fmt"
	"net/http"

	"github.com/eraydn/odak/metrics"
	"github.com/eraydn/odak/middleware"
	"github.com/eraydn/odak/repository"
	"github.com/eraydn/odak/services"
	"github.com/eraydn/odak/static"
)

// initRoutes, middleware chain'i kurar ve tüm endpoint'leri mux'a bağlar.
//
// Route sıralama kuralı: Go 1.22+ ServeMux en spesifik pattern'ı seçer,
// bu yüzden ".../messages/pinned" ile ".../messages/{messageId}" çakışmaz.
func initRoutes(
	mux *http.ServeMux,
	h *Handlers,
	authService *services.AuthService,
	userRepo repository.UserRepository,
) {
	// ─── Middleware ───
	authMw := middleware.NewAuthMiddleware(authService, userRepo)

	auth := func(handler http.HandlerFunc) http.Handler {
		return authMw.Require(http.HandlerFunc(handler))
	}

	// ─── Public ───
	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"status":"ok","service":"odak"}`)
	})
	mux.Handle("GET /metrics", metrics.Handler())

	// Auth
	mux.HandleFunc("POST /api/auth/register", h.Auth.Register)
	mux.HandleFunc("POST /api/auth/login", h.Auth.Login)
	mux.HandleFunc("POST /api/auth/refresh", h.Auth.Refresh)
	mux.HandleFunc("POST /api/auth/logout", h.Auth.Logout)

	// Waitlist — landing page'den anonim erişim
	mux.HandleFunc("POST /api/waitlist", h.Waitlist.Join)
	mux.HandleFunc("GET /api/waitlist/count", h.Waitlist.Count)

	// WebSocket — token query parameter ile authenticate edilir.
	//
	// Neden auth middleware kullanmıyoruz?
	// WebSocket upgrade sırasında tarayıcılar custom HTTP header gönderemez.
	// Bu yüzden JWT token URL query parameter olarak gönderilir:
	//   ws://server/ws?token=JWT_TOKEN
	// WS handler kendi içinde token doğrulaması yapar.
	mux.HandleFunc("GET /ws", h.WS.HandleConnection)

	// ─── User ───
	mux.Handle("GET /api/users/me", auth(h.Auth.Me))
	mux.Handle("PATCH /api/users/me", auth(h.Auth.UpdateMe))

	// ─── Groups ───
	mux.Handle("POST /api/groups", auth(h.Group.Create))
	mux.Handle("GET /api/groups", auth(h.Group.List))
	mux.Handle("GET /api/groups/{groupId}", auth(h.Group.Get))
	mux.Handle("GET /api/groups/{groupId}/members", auth(h.Group.Members))
	mux.Handle("DELETE /api/groups/{groupId}/members/me", auth(h.Group.Leave))
	mux.Handle("GET /api/groups/{groupId}/events", auth(h.Group.Events))

	// ─── Invitations ───
	mux.Handle("POST /api/groups/{groupId}/invitations", auth(h.Invitation.Create))
	mux.Handle("GET /api/groups/{groupId}/invitations", auth(h.Invitation.List))
	mux.Handle("POST /api/invitations/accept", auth(h.Invitation.Accept))

	// ─── Side Threads ───
	mux.Handle("POST /api/groups/{groupId}/threads", auth(h.Thread.Create))
	mux.Handle("GET /api/groups/{groupId}/threads", auth(h.Thread.List))
	mux.Handle("GET /api/threads/{threadId}", auth(h.Thread.Get))
	mux.Handle("GET /api/threads/{threadId}/participants", auth(h.Thread.Participants))
	mux.Handle("POST /api/threads/{threadId}/participants", auth(h.Thread.AddParticipant))
	mux.Handle("DELETE /api/threads/{threadId}/participants/me", auth(h.Thread.Leave))
	mux.Handle("POST /api/threads/{threadId}/summarize", auth(h.Thread.Summarize))
	mux.Handle("POST /api/threads/{threadId}/ai/chat", auth(h.AI.Chat))

	// ─── Messages ───
	// {scope} = "group:<id>" veya "thread:<id>" — grup ve thread mesajları
	// aynı endpoint'lerden yönetilir.
	mux.Handle("GET /api/conversations/{scope}/messages", auth(h.Message.List))
	mux.Handle("POST /api/conversations/{scope}/messages", auth(h.Message.Send))
	mux.Handle("GET /api/conversations/{scope}/messages/pinned", auth(h.Message.Pinned))
	mux.Handle("PATCH /api/conversations/{scope}/messages/{messageId}", auth(h.Message.Edit))
	mux.Handle("DELETE /api/conversations/{scope}/messages/{messageId}", auth(h.Message.Delete))
	mux.Handle("POST /api/conversations/{scope}/messages/{messageId}/pin", auth(h.Message.Pin))
	mux.Handle("DELETE /api/conversations/{scope}/messages/{messageId}/pin", auth(h.Message.Unpin))

	// ─── Reactions & Receipts ───
	mux.Handle("POST /api/conversations/{scope}/messages/{messageId}/reactions", auth(h.Reaction.Toggle))
	mux.Handle("POST /api/conversations/{scope}/messages/{messageId}/read", auth(h.Receipt.Mark))
	mux.Handle("GET /api/conversations/{scope}/messages/{messageId}/reads", auth(h.Receipt.List))

	// ─── Unread ───
	mux.Handle("GET /api/unread", auth(h.Unread.Counts))
	mux.Handle("GET /api/conversations/{scope}/unread", auth(h.Unread.Count))
	mux.Handle("POST /api/conversations/{scope}/read", auth(h.Unread.MarkRead))

	// ─── Presence ───
	mux.Handle("GET /api/conversations/{scope}/presence", auth(h.Presence.Snapshot))
	mux.Handle("GET /api/conversations/{scope}/presence/{userId}", auth(h.Presence.LastSeen))

	// ─── Frontend ───
	// Gömülü SPA — "/api" ve "/ws" dışındaki her şey buraya düşer.
	mux.Handle("/", static.Handler())
}
