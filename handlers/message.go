package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/eraydn/odak/models"
	"github.com/eraydn/odak/pkg"
	"github.com/eraydn/odak/pkg/ratelimit"
	"github.com/eraydn/odak/services"
)

// MessageHandler, mesaj endpoint'leri. Hem grup hem thread mesajları
// aynı handler'dan geçer — {scope} parametresi hangisi olduğunu söyler.
type MessageHandler struct {
	messageService *services.MessageService
	sendLimiter    *ratelimit.MessageRateLimiter
}

func NewMessageHandler(messageService *services.MessageService, sendLimiter *ratelimit.MessageRateLimiter) *MessageHandler {
	return &MessageHandler{messageService: messageService, sendLimiter: sendLimiter}
}

// List godoc
// GET /api/conversations/{scope}/messages?before=<messageId>&limit=<n>
//
// Cursor-based pagination: "before" verilirse o mesajdan eski mesajlar döner.
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	conv, ok := parseScope(w, r)
	if !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			pkg.ErrorWithMessage(w, http.StatusBadRequest, "limit must be a number")
			return
		}
		limit = parsed
	}

	page, err := h.messageService.List(r.Context(), user.ID, conv, r.URL.Query().Get("before"), limit)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, page)
}

// Send godoc
// POST /api/conversations/{scope}/messages
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	conv, ok := parseScope(w, r)
	if !ok {
		return
	}

	// Spam koruması: pencere başına mesaj limiti, aşınca cooldown
	if !h.sendLimiter.Allow(user.ID) {
		seconds := h.sendLimiter.CooldownSeconds(user.ID)
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
		log.Printf("[message] rate limit hit: user=%s scope=%s", user.ID, conv.Scope())
		pkg.ErrorWithMessage(w, http.StatusTooManyRequests, "you are sending messages too fast, slow down")
		return
	}

	var req models.CreateMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	message, err := h.messageService.Send(r.Context(), user.ID, conv, &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, message)
}

// Edit godoc
// PATCH /api/conversations/{scope}/messages/{messageId}
func (h *MessageHandler) Edit(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	conv, ok := parseScope(w, r)
	if !ok {
		return
	}

	var req models.UpdateMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	message, err := h.messageService.Edit(r.Context(), user.ID, conv, r.PathValue("messageId"), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, message)
}

// Delete godoc
// DELETE /api/conversations/{scope}/messages/{messageId}
func (h *MessageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	conv, ok := parseScope(w, r)
	if !ok {
		return
	}

	if err := h.messageService.Delete(r.Context(), user.ID, conv, r.PathValue("messageId")); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"message": "message deleted"})
}

// Pin godoc
// POST /api/conversations/{scope}/messages/{messageId}/pin
func (h *MessageHandler) Pin(w http.ResponseWriter, r *http.Request) {
	h.setPinned(w, r, true)
}

// Unpin godoc
// DELETE /api/conversations/{scope}/messages/{messageId}/pin
func (h *MessageHandler) Unpin(w http.ResponseWriter, r *http.Request) {
	h.setPinned(w, r, false)
}

func (h *MessageHandler) setPinned(w http.ResponseWriter, r *http.Request, pinned bool) {
	user, ok := currentUser(r)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	conv, ok := parseScope(w, r)
	if !ok {
		return
	}

	message, err := h.messageService.SetPinned(r.Context(), user.ID, conv, r.PathValue("messageId"), pinned)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, message)
}

// Pinned godoc
// GET /api/conversations/{scope}/messages/pinned
func (h *MessageHandler) Pinned(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	conv, ok := parseScope(w, r)
	if !ok {
		return
	}

	messages, err := h.messageService.Pinned(r.Context(), user.ID, conv)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, messages)
}
