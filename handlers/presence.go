package handlers

import (
	"net/http"

	"github.com/eraydn/odak/pkg"
	"github.com/eraydn/odak/services"
	"github.com/eraydn/odak/ws"
)

// PresenceHandler, presence REST endpoint'leri.
//
// Asıl presence akışı WebSocket üzerindendir (presence_sync/join/leave);
// buradaki endpoint'ler sayfa ilk açıldığında snapshot almak ve üye
// listesindeki "last seen" etiketleri için var.
type PresenceHandler struct {
	hub    *ws.Hub
	access *services.AccessChecker
}

func NewPresenceHandler(hub *ws.Hub, access *services.AccessChecker) *PresenceHandler {
	return &PresenceHandler{hub: hub, access: access}
}

// Snapshot godoc
// GET /api/conversations/{scope}/presence
func (h *PresenceHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	conv, ok := parseScope(w, r)
	if !ok {
		return
	}

	if err := h.access.Require(r.Context(), user.ID, conv); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, h.hub.Presence().Snapshot(conv.Scope()))
}

type lastSeenResponse struct {
	UserID string  `json:"user_id"`
	Online bool    `json:"online"`
	Label  *string `json:"label"` // Online ise nil
}

// LastSeen godoc
// GET /api/conversations/{scope}/presence/{userId}
func (h *PresenceHandler) LastSeen(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	conv, ok := parseScope(w, r)
	if !ok {
		return
	}

	if err := h.access.Require(r.Context(), user.ID, conv); err != nil {
		pkg.Error(w, err)
		return
	}

	targetID := r.PathValue("userId")
	scope := conv.Scope()
	pkg.JSON(w, http.StatusOK, lastSeenResponse{
		UserID: targetID,
		Online: h.hub.Presence().IsOnline(scope, targetID),
		Label:  h.hub.Presence().LastSeenLabel(scope, targetID),
	})
}
