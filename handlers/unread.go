package handlers

import (
	"net/http"

	"github.com/eraydn/odak/pkg"
	"github.com/eraydn/odak/services"
)

// UnreadHandler, okunmamış sayacı endpoint'leri.
type UnreadHandler struct {
	unreadService *services.UnreadService
}

func NewUnreadHandler(unreadService *services.UnreadService) *UnreadHandler {
	return &UnreadHandler{unreadService: unreadService}
}

// Counts godoc
// GET /api/unread
//
// Kullanıcının erişebildiği tüm conversation'ların sayaçları tek istekte.
// Sidebar ilk yüklemede bunu çağırır.
func (h *UnreadHandler) Counts(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	counts, err := h.unreadService.Counts(r.Context(), user.ID)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, counts)
}

// Count godoc
// GET /api/conversations/{scope}/unread
func (h *UnreadHandler) Count(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	conv, ok := parseScope(w, r)
	if !ok {
		return
	}

	info, err := h.unreadService.Count(r.Context(), user.ID, conv)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, info)
}

// MarkRead godoc
// POST /api/conversations/{scope}/read
//
// Conversation'ın watermark'ını şimdiki zamana çeker — sayaç sıfırlanır.
func (h *UnreadHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	conv, ok := parseScope(w, r)
	if !ok {
		return
	}

	if err := h.unreadService.MarkRead(r.Context(), user.ID, conv); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"message": "marked as read"})
}
