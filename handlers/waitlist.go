package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/eraydn/odak/models"
	"github.com/eraydn/odak/pkg"
	"github.com/eraydn/odak/services"
)

// WaitlistHandler, bekleme listesi endpoint'leri. Auth gerektirmez —
// landing page'den anonim kayıt alınır.
type WaitlistHandler struct {
	waitlistService *services.WaitlistService
}

func NewWaitlistHandler(waitlistService *services.WaitlistService) *WaitlistHandler {
	return &WaitlistHandler{waitlistService: waitlistService}
}

// Join godoc
// POST /api/waitlist
//
// Idempotent: aynı email tekrar gelirse de başarı döner. Yanıt her iki
// durumda da aynıdır — email'in listede olup olmadığı dışarı sızmaz.
func (h *WaitlistHandler) Join(w http.ResponseWriter, r *http.Request) {
	var req models.JoinWaitlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.waitlistService.Join(r.Context(), &req); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"message": "you're on the list"})
}

// Count godoc
// GET /api/waitlist/count
func (h *WaitlistHandler) Count(w http.ResponseWriter, r *http.Request) {
	count, err := h.waitlistService.Count(r.Context())
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]int{"count": count})
}
