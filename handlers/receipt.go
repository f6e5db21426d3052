package handlers

import (
	"net/http"

	"github.com/eraydn/odak/pkg"
	"github.com/eraydn/odak/services"
)

// ReceiptHandler, okundu bilgisi endpoint'leri.
type ReceiptHandler struct {
	receiptService *services.ReceiptService
}

func NewReceiptHandler(receiptService *services.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService}
}

// Mark godoc
// POST /api/conversations/{scope}/messages/{messageId}/read
//
// Idempotent: aynı mesaj ikinci kez işaretlenirse ilk read_at korunur.
func (h *ReceiptHandler) Mark(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	conv, ok := parseScope(w, r)
	if !ok {
		return
	}

	receipt, err := h.receiptService.Mark(r.Context(), user.ID, conv, r.PathValue("messageId"))
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, receipt)
}

// List godoc
// GET /api/conversations/{scope}/messages/{messageId}/reads
func (h *ReceiptHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	conv, ok := parseScope(w, r)
	if !ok {
		return
	}

	receipts, err := h.receiptService.ListByMessage(r.Context(), user.ID, conv, r.PathValue("messageId"))
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, receipts)
}
