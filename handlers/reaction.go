package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/eraydn/odak/pkg"
	"github.com/eraydn/odak/services"
)

// ReactionHandler, emoji reaksiyon endpoint'i.
type ReactionHandler struct {
	reactionService *services.ReactionService
}

func NewReactionHandler(reactionService *services.ReactionService) *ReactionHandler {
	return &ReactionHandler{reactionService: reactionService}
}

type toggleReactionRequest struct {
	Emoji string `json:"emoji"`
}

// Toggle godoc
// POST /api/conversations/{scope}/messages/{messageId}/reactions
//
// Aynı emoji ikinci kez gönderilirse reaksiyon kaldırılır (toggle).
// Yanıt mesajın güncel reaksiyon gruplarıdır.
func (h *ReactionHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	conv, ok := parseScope(w, r)
	if !ok {
		return
	}

	var req toggleReactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	groups, err := h.reactionService.Toggle(r.Context(), user.ID, conv, r.PathValue("messageId"), req.Emoji)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, groups)
}
