package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/eraydn/odak/pkg"
	"github.com/eraydn/odak/services"
)

// AIHandler, thread içi AI asistan endpoint'i.
type AIHandler struct {
	aiService *services.AIService
}

func NewAIHandler(aiService *services.AIService) *AIHandler {
	return &AIHandler{aiService: aiService}
}

type aiChatRequest struct {
	Prompt string `json:"prompt"`
}

// Chat godoc
// POST /api/threads/{threadId}/ai/chat
//
// Prompt thread'e normal mesaj olarak kaydedilir, AI yanıtı token token
// WebSocket'ten (ai_stream_delta) akar. HTTP yanıtı tamamlanmış yanıt
// mesajıdır — WS bağlantısı olmayan istemci de sonucu alabilsin diye.
func (h *AIHandler) Chat(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	var req aiChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Prompt = strings.TrimSpace(req.Prompt)
	if req.Prompt == "" {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "prompt is required")
		return
	}
	if utf8.RuneCountInString(req.Prompt) > 4000 {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "prompt must be at most 4000 characters")
		return
	}

	message, err := h.aiService.Chat(r.Context(), user.ID, r.PathValue("threadId"), req.Prompt)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, message)
}
