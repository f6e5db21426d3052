package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/eraydn/odak/models"
	"github.com/eraydn/odak/pkg"
	"github.com/eraydn/odak/services"
)

// ThreadHandler, side thread endpoint'leri.
type ThreadHandler struct {
	threadService *services.ThreadService
}

func NewThreadHandler(threadService *services.ThreadService) *ThreadHandler {
	return &ThreadHandler{threadService: threadService}
}

// Create godoc
// POST /api/groups/{groupId}/threads
func (h *ThreadHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	var req models.CreateThreadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	thread, err := h.threadService.Create(r.Context(), user.ID, r.PathValue("groupId"), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, thread)
}

// List godoc
// GET /api/groups/{groupId}/threads
//
// Sadece istek sahibinin katılımcısı olduğu thread'ler döner —
// görünürlük katılımcılıkla sınırlıdır.
func (h *ThreadHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	threads, err := h.threadService.List(r.Context(), user.ID, r.PathValue("groupId"))
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, threads)
}

// Get godoc
// GET /api/threads/{threadId}
func (h *ThreadHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	thread, err := h.threadService.Get(r.Context(), user.ID, r.PathValue("threadId"))
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, thread)
}

// Participants godoc
// GET /api/threads/{threadId}/participants
func (h *ThreadHandler) Participants(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	participants, err := h.threadService.Participants(r.Context(), user.ID, r.PathValue("threadId"))
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, participants)
}

type addParticipantRequest struct {
	UserID string `json:"user_id"`
}

// AddParticipant godoc
// POST /api/threads/{threadId}/participants
func (h *ThreadHandler) AddParticipant(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	var req addParticipantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "user_id is required")
		return
	}

	if err := h.threadService.AddParticipant(r.Context(), user.ID, r.PathValue("threadId"), req.UserID); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"message": "participant added"})
}

// Leave godoc
// DELETE /api/threads/{threadId}/participants/me
func (h *ThreadHandler) Leave(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	if err := h.threadService.Leave(r.Context(), user.ID, r.PathValue("threadId")); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"message": "left thread"})
}

// Summarize godoc
// POST /api/threads/{threadId}/summarize
//
// Thread konuşmasını AI'ya özetletir ve sonucu ana gruba mesaj olarak atar.
// Senkron çalışır — özet hazır olana kadar istek bekler.
func (h *ThreadHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	result, err := h.threadService.SummarizeToGroup(r.Context(), user.ID, r.PathValue("threadId"))
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, result)
}
