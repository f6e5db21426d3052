package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/eraydn/odak/models"
	"github.com/eraydn/odak/pkg"
	"github.com/eraydn/odak/services"
	"github.com/eraydn/odak/ws"
)

// GroupHandler, grup endpoint'leri.
type GroupHandler struct {
	groupService *services.GroupService
	feed         *ws.EventFeed
}

func NewGroupHandler(groupService *services.GroupService, feed *ws.EventFeed) *GroupHandler {
	return &GroupHandler{groupService: groupService, feed: feed}
}

// Create godoc
// POST /api/groups
func (h *GroupHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	var req models.CreateGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	group, err := h.groupService.Create(r.Context(), user.ID, &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, group)
}

// List godoc
// GET /api/groups
func (h *GroupHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	groups, err := h.groupService.List(r.Context(), user.ID)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, groups)
}

// Get godoc
// GET /api/groups/{groupId}
func (h *GroupHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	group, err := h.groupService.Get(r.Context(), user.ID, r.PathValue("groupId"))
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, group)
}

// Members godoc
// GET /api/groups/{groupId}/members
func (h *GroupHandler) Members(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	members, err := h.groupService.Members(r.Context(), user.ID, r.PathValue("groupId"))
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, members)
}

// Leave godoc
// DELETE /api/groups/{groupId}/members/me
func (h *GroupHandler) Leave(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	if err := h.groupService.Leave(r.Context(), user.ID, r.PathValue("groupId")); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"message": "left group"})
}

// Events godoc
// GET /api/groups/{groupId}/events
//
// Grubun aktivite şeridi: thread açılmaları, üye katılma/ayrılmaları.
// Timestamp'e göre sıralı döner.
func (h *GroupHandler) Events(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	groupID := r.PathValue("groupId")

	// Üyelik kontrolü Get üzerinden — üye olmayan şeridi göremez
	if _, err := h.groupService.Get(r.Context(), user.ID, groupID); err != nil {
		pkg.Error(w, err)
		return
	}

	scope := models.Conversation{Type: models.ConversationGroup, ID: groupID}.Scope()
	pkg.JSON(w, http.StatusOK, h.feed.Events(scope))
}
