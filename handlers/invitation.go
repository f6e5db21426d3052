package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/eraydn/odak/models"
	"github.com/eraydn/odak/pkg"
	"github.com/eraydn/odak/services"
)

// InvitationHandler, grup daveti endpoint'leri.
type InvitationHandler struct {
	invitationService *services.InvitationService
}

func NewInvitationHandler(invitationService *services.InvitationService) *InvitationHandler {
	return &InvitationHandler{invitationService: invitationService}
}

// Create godoc
// POST /api/groups/{groupId}/invitations
func (h *InvitationHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	var req models.CreateInvitationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	invitation, err := h.invitationService.Create(r.Context(), user.ID, r.PathValue("groupId"), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, invitation)
}

// List godoc
// GET /api/groups/{groupId}/invitations
func (h *InvitationHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	invitations, err := h.invitationService.ListByGroup(r.Context(), user.ID, r.PathValue("groupId"))
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, invitations)
}

// Accept godoc
// POST /api/invitations/accept
//
// Süresi dolmuş davet 410 Gone döner; zaten kabul edilmiş davet 409.
func (h *InvitationHandler) Accept(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		pkg.ErrorWithMessage(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	var req models.AcceptInvitationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.invitationService.Accept(r.Context(), user.ID, req.InviteToken)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, result)
}
