package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/invitation"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type InvitationHandler interface {
	// Public endpoint - view invitation details
	GetInvitationByToken(w http.ResponseWriter, r *http.Request)
	// Admin endpoints
	InviteStudent(w http.ResponseWriter, r *http.Request)
	Resend(w http.ResponseWriter, r *http.Request)
}

type invitationHandlerImpl struct {
	invitationService invitation.InvitationService
}

func NewInvitationHandler(invitationService invitation.InvitationService) InvitationHandler {
	return &invitationHandlerImpl{
		invitationService: invitationService,
	}
}

// GetInvitationByToken implements InvitationHandler - public endpoint
func (h *invitationHandlerImpl) GetInvitationByToken(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if token == "" {
		response.BadRequest(w, "Token is required", nil)
		return
	}

	result, err := h.invitationService.GetByToken(r.Context(), token)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// InviteStudent implements InvitationHandler.
func (h *invitationHandlerImpl) InviteStudent(w http.ResponseWriter, r *http.Request) {
	var req invitation.InviteStudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("InviteStudent decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.invitationService.InviteStudent(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Invitation sent successfully", result)
}

// Resend implements InvitationHandler.
func (h *invitationHandlerImpl) Resend(w http.ResponseWriter, r *http.Request) {
	if err := h.invitationService.Resend(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Invitation resent successfully", nil)
}
