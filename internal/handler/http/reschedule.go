package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/reschedule"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type RescheduleHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
}

type rescheduleHandlerImpl struct {
	rescheduleService reschedule.RescheduleService
}

func NewRescheduleHandler(rescheduleService reschedule.RescheduleService) RescheduleHandler {
	return &rescheduleHandlerImpl{rescheduleService: rescheduleService}
}

// Create implements RescheduleHandler.
func (h *rescheduleHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req reschedule.CreateRescheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Reschedule decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.rescheduleService.Create(r.Context(), reschedule.Actor{ID: p.UserID, Role: p.Role}, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Reschedule request submitted", result)
}

// List implements RescheduleHandler. Non-admins only see what they requested.
func (h *rescheduleHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var filter reschedule.Filter
	if status := r.URL.Query().Get("status"); status != "" {
		s := reschedule.Status(status)
		if s != reschedule.StatusPending && s != reschedule.StatusApproved && s != reschedule.StatusRejected {
			response.BadRequest(w, "status must be one of: pending, approved, rejected", nil)
			return
		}
		filter.Status = &s
	}
	if p.Role != user.RoleAdmin {
		filter.RequestedBy = p.UserID
	}

	requests, err := h.rescheduleService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, requests)
}

// Approve implements RescheduleHandler.
func (h *rescheduleHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	result, err := h.rescheduleService.Approve(r.Context(), p.UserID, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Reschedule approved", result)
}

// Reject implements RescheduleHandler.
func (h *rescheduleHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req reschedule.RejectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Reschedule reject decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.rescheduleService.Reject(r.Context(), p.UserID, chi.URLParam(r, "id"), req.Reason)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Reschedule rejected", result)
}
