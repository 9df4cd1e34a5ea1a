package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/availability"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

// AvailabilityHandler serves teacher skills and weekly availability. Routes
// with a teacher {id} act on that teacher, the rest on the caller.
type AvailabilityHandler interface {
	GetAvailability(w http.ResponseWriter, r *http.Request)
	SetSkills(w http.ResponseWriter, r *http.Request)
	SetAvailability(w http.ResponseWriter, r *http.Request)
	ListOpenSlots(w http.ResponseWriter, r *http.Request)
}

type availabilityHandlerImpl struct {
	availabilityService availability.AvailabilityService
}

func NewAvailabilityHandler(availabilityService availability.AvailabilityService) AvailabilityHandler {
	return &availabilityHandlerImpl{availabilityService: availabilityService}
}

func targetTeacher(w http.ResponseWriter, r *http.Request) (string, bool) {
	if id := chi.URLParam(r, "id"); id != "" {
		return id, true
	}
	p, ok := principal(w, r)
	return p.UserID, ok
}

// GetAvailability implements AvailabilityHandler.
func (h *availabilityHandlerImpl) GetAvailability(w http.ResponseWriter, r *http.Request) {
	teacherID, ok := targetTeacher(w, r)
	if !ok {
		return
	}

	result, err := h.availabilityService.GetTeacherAvailability(r.Context(), teacherID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// SetSkills implements AvailabilityHandler.
func (h *availabilityHandlerImpl) SetSkills(w http.ResponseWriter, r *http.Request) {
	teacherID, ok := targetTeacher(w, r)
	if !ok {
		return
	}

	var req availability.SetSkillsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("SetSkills decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.TeacherID = teacherID

	if err := h.availabilityService.SetSkills(r.Context(), req); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Skills updated successfully", nil)
}

// SetAvailability implements AvailabilityHandler. The posted entries
// replace the teacher's whole weekly grid.
func (h *availabilityHandlerImpl) SetAvailability(w http.ResponseWriter, r *http.Request) {
	teacherID, ok := targetTeacher(w, r)
	if !ok {
		return
	}

	var req availability.SetAvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("SetAvailability decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.TeacherID = teacherID

	if err := h.availabilityService.SetAvailability(r.Context(), req); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Availability updated successfully", nil)
}

// ListOpenSlots implements AvailabilityHandler.
func (h *availabilityHandlerImpl) ListOpenSlots(w http.ResponseWriter, r *http.Request) {
	options, err := h.availabilityService.ListOpenSlots(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "classId"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, options)
}
