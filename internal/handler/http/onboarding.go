package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/onboarding"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

// OnboardingHandler serves the student scheduling wizard.
type OnboardingHandler interface {
	GetWizard(w http.ResponseWriter, r *http.Request)
	PickSlot(w http.ResponseWriter, r *http.Request)
	FirstClassDateOptions(w http.ResponseWriter, r *http.Request)
	SetFirstClassDate(w http.ResponseWriter, r *http.Request)
	RemoveWeeklySchedule(w http.ResponseWriter, r *http.Request)
}

type onboardingHandlerImpl struct {
	onboardingService onboarding.OnboardingService
}

func NewOnboardingHandler(onboardingService onboarding.OnboardingService) OnboardingHandler {
	return &onboardingHandlerImpl{onboardingService: onboardingService}
}

// GetWizard implements OnboardingHandler.
func (h *onboardingHandlerImpl) GetWizard(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	state, err := h.onboardingService.GetWizard(r.Context(), p.UserID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, state)
}

// PickSlot implements OnboardingHandler.
func (h *onboardingHandlerImpl) PickSlot(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req onboarding.PickSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("PickSlot decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	state, err := h.onboardingService.PickSlot(r.Context(), p.UserID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Slot picked successfully", state)
}

// FirstClassDateOptions implements OnboardingHandler.
func (h *onboardingHandlerImpl) FirstClassDateOptions(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	options, err := h.onboardingService.FirstClassDateOptions(r.Context(), p.UserID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, options)
}

// SetFirstClassDate implements OnboardingHandler.
func (h *onboardingHandlerImpl) SetFirstClassDate(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req onboarding.SetFirstClassDateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("SetFirstClassDate decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.onboardingService.SetFirstClassDate(r.Context(), p.UserID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "First class date set successfully", result)
}

// RemoveWeeklySchedule implements OnboardingHandler.
func (h *onboardingHandlerImpl) RemoveWeeklySchedule(w http.ResponseWriter, r *http.Request) {
	removed, err := h.onboardingService.RemoveWeeklySchedule(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Weekly schedule removed, the student will pick a new slot", map[string]int{
		"bookings_removed": removed,
	})
}
