package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/calendar"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/override"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type CalendarHandler interface {
	MyCalendar(w http.ResponseWriter, r *http.Request)
	TeacherCalendar(w http.ResponseWriter, r *http.Request)
	AttendanceSheet(w http.ResponseWriter, r *http.Request)
	MasterSchedule(w http.ResponseWriter, r *http.Request)

	CreateOverride(w http.ResponseWriter, r *http.Request)
	DeleteOverride(w http.ResponseWriter, r *http.Request)
	ListOverrides(w http.ResponseWriter, r *http.Request)
}

type calendarHandlerImpl struct {
	calendarService calendar.CalendarService
}

func NewCalendarHandler(calendarService calendar.CalendarService) CalendarHandler {
	return &calendarHandlerImpl{calendarService: calendarService}
}

func rangeQuery(r *http.Request) calendar.RangeQuery {
	return calendar.RangeQuery{
		From: r.URL.Query().Get("from"),
		To:   r.URL.Query().Get("to"),
	}
}

// MyCalendar implements CalendarHandler. Teachers get the sessions they
// effectively teach, students their own sessions.
func (h *calendarHandlerImpl) MyCalendar(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	from, to, err := rangeQuery(r).Parse()
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var occurrences []calendar.Occurrence
	switch p.Role {
	case user.RoleTeacher:
		occurrences, err = h.calendarService.TeacherCalendar(r.Context(), p.UserID, from, to)
	case user.RoleStudent:
		occurrences, err = h.calendarService.StudentCalendar(r.Context(), p.UserID, from, to)
	default:
		response.Forbidden(w, "Calendar is only available to teachers and students")
		return
	}
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, occurrences)
}

// TeacherCalendar implements CalendarHandler.
func (h *calendarHandlerImpl) TeacherCalendar(w http.ResponseWriter, r *http.Request) {
	from, to, err := rangeQuery(r).Parse()
	if err != nil {
		response.HandleError(w, err)
		return
	}

	occurrences, err := h.calendarService.TeacherCalendar(r.Context(), chi.URLParam(r, "id"), from, to)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, occurrences)
}

// AttendanceSheet implements CalendarHandler.
func (h *calendarHandlerImpl) AttendanceSheet(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var errs validator.ValidationErrors
	date, validDate := validator.IsValidDate(r.URL.Query().Get("date"))
	if !validDate {
		errs.Add("date", "date must use YYYY-MM-DD format")
	}
	slotID := r.URL.Query().Get("timeslot_id")
	if validator.IsEmpty(slotID) {
		errs.Add("timeslot_id", "timeslot_id is required")
	}
	if err := errs.Err(); err != nil {
		response.HandleError(w, err)
		return
	}

	sheet, err := h.calendarService.AttendanceSheet(r.Context(), p.UserID, date, slotID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, sheet)
}

// CreateOverride implements CalendarHandler. A second override for the same
// session replaces the first.
func (h *calendarHandlerImpl) CreateOverride(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req override.CreateOverrideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateOverride decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.calendarService.CreateOverride(r.Context(), p.UserID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Override saved successfully", result)
}

// MasterSchedule implements CalendarHandler.
func (h *calendarHandlerImpl) MasterSchedule(w http.ResponseWriter, r *http.Request) {
	grid, err := h.calendarService.MasterSchedule(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, grid)
}

// DeleteOverride implements CalendarHandler.
func (h *calendarHandlerImpl) DeleteOverride(w http.ResponseWriter, r *http.Request) {
	if err := h.calendarService.DeleteOverride(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Override deleted successfully", nil)
}

// ListOverrides implements CalendarHandler.
func (h *calendarHandlerImpl) ListOverrides(w http.ResponseWriter, r *http.Request) {
	from, to, err := rangeQuery(r).Parse()
	if err != nil {
		response.HandleError(w, err)
		return
	}

	overrides, err := h.calendarService.ListOverrides(r.Context(), from, to)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, overrides)
}
