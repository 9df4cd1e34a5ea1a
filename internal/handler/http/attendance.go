package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/booking"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	// Teacher endpoints
	SubmitAttendance(w http.ResponseWriter, r *http.Request)
	RequestLateAttendance(w http.ResponseWriter, r *http.Request)
	// Student endpoints
	RequestIzin(w http.ResponseWriter, r *http.Request)
	ListMyBookings(w http.ResponseWriter, r *http.Request)
	// Admin endpoints
	ListAttendanceRequests(w http.ResponseWriter, r *http.Request)
	ApproveLateAttendance(w http.ResponseWriter, r *http.Request)
	RejectLateAttendance(w http.ResponseWriter, r *http.Request)
	ListBookings(w http.ResponseWriter, r *http.Request)
	CreateManualBooking(w http.ResponseWriter, r *http.Request)
	CancelBooking(w http.ResponseWriter, r *http.Request)
	DeleteBooking(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService booking.AttendanceService
}

func NewAttendanceHandler(attendanceService booking.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{attendanceService: attendanceService}
}

// SubmitAttendance implements AttendanceHandler. Items that cannot be
// recorded come back in the result instead of failing the batch.
func (h *attendanceHandlerImpl) SubmitAttendance(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req booking.SubmitAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("SubmitAttendance decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.attendanceService.SubmitAttendance(r.Context(), p.UserID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance submitted", result)
}

// RequestLateAttendance implements AttendanceHandler.
func (h *attendanceHandlerImpl) RequestLateAttendance(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req booking.LateAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("RequestLateAttendance decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.attendanceService.RequestLateAttendance(r.Context(), p.UserID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Late attendance request submitted", result)
}

// RequestIzin implements AttendanceHandler.
func (h *attendanceHandlerImpl) RequestIzin(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req booking.RequestIzinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("RequestIzin decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.BookingID = chi.URLParam(r, "id")

	result, err := h.attendanceService.RequestIzin(r.Context(), p.UserID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Izin recorded", result)
}

func bookingQuery(r *http.Request) booking.ListBookingsQuery {
	return booking.ListBookingsQuery{
		DateFrom: r.URL.Query().Get("date_from"),
		DateTo:   r.URL.Query().Get("date_to"),
		Status:   r.URL.Query().Get("status"),
	}
}

// ListMyBookings implements AttendanceHandler.
func (h *attendanceHandlerImpl) ListMyBookings(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	filter, err := bookingQuery(r).ToFilter()
	if err != nil {
		response.HandleError(w, err)
		return
	}
	filter.StudentID = p.UserID

	bookings, err := h.attendanceService.ListBookings(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, bookings)
}

// ListAttendanceRequests implements AttendanceHandler. Teachers only see
// their own requests.
func (h *attendanceHandlerImpl) ListAttendanceRequests(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var filter booking.AttendanceRequestFilter
	if status := r.URL.Query().Get("status"); status != "" {
		s := booking.ApprovalStatus(status)
		if s != booking.ApprovalPending && s != booking.ApprovalApproved && s != booking.ApprovalRejected {
			response.BadRequest(w, "status must be one of: pending, approved, rejected", nil)
			return
		}
		filter.ApprovalStatus = &s
	}
	if p.Role == user.RoleTeacher {
		filter.TeacherID = p.UserID
	}

	requests, err := h.attendanceService.ListAttendanceRequests(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, requests)
}

// ApproveLateAttendance implements AttendanceHandler.
func (h *attendanceHandlerImpl) ApproveLateAttendance(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	result, err := h.attendanceService.ApproveLateAttendance(r.Context(), p.UserID, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Late attendance approved", result)
}

// RejectLateAttendance implements AttendanceHandler.
func (h *attendanceHandlerImpl) RejectLateAttendance(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req booking.RejectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("RejectLateAttendance decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.attendanceService.RejectLateAttendance(r.Context(), p.UserID, chi.URLParam(r, "id"), req.Reason)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Late attendance rejected", result)
}

// ListBookings implements AttendanceHandler.
func (h *attendanceHandlerImpl) ListBookings(w http.ResponseWriter, r *http.Request) {
	filter, err := bookingQuery(r).ToFilter()
	if err != nil {
		response.HandleError(w, err)
		return
	}
	q := r.URL.Query()
	filter.EnrollmentID = q.Get("enrollment_id")
	filter.StudentID = q.Get("student_id")
	filter.TimeSlotID = q.Get("timeslot_id")
	if teacherID := q.Get("teacher_id"); teacherID != "" {
		filter.TeacherIDs = []string{teacherID}
	}

	bookings, err := h.attendanceService.ListBookings(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, bookings)
}

// CreateManualBooking implements AttendanceHandler.
func (h *attendanceHandlerImpl) CreateManualBooking(w http.ResponseWriter, r *http.Request) {
	var req booking.CreateManualBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateManualBooking decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.attendanceService.CreateManualBooking(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Booking created successfully", result)
}

// CancelBooking implements AttendanceHandler.
func (h *attendanceHandlerImpl) CancelBooking(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.CancelBooking(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Booking cancelled", result)
}

// DeleteBooking implements AttendanceHandler.
func (h *attendanceHandlerImpl) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	if err := h.attendanceService.DeleteBooking(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Booking deleted", nil)
}
