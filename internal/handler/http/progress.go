package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/enrollment"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/progress"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ProgressHandler interface {
	MyProgress(w http.ResponseWriter, r *http.Request)
	MyStudents(w http.ResponseWriter, r *http.Request)
	StudentProgress(w http.ResponseWriter, r *http.Request)

	ListEnrollments(w http.ResponseWriter, r *http.Request)
	UpdateClassEnrollment(w http.ResponseWriter, r *http.Request)
	UpdateEnrollmentStatus(w http.ResponseWriter, r *http.Request)
}

type progressHandlerImpl struct {
	progressService progress.ProgressService
}

func NewProgressHandler(progressService progress.ProgressService) ProgressHandler {
	return &progressHandlerImpl{progressService: progressService}
}

// MyProgress implements ProgressHandler.
func (h *progressHandlerImpl) MyProgress(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	result, err := h.progressService.MyProgress(r.Context(), p.UserID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// MyStudents implements ProgressHandler.
func (h *progressHandlerImpl) MyStudents(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	result, err := h.progressService.TeacherStudents(r.Context(), p.UserID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// StudentProgress implements ProgressHandler.
func (h *progressHandlerImpl) StudentProgress(w http.ResponseWriter, r *http.Request) {
	result, err := h.progressService.StudentProgress(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListEnrollments implements ProgressHandler.
func (h *progressHandlerImpl) ListEnrollments(w http.ResponseWriter, r *http.Request) {
	filter := enrollment.EnrollmentFilter{StudentID: r.URL.Query().Get("student_id")}
	if status := r.URL.Query().Get("status"); status != "" {
		s := enrollment.Status(status)
		if !s.Valid() {
			response.HandleError(w, enrollment.ErrInvalidStatus)
			return
		}
		filter.Status = &s
	}

	result, err := h.progressService.ListEnrollments(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// UpdateClassEnrollment implements ProgressHandler.
func (h *progressHandlerImpl) UpdateClassEnrollment(w http.ResponseWriter, r *http.Request) {
	var req enrollment.UpdateClassEnrollmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdateClassEnrollment decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.progressService.UpdateClassEnrollment(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Class enrollment updated", result)
}

// UpdateEnrollmentStatus implements ProgressHandler.
func (h *progressHandlerImpl) UpdateEnrollmentStatus(w http.ResponseWriter, r *http.Request) {
	var req enrollment.UpdateEnrollmentStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdateEnrollmentStatus decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.progressService.UpdateEnrollmentStatus(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Enrollment status updated", result)
}
