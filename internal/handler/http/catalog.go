package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/catalog"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type CatalogHandler interface {
	CreateTimeSlot(w http.ResponseWriter, r *http.Request)
	ListTimeSlots(w http.ResponseWriter, r *http.Request)
	CreateMasterClass(w http.ResponseWriter, r *http.Request)
	ListMasterClasses(w http.ResponseWriter, r *http.Request)
	CreateProgram(w http.ResponseWriter, r *http.Request)
	GetProgram(w http.ResponseWriter, r *http.Request)
	ListPrograms(w http.ResponseWriter, r *http.Request)
	AddProgramClass(w http.ResponseWriter, r *http.Request)
	GetSyllabus(w http.ResponseWriter, r *http.Request)
	AddSyllabusItem(w http.ResponseWriter, r *http.Request)
	UpdateSyllabusItem(w http.ResponseWriter, r *http.Request)
	DeleteSyllabusItem(w http.ResponseWriter, r *http.Request)
	CreateTeacher(w http.ResponseWriter, r *http.Request)
	ListTeachers(w http.ResponseWriter, r *http.Request)
}

type catalogHandlerImpl struct {
	catalogService catalog.CatalogService
}

func NewCatalogHandler(catalogService catalog.CatalogService) CatalogHandler {
	return &catalogHandlerImpl{catalogService: catalogService}
}

// CreateTimeSlot implements CatalogHandler.
func (h *catalogHandlerImpl) CreateTimeSlot(w http.ResponseWriter, r *http.Request) {
	var req catalog.CreateTimeSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateTimeSlot decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.catalogService.CreateTimeSlot(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Time slot created successfully", result)
}

// ListTimeSlots implements CatalogHandler.
func (h *catalogHandlerImpl) ListTimeSlots(w http.ResponseWriter, r *http.Request) {
	result, err := h.catalogService.ListTimeSlots(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// CreateMasterClass implements CatalogHandler.
func (h *catalogHandlerImpl) CreateMasterClass(w http.ResponseWriter, r *http.Request) {
	var req catalog.CreateMasterClassRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateMasterClass decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.catalogService.CreateMasterClass(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Master class created successfully", result)
}

// ListMasterClasses implements CatalogHandler.
func (h *catalogHandlerImpl) ListMasterClasses(w http.ResponseWriter, r *http.Request) {
	result, err := h.catalogService.ListMasterClasses(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// CreateProgram implements CatalogHandler.
func (h *catalogHandlerImpl) CreateProgram(w http.ResponseWriter, r *http.Request) {
	var req catalog.CreateProgramRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateProgram decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.catalogService.CreateProgram(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Program created successfully", result)
}

// GetProgram implements CatalogHandler.
func (h *catalogHandlerImpl) GetProgram(w http.ResponseWriter, r *http.Request) {
	result, err := h.catalogService.GetProgram(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListPrograms implements CatalogHandler.
func (h *catalogHandlerImpl) ListPrograms(w http.ResponseWriter, r *http.Request) {
	result, err := h.catalogService.ListPrograms(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// AddProgramClass implements CatalogHandler.
func (h *catalogHandlerImpl) AddProgramClass(w http.ResponseWriter, r *http.Request) {
	var req catalog.AddProgramClassRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("AddProgramClass decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ProgramID = chi.URLParam(r, "id")

	result, err := h.catalogService.AddProgramClass(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Class added to program", result)
}

// GetSyllabus implements CatalogHandler.
func (h *catalogHandlerImpl) GetSyllabus(w http.ResponseWriter, r *http.Request) {
	result, err := h.catalogService.GetSyllabus(r.Context(), chi.URLParam(r, "classId"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// AddSyllabusItem implements CatalogHandler.
func (h *catalogHandlerImpl) AddSyllabusItem(w http.ResponseWriter, r *http.Request) {
	var req catalog.CreateSyllabusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("AddSyllabusItem decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ProgramClassID = chi.URLParam(r, "classId")

	result, err := h.catalogService.AddSyllabusItem(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Syllabus item added", result)
}

// UpdateSyllabusItem implements CatalogHandler.
func (h *catalogHandlerImpl) UpdateSyllabusItem(w http.ResponseWriter, r *http.Request) {
	var req catalog.UpdateSyllabusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdateSyllabusItem decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.catalogService.UpdateSyllabusItem(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Syllabus item updated", result)
}

// DeleteSyllabusItem implements CatalogHandler.
func (h *catalogHandlerImpl) DeleteSyllabusItem(w http.ResponseWriter, r *http.Request) {
	if err := h.catalogService.DeleteSyllabusItem(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Syllabus item deleted", nil)
}

// CreateTeacher implements CatalogHandler.
func (h *catalogHandlerImpl) CreateTeacher(w http.ResponseWriter, r *http.Request) {
	var req catalog.CreateTeacherRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateTeacher decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.catalogService.CreateTeacher(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Teacher created successfully", result)
}

// ListTeachers implements CatalogHandler.
func (h *catalogHandlerImpl) ListTeachers(w http.ResponseWriter, r *http.Request) {
	result, err := h.catalogService.ListTeachers(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
