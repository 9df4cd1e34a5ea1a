package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/portfolio"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type PortfolioHandler interface {
	Upload(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	DeleteMine(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type portfolioHandlerImpl struct {
	portfolioService portfolio.PortfolioService
}

func NewPortfolioHandler(portfolioService portfolio.PortfolioService) PortfolioHandler {
	return &portfolioHandlerImpl{portfolioService: portfolioService}
}

// Upload implements PortfolioHandler.
func (h *portfolioHandlerImpl) Upload(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, portfolio.MaxUploadSize+(1<<20))
	if err := r.ParseMultipartForm(portfolio.MaxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.HandleError(w, portfolio.ErrFileTooLarge)
			return
		}
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			response.BadRequest(w, "Portfolio file is required", nil)
			return
		}
		slog.Error("Failed to get file from form", "error", err)
		response.BadRequest(w, "Invalid file upload", nil)
		return
	}
	defer file.Close()

	req := portfolio.UploadRequest{
		ClassEnrollmentID: r.FormValue("class_enrollment_id"),
		Title:             r.FormValue("title"),
		FileName:          fileHeader.Filename,
		ContentType:       fileHeader.Header.Get("Content-Type"),
		Size:              fileHeader.Size,
		File:              file,
	}
	if syllabusID := r.FormValue("syllabus_id"); syllabusID != "" {
		req.SyllabusID = &syllabusID
	}

	result, err := h.portfolioService.Upload(r.Context(), p.UserID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Portfolio uploaded successfully", result)
}

// ListMine implements PortfolioHandler.
func (h *portfolioHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	result, err := h.portfolioService.ListForStudent(r.Context(), p.UserID, chi.URLParam(r, "classId"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// List implements PortfolioHandler.
func (h *portfolioHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.portfolioService.List(r.Context(), chi.URLParam(r, "classId"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// DeleteMine implements PortfolioHandler.
func (h *portfolioHandlerImpl) DeleteMine(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	if err := h.portfolioService.DeleteForStudent(r.Context(), p.UserID, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Portfolio deleted successfully", nil)
}

// Delete implements PortfolioHandler.
func (h *portfolioHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.portfolioService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Portfolio deleted successfully", nil)
}
