package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/pkg/whatsapp"
	"github.com/go-chi/chi/v5"
)

// StatusChecker reports the state of the WhatsApp gateway.
type StatusChecker interface {
	Status(ctx context.Context) whatsapp.Status
}

// JobRunner exposes the registered notification jobs.
type JobRunner interface {
	Jobs() []cron.Job
	RunOnce(ctx context.Context, name string) error
}

type MessagingHandler interface {
	Status(w http.ResponseWriter, r *http.Request)
	ListJobs(w http.ResponseWriter, r *http.Request)
	RunJob(w http.ResponseWriter, r *http.Request)
}

type messagingHandlerImpl struct {
	gateway StatusChecker
	jobs    JobRunner
}

func NewMessagingHandler(gateway StatusChecker, jobs JobRunner) MessagingHandler {
	return &messagingHandlerImpl{gateway: gateway, jobs: jobs}
}

type jobResponse struct {
	Name string `json:"name"`
	Spec string `json:"spec"`
}

// Status implements MessagingHandler.
func (h *messagingHandlerImpl) Status(w http.ResponseWriter, r *http.Request) {
	if h.gateway == nil {
		response.Success(w, whatsapp.Status{Status: "console"})
		return
	}
	response.Success(w, h.gateway.Status(r.Context()))
}

// ListJobs implements MessagingHandler.
func (h *messagingHandlerImpl) ListJobs(w http.ResponseWriter, r *http.Request) {
	jobs := h.jobs.Jobs()
	result := make([]jobResponse, 0, len(jobs))
	for _, job := range jobs {
		result = append(result, jobResponse{Name: job.Name, Spec: job.Spec})
	}
	response.Success(w, result)
}

// RunJob implements MessagingHandler.
func (h *messagingHandlerImpl) RunJob(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	found := false
	for _, job := range h.jobs.Jobs() {
		if job.Name == name {
			found = true
			break
		}
	}
	if !found {
		response.NotFound(w, "Job not found")
		return
	}

	if err := h.jobs.RunOnce(r.Context(), name); err != nil {
		slog.Error("Manual job run failed", "name", name, "error", err)
		response.HandleError(w, err)
		return
	}

	slog.Info("Manual job run finished", "name", name)
	response.SuccessWithMessage(w, "Job finished", jobResponse{Name: name})
}
