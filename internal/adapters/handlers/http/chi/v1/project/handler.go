package project

import (
	"log/slog"

	"brickvault/internal/core/port"

	"github.com/go-chi/chi/v5"
)

// HandlerV1 is the handler for v1 project routes
type HandlerV1 struct {
	finalizeService port.FinalizeService
	logger          *slog.Logger
}

// NewProjectHandlerV1 creates HandlerV1
func NewProjectHandlerV1(service port.FinalizeService, logger *slog.Logger) *HandlerV1 {
	return &HandlerV1{
		finalizeService: service,
		logger:          logger,
	}
}

// Routes exposes handler routes
func (h *HandlerV1) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/{projectID}/finalize", h.FinalizeV1)
	router.Get("/{projectID}", h.GetProjectV1)

	return router
}
