package project

import (
	"encoding/json"
	"errors"
	"net/http"

	"brickvault/internal/core/domain"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type V1GetProjectResponse struct {
	Project V1ProjectResponse       `json:"project"`
	Files   []V1ProjectFileResponse `json:"files,omitempty"`
}

func (h *HandlerV1) GetProjectV1(w http.ResponseWriter, r *http.Request) {
	projectID, parseErr := uuid.Parse(chi.URLParam(r, "projectID"))
	if parseErr != nil {
		http.Error(w, "invalid project ID", http.StatusBadRequest)
		return
	}

	projectData, files, err := h.finalizeService.GetProject(r.Context(), projectID)
	switch {
	case errors.Is(err, domain.ErrProjectNotFound):
		http.Error(w, "project not found", http.StatusNotFound)
		return
	case err != nil:
		h.logger.Error("error fetching project", "error", err)
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}

	resp := V1GetProjectResponse{
		Project: *toProjectResponse(projectData),
		Files:   toFileResponses(files),
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("error encoding response", "error", err)
	}
}
