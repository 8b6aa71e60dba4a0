package project

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"brickvault/internal/core/domain"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type V1FinalizeRequest struct {
	Uploads []V1UploadConfirmation `json:"uploads"`
}

type V1UploadConfirmation struct {
	FileID  uuid.UUID `json:"file_id"`
	Success bool      `json:"success"`
}

type V1ProjectResponse struct {
	ID           uuid.UUID  `json:"id"`
	UserID       string     `json:"user_id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	Status       string     `json:"status"`
	ThumbnailURL *string    `json:"thumbnail_url,omitempty"`
	PiecesCount  *int       `json:"pieces_count,omitempty"`
	PublishedAt  *time.Time `json:"published_at,omitempty"`
	FinalizedAt  *time.Time `json:"finalized_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type V1ProjectFileResponse struct {
	ID               uuid.UUID `json:"id"`
	FileType         string    `json:"file_type"`
	FileURL          string    `json:"file_url"`
	OriginalFilename string    `json:"original_filename,omitempty"`
	MimeType         string    `json:"mime_type,omitempty"`
}

type V1FinalizeResponse struct {
	Status          string                        `json:"status"`
	Project         *V1ProjectResponse            `json:"project,omitempty"`
	Files           []V1ProjectFileResponse       `json:"files,omitempty"`
	FileValidation  []domain.FileValidationResult `json:"file_validation,omitempty"`
	TotalPieceCount *int                          `json:"total_piece_count,omitempty"`
}

type V1ErrorResponse struct {
	Code           string                        `json:"code"`
	Message        string                        `json:"message"`
	Details        map[string]any                `json:"details,omitempty"`
	FileValidation []domain.FileValidationResult `json:"file_validation,omitempty"`
}

func (h *HandlerV1) FinalizeV1(w http.ResponseWriter, r *http.Request) {
	projectID, parseErr := uuid.Parse(chi.URLParam(r, "projectID"))
	if parseErr != nil {
		http.Error(w, "invalid project ID", http.StatusBadRequest)
		return
	}

	userID := r.Header.Get("X-User-ID")
	if userID == "" {
		http.Error(w, "missing user identity", http.StatusUnauthorized)
		return
	}

	var req V1FinalizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("error decoding finalize request", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	uploads := make([]domain.UploadConfirmation, 0, len(req.Uploads))
	for _, u := range req.Uploads {
		uploads = append(uploads, domain.UploadConfirmation{
			FileID:  u.FileID,
			Success: u.Success,
		})
	}

	result, finalizeErr := h.finalizeService.Finalize(r.Context(), userID, projectID, uploads)
	if finalizeErr != nil {
		h.writeFinalizeError(w, finalizeErr)
		return
	}

	status := http.StatusOK
	if result.Status == domain.FinalizeStatusFinalizing {
		status = http.StatusAccepted
	}

	resp := V1FinalizeResponse{
		Status:          string(result.Status),
		Project:         toProjectResponse(result.Project),
		Files:           toFileResponses(result.Files),
		FileValidation:  result.FileValidation,
		TotalPieceCount: result.TotalPieceCount,
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("error encoding response", "error", err)
	}
}

func (h *HandlerV1) writeFinalizeError(w http.ResponseWriter, finalizeErr *domain.FinalizeError) {
	status := statusForCode(finalizeErr.Code)
	if status == http.StatusInternalServerError {
		h.logger.Error("finalize failed", "code", finalizeErr.Code, "message", finalizeErr.Message)
	}

	if retryAfter, ok := finalizeErr.Details["retry_after_seconds"].(int); ok && retryAfter > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	}

	resp := V1ErrorResponse{
		Code:           string(finalizeErr.Code),
		Message:        finalizeErr.Message,
		Details:        finalizeErr.Details,
		FileValidation: finalizeErr.FileValidation,
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("error encoding error response", "error", err)
	}
}

func statusForCode(code domain.FinalizeErrorCode) int {
	switch code {
	case domain.FinalizeErrNotFound:
		return http.StatusNotFound
	case domain.FinalizeErrForbidden:
		return http.StatusForbidden
	case domain.FinalizeErrRateLimitExceeded:
		return http.StatusTooManyRequests
	case domain.FinalizeErrNoSuccessfulUploads, domain.FinalizeErrFileNotInStorage:
		return http.StatusBadRequest
	case domain.FinalizeErrSizeTooLarge, domain.FinalizeErrInvalidType, domain.FinalizeErrPartsValidationError:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func toProjectResponse(p *domain.Project) *V1ProjectResponse {
	if p == nil {
		return nil
	}
	return &V1ProjectResponse{
		ID:           p.ID,
		UserID:       p.UserID,
		Title:        p.Title,
		Description:  p.Description,
		Status:       string(p.Status),
		ThumbnailURL: p.ThumbnailURL,
		PiecesCount:  p.PiecesCount,
		PublishedAt:  p.PublishedAt,
		FinalizedAt:  p.FinalizedAt,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func toFileResponses(files []domain.ProjectFile) []V1ProjectFileResponse {
	if len(files) == 0 {
		return nil
	}
	out := make([]V1ProjectFileResponse, 0, len(files))
	for _, f := range files {
		out = append(out, V1ProjectFileResponse{
			ID:               f.ID,
			FileType:         string(f.FileType),
			FileURL:          f.FileURL,
			OriginalFilename: f.OriginalFilename,
			MimeType:         f.MimeType,
		})
	}
	return out
}
