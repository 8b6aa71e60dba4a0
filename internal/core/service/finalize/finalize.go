package finalize

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"brickvault/internal/config"
	"brickvault/internal/core/domain"
	"brickvault/internal/core/port"

	"github.com/google/uuid"
)

type finalizeService struct {
	uow       port.UnitOfWork
	storage   port.ObjectStorage
	limiter   port.RateLimiter
	validator port.ContentValidator
	publisher port.EventPublisher
	uploadCfg config.UploadConfig
	logger    *slog.Logger
}

// NewFinalizeService creates a new finalize service. publisher may be nil
// when no event broker is wired (finalized events are then skipped).
func NewFinalizeService(
	uow port.UnitOfWork,
	storage port.ObjectStorage,
	limiter port.RateLimiter,
	validator port.ContentValidator,
	publisher port.EventPublisher,
	cfg config.UploadConfig,
	logger *slog.Logger,
) port.FinalizeService {
	return &finalizeService{
		uow:       uow,
		storage:   storage,
		limiter:   limiter,
		validator: validator,
		publisher: publisher,
		uploadCfg: cfg,
		logger:    logger,
	}
}

// GetProject returns a project with its files.
func (s *finalizeService) GetProject(ctx context.Context, projectID uuid.UUID) (*domain.Project, []domain.ProjectFile, error) {
	project, err := s.uow.ProjectRepo().FindByID(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}

	files, err := s.uow.ProjectFileRepo().FindByProjectID(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}

	return project, files, nil
}

// storageKey resolves the object-store key from a stored file URL: the URL
// path without its leading slash. The storage adapter normalizes away its own
// bucket prefix for path-style URLs.
func storageKey(fileURL string) string {
	parsed, err := url.Parse(fileURL)
	if err != nil || parsed.Path == "" {
		return strings.TrimPrefix(fileURL, "/")
	}
	return strings.TrimPrefix(parsed.Path, "/")
}
