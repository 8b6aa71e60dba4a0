package port

import (
	"context"

	"brickvault/internal/core/domain"

	"github.com/google/uuid"
)

// FinalizeService is an interface to define the finalize service. Finalize
// returns the protocol's tagged outcome: a *domain.FinalizeResult on success
// or in-flight, a *domain.FinalizeError for every enumerated failure, and a
// plain error never (unexpected faults are folded into the DB_ERROR code).
type FinalizeService interface {
	Finalize(ctx context.Context, userID string, projectID uuid.UUID, uploads []domain.UploadConfirmation) (*domain.FinalizeResult, *domain.FinalizeError)
	GetProject(ctx context.Context, projectID uuid.UUID) (*domain.Project, []domain.ProjectFile, error)
}
