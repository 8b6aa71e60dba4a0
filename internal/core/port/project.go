package port

import (
	"context"
	"time"

	"brickvault/internal/core/domain"

	"github.com/google/uuid"
)

// ProjectRepository is an interface to define project repository interactions.
// AcquireFinalizeLock and CommitFinalize must each be a single atomic
// conditional statement against the store.
type ProjectRepository interface {
	Create(ctx context.Context, project domain.Project) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Project, error)
	// AcquireFinalizeLock sets finalizing_at iff the project is not finalized
	// and not locked (or the lock is older than staleCutoff). Returns the
	// locked row, or domain.ErrLockNotAcquired when the conditional write
	// matched nothing.
	AcquireFinalizeLock(ctx context.Context, id uuid.UUID, staleCutoff time.Time) (*domain.Project, error)
	ClearFinalizeLock(ctx context.Context, id uuid.UUID) error
	// ClearStaleLocks nulls every finalizing_at older than cutoff on
	// not-yet-finalized projects and reports how many rows it touched.
	ClearStaleLocks(ctx context.Context, cutoff time.Time) (int64, error)
	// CommitFinalize applies the one atomic finalize write: thumbnail, piece
	// count, finalized_at, lock release, and the draft -> published
	// transition (published_at is write-once). Returns the updated row.
	CommitFinalize(ctx context.Context, id uuid.UUID, commit domain.FinalizeCommit) (*domain.Project, error)
}

// ProjectFileRepository is an interface to define project file repository
// interactions. Listings are ordered by (created_at, id) so "first image" is
// deterministic.
type ProjectFileRepository interface {
	Create(ctx context.Context, file domain.ProjectFile) error
	FindByProjectID(ctx context.Context, projectID uuid.UUID, fileIDs ...uuid.UUID) ([]domain.ProjectFile, error)
	UpdateFileType(ctx context.Context, id uuid.UUID, fileType domain.FileType) error
}
