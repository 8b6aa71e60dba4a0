package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"brickvault/internal/core/domain"
	"brickvault/internal/core/port"

	"github.com/google/uuid"
)

const projectColumns = `id, user_id, title, description, status, thumbnail_url, pieces_count,
                        published_at, finalized_at, finalizing_at, created_at, updated_at`

type sqlProjectRepository struct {
	db SQLQuerier
}

// NewSqlProjectRepository creates sqlProjectRepository that implements port.ProjectRepository
func NewSqlProjectRepository(db SQLQuerier) port.ProjectRepository {
	return &sqlProjectRepository{
		db: db,
	}
}

// Create creates a new project entry in draft status
func (s *sqlProjectRepository) Create(ctx context.Context, project domain.Project) error {
	query := `INSERT INTO projects (id, user_id, title, description, status)
              VALUES ($1, $2, $3, $4, $5)`

	status := project.Status
	if status == "" {
		status = domain.ProjectStatusDraft
	}

	_, err := s.db.ExecContext(ctx, query, project.ID, project.UserID, project.Title, project.Description, status)
	if err != nil {
		return fmt.Errorf("error inserting project: %w", err)
	}
	return nil
}

// FindByID finds a project by id
func (s *sqlProjectRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`

	return s.scanProject(s.db.QueryRowContext(ctx, query, id))
}

// AcquireFinalizeLock performs the atomic conditional lock write. It is a
// single compare-and-swap statement: the row is taken iff the project is not
// finalized and not locked, or its lock predates staleCutoff (stale lock
// rescue). Returns domain.ErrLockNotAcquired when the predicate matched
// nothing.
func (s *sqlProjectRepository) AcquireFinalizeLock(ctx context.Context, id uuid.UUID, staleCutoff time.Time) (*domain.Project, error) {
	query := `UPDATE projects
              SET finalizing_at = now(), updated_at = now()
              WHERE id = $1
                AND finalized_at IS NULL
                AND (finalizing_at IS NULL OR finalizing_at < $2)
              RETURNING ` + projectColumns

	project, err := s.scanProject(s.db.QueryRowContext(ctx, query, id, staleCutoff))
	if errors.Is(err, domain.ErrProjectNotFound) {
		return nil, domain.ErrLockNotAcquired
	}
	if err != nil {
		return nil, fmt.Errorf("error acquiring finalize lock: %w", err)
	}
	return project, nil
}

// ClearFinalizeLock releases the finalize lock
func (s *sqlProjectRepository) ClearFinalizeLock(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE projects SET finalizing_at = NULL, updated_at = now() WHERE id = $1`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("error clearing finalize lock: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}

// ClearStaleLocks releases every abandoned finalize lock older than cutoff
func (s *sqlProjectRepository) ClearStaleLocks(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `UPDATE projects
              SET finalizing_at = NULL, updated_at = now()
              WHERE finalized_at IS NULL
                AND finalizing_at IS NOT NULL
                AND finalizing_at < $1`

	result, err := s.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("error clearing stale finalize locks: %w", err)
	}
	return result.RowsAffected()
}

// CommitFinalize applies the single atomic finalize write. Thumbnail, piece
// count, finalized marker and lock release land in one statement; the
// draft -> published transition plus write-once published_at ride along. The
// finalized_at guard makes the commit write-once at the store.
func (s *sqlProjectRepository) CommitFinalize(ctx context.Context, id uuid.UUID, commit domain.FinalizeCommit) (*domain.Project, error) {
	query := `UPDATE projects
              SET thumbnail_url = $2,
                  pieces_count = $3,
                  finalized_at = $4,
                  finalizing_at = NULL,
                  updated_at = $4,
                  published_at = CASE WHEN status = 'draft' AND published_at IS NULL THEN $4 ELSE published_at END,
                  status = CASE WHEN status = 'draft' THEN 'published' ELSE status END
              WHERE id = $1 AND finalized_at IS NULL
              RETURNING ` + projectColumns

	var pieces sql.NullInt64
	if commit.PiecesCount != nil {
		pieces = sql.NullInt64{Int64: int64(*commit.PiecesCount), Valid: true}
	}
	var thumbnail sql.NullString
	if commit.ThumbnailURL != nil {
		thumbnail = sql.NullString{String: *commit.ThumbnailURL, Valid: true}
	}

	project, err := s.scanProject(s.db.QueryRowContext(ctx, query, id, thumbnail, pieces, commit.FinalizedAt))
	if err != nil {
		if errors.Is(err, domain.ErrProjectNotFound) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, fmt.Errorf("error committing finalize: %w", err)
	}
	return project, nil
}

func (s *sqlProjectRepository) scanProject(row *sql.Row) (*domain.Project, error) {
	var dbRow dbProject
	err := row.Scan(
		&dbRow.ID,
		&dbRow.UserID,
		&dbRow.Title,
		&dbRow.Description,
		&dbRow.Status,
		&dbRow.ThumbnailURL,
		&dbRow.PiecesCount,
		&dbRow.PublishedAt,
		&dbRow.FinalizedAt,
		&dbRow.FinalizingAt,
		&dbRow.CreatedAt,
		&dbRow.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, err
	}
	return dbRow.ToDomain(), nil
}

// dbProject represents a project in DB
type dbProject struct {
	ID           uuid.UUID      `db:"id"`
	UserID       string         `db:"user_id"`
	Title        string         `db:"title"`
	Description  string         `db:"description"`
	Status       string         `db:"status"`
	ThumbnailURL sql.NullString `db:"thumbnail_url"`
	PiecesCount  sql.NullInt64  `db:"pieces_count"`
	PublishedAt  sql.NullTime   `db:"published_at"`
	FinalizedAt  sql.NullTime   `db:"finalized_at"`
	FinalizingAt sql.NullTime   `db:"finalizing_at"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

// ToDomain converts a db row to domain.Project
func (p *dbProject) ToDomain() *domain.Project {
	project := &domain.Project{
		ID:          p.ID,
		UserID:      p.UserID,
		Title:       p.Title,
		Description: p.Description,
		Status:      domain.ProjectStatus(p.Status),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.ThumbnailURL.Valid {
		project.ThumbnailURL = &p.ThumbnailURL.String
	}
	if p.PiecesCount.Valid {
		count := int(p.PiecesCount.Int64)
		project.PiecesCount = &count
	}
	if p.PublishedAt.Valid {
		project.PublishedAt = &p.PublishedAt.Time
	}
	if p.FinalizedAt.Valid {
		project.FinalizedAt = &p.FinalizedAt.Time
	}
	if p.FinalizingAt.Valid {
		project.FinalizingAt = &p.FinalizingAt.Time
	}
	return project
}
