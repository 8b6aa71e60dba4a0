package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"brickvault/internal/core/domain"
	"brickvault/internal/core/port"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type sqlProjectFileRepository struct {
	db SQLQuerier
}

// NewSqlProjectFileRepository creates sqlProjectFileRepository that implements port.ProjectFileRepository
func NewSqlProjectFileRepository(db SQLQuerier) port.ProjectFileRepository {
	return &sqlProjectFileRepository{db: db}
}

// Create creates a new project file entry
func (s *sqlProjectFileRepository) Create(ctx context.Context, file domain.ProjectFile) error {
	query := `INSERT INTO project_files (id, project_id, file_type, file_url, original_filename, mime_type)
              VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := s.db.ExecContext(ctx, query, file.ID, file.ProjectID, file.FileType, file.FileURL, file.OriginalFilename, file.MimeType)
	if err != nil {
		return fmt.Errorf("error inserting project file: %w", err)
	}
	return nil
}

// FindByProjectID finds a project's files, optionally narrowed to fileIDs.
// Rows come back ordered by (created_at, id) so "first image" is stable.
func (s *sqlProjectFileRepository) FindByProjectID(ctx context.Context, projectID uuid.UUID, fileIDs ...uuid.UUID) ([]domain.ProjectFile, error) {
	query := `SELECT id, project_id, file_type, file_url, original_filename, mime_type, created_at, deleted_at
              FROM project_files
              WHERE project_id = $1 AND deleted_at IS NULL`
	args := []any{projectID}

	if len(fileIDs) > 0 {
		ids := make([]string, len(fileIDs))
		for i, id := range fileIDs {
			ids[i] = id.String()
		}
		query += ` AND id = ANY($2::uuid[])`
		args = append(args, pq.Array(ids))
	}
	query += ` ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying project files: %w", err)
	}
	defer rows.Close()

	var files []domain.ProjectFile
	for rows.Next() {
		var f domain.ProjectFile
		var originalFilename sql.NullString
		var mimeType sql.NullString
		var deletedAt sql.NullTime

		err := rows.Scan(
			&f.ID,
			&f.ProjectID,
			&f.FileType,
			&f.FileURL,
			&originalFilename,
			&mimeType,
			&f.CreatedAt,
			&deletedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning project file: %w", err)
		}

		if originalFilename.Valid {
			f.OriginalFilename = originalFilename.String
		}
		if mimeType.Valid {
			f.MimeType = mimeType.String
		}
		if deletedAt.Valid {
			f.DeletedAt = &deletedAt.Time
		}

		files = append(files, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project files: %w", err)
	}

	return files, nil
}

// UpdateFileType rewrites a file's type (the thumbnail re-tag)
func (s *sqlProjectFileRepository) UpdateFileType(ctx context.Context, id uuid.UUID, fileType domain.FileType) error {
	query := `UPDATE project_files SET file_type = $1 WHERE id = $2 AND deleted_at IS NULL`

	result, err := s.db.ExecContext(ctx, query, fileType, id)
	if err != nil {
		return fmt.Errorf("error updating project file type: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrProjectFileNotFound
	}
	return nil
}
