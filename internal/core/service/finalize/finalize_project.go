package finalize

import (
	"context"
	"errors"
	"fmt"
	"time"

	"brickvault/internal/core/domain"
	"brickvault/internal/core/port"

	"github.com/google/uuid"
)

// Finalize runs the two-phase upload finalize state machine: rate check,
// ownership check, idempotent short-circuit, atomic lock acquisition, per-file
// verification, atomic commit. Safe under concurrent at-least-once
// invocation; mutual exclusion comes entirely from the storage-layer
// conditional write, not from in-memory locking.
func (s *finalizeService) Finalize(ctx context.Context, userID string, projectID uuid.UUID, uploads []domain.UploadConfirmation) (*domain.FinalizeResult, *domain.FinalizeError) {

	// Rate check comes before any other side effect or read.
	decision, err := s.limiter.Check(ctx, userID)
	if err != nil {
		return nil, s.infraError(err)
	}
	if !decision.Allowed {
		return nil, &domain.FinalizeError{
			Code:    domain.FinalizeErrRateLimitExceeded,
			Message: "daily upload limit exceeded, please try again tomorrow",
			Details: map[string]any{
				"next_allowed_at":     decision.NextAllowedAt.UTC().Format(time.RFC3339),
				"retry_after_seconds": decision.RetryAfterSeconds,
			},
		}
	}

	project, err := s.uow.ProjectRepo().FindByID(ctx, projectID)
	if errors.Is(err, domain.ErrProjectNotFound) {
		return nil, &domain.FinalizeError{
			Code:    domain.FinalizeErrNotFound,
			Message: "project not found",
		}
	}
	if err != nil {
		return nil, s.infraError(err)
	}

	if project.UserID != userID {
		return nil, &domain.FinalizeError{
			Code:    domain.FinalizeErrForbidden,
			Message: "you do not own this project",
		}
	}

	// Idempotent short-circuit: a prior call already committed, replay its
	// outcome without writing anything.
	if project.Finalized() {
		return s.idempotentResult(ctx, project)
	}

	staleCutoff := time.Now().Add(-s.uploadCfg.FinalizeLockTTL)
	locked, err := s.uow.ProjectRepo().AcquireFinalizeLock(ctx, projectID, staleCutoff)
	if errors.Is(err, domain.ErrLockNotAcquired) {
		return s.lockContended(ctx, projectID, project)
	}
	if err != nil {
		return nil, s.infraError(err)
	}

	result, ferr := s.finalizeLocked(ctx, locked, uploads)
	if ferr != nil {
		// Every failure after lock acquisition releases the lock so a
		// subsequent call can retry immediately.
		s.releaseLock(ctx, projectID)
		return nil, ferr
	}
	return result, nil
}

// lockContended resolves the lock-not-acquired branch: a concurrent caller
// either already committed (idempotent success) or still holds a live lock
// (non-error, non-final "finalizing" result).
func (s *finalizeService) lockContended(ctx context.Context, projectID uuid.UUID, known *domain.Project) (*domain.FinalizeResult, *domain.FinalizeError) {
	current, err := s.uow.ProjectRepo().FindByID(ctx, projectID)
	if err != nil {
		return nil, s.infraError(err)
	}
	if current == nil {
		current = known
	}

	if current.Finalized() {
		return s.idempotentResult(ctx, current)
	}

	return &domain.FinalizeResult{
		Status:  domain.FinalizeStatusFinalizing,
		Project: current,
	}, nil
}

// finalizeLocked is the locked phase: everything before the commit is
// read-only against the project, so a rescued stale lock can safely re-run
// the whole pipeline.
func (s *finalizeService) finalizeLocked(ctx context.Context, project *domain.Project, uploads []domain.UploadConfirmation) (*domain.FinalizeResult, *domain.FinalizeError) {

	fileIDs := make([]uuid.UUID, 0, len(uploads))
	for _, u := range uploads {
		if u.Success {
			fileIDs = append(fileIDs, u.FileID)
		}
	}
	if len(fileIDs) == 0 {
		return nil, &domain.FinalizeError{
			Code:    domain.FinalizeErrNoSuccessfulUploads,
			Message: "no files were successfully uploaded",
		}
	}

	files, err := s.uow.ProjectFileRepo().FindByProjectID(ctx, project.ID, fileIDs...)
	if err != nil {
		return nil, s.infraError(err)
	}

	validated, ferr := s.verifyFiles(ctx, files)
	if ferr != nil {
		return nil, ferr
	}

	if failed := failedValidations(validated); len(failed) > 0 {
		return nil, &domain.FinalizeError{
			Code:           domain.FinalizeErrPartsValidationError,
			Message:        "one or more parts list files have validation errors, fix the files and retry",
			Details:        map[string]any{"failed_files": failed},
			FileValidation: validated,
		}
	}

	// First image by repository order becomes the thumbnail.
	var thumbnail *domain.ProjectFile
	for i := range files {
		if files[i].FileType.IsImage() {
			thumbnail = &files[i]
			break
		}
	}

	total := 0
	for _, v := range validated {
		if v.PieceCount != nil {
			total += *v.PieceCount
		}
	}
	var totalPieceCount *int
	if total > 0 {
		totalPieceCount = &total
	}

	now := time.Now().UTC()
	var updated *domain.Project
	txErr := s.uow.Execute(ctx, func(uow port.UnitOfWork) error {
		var thumbnailURL *string
		if thumbnail != nil {
			if err := uow.ProjectFileRepo().UpdateFileType(ctx, thumbnail.ID, domain.FileTypeThumbnail); err != nil {
				return err
			}
			thumbnailURL = &thumbnail.FileURL
		}

		var commitErr error
		updated, commitErr = uow.ProjectRepo().CommitFinalize(ctx, project.ID, domain.FinalizeCommit{
			ThumbnailURL: thumbnailURL,
			PiecesCount:  totalPieceCount,
			FinalizedAt:  now,
		})
		return commitErr
	})
	if txErr != nil {
		return nil, s.infraError(txErr)
	}

	// The commit is durable from here on: a retry would land on the
	// idempotent path and never publish, so the event must go out now.
	s.publishFinalized(ctx, updated, totalPieceCount)

	allFiles, err := s.uow.ProjectFileRepo().FindByProjectID(ctx, project.ID)
	if err != nil {
		// Already committed; the listing is only response payload.
		s.logger.Warn("failed to load files after finalize commit", "project_id", project.ID, "error", err)
		allFiles = nil
	}

	result := &domain.FinalizeResult{
		Status:          domain.FinalizeStatusCommitted,
		Project:         updated,
		Files:           allFiles,
		TotalPieceCount: totalPieceCount,
	}
	if len(validated) > 0 {
		result.FileValidation = validated
	}
	return result, nil
}

func (s *finalizeService) idempotentResult(ctx context.Context, project *domain.Project) (*domain.FinalizeResult, *domain.FinalizeError) {
	files, err := s.uow.ProjectFileRepo().FindByProjectID(ctx, project.ID)
	if err != nil {
		return nil, s.infraError(err)
	}

	return &domain.FinalizeResult{
		Status:  domain.FinalizeStatusAlreadyFinalized,
		Project: project,
		Files:   files,
	}, nil
}

// releaseLock is best-effort: its own failure is logged, never surfaced, so a
// cleanup error cannot mask the primary one. It survives request
// cancellation so only TTL expiry is ever needed as a fallback.
func (s *finalizeService) releaseLock(ctx context.Context, projectID uuid.UUID) {
	if err := s.uow.ProjectRepo().ClearFinalizeLock(context.WithoutCancel(ctx), projectID); err != nil {
		s.logger.Warn("failed to release finalize lock", "project_id", projectID, "error", err)
	}
}

func (s *finalizeService) publishFinalized(ctx context.Context, project *domain.Project, totalPieceCount *int) {
	if s.publisher == nil || project.FinalizedAt == nil {
		return
	}

	event := domain.ProjectFinalizedEvent{
		ProjectID:       project.ID,
		UserID:          project.UserID,
		ThumbnailURL:    project.ThumbnailURL,
		TotalPieceCount: totalPieceCount,
		FinalizedAt:     *project.FinalizedAt,
	}
	if err := s.publisher.ProjectFinalized(context.WithoutCancel(ctx), event); err != nil {
		// The commit already happened; the event is advisory.
		s.logger.Warn("failed to publish finalized event", "project_id", project.ID, "error", err)
	}
}

func (s *finalizeService) infraError(err error) *domain.FinalizeError {
	return &domain.FinalizeError{
		Code:    domain.FinalizeErrDB,
		Message: fmt.Sprintf("failed to finalize project: %v", err),
	}
}

func failedValidations(validated []domain.FileValidationResult) []map[string]any {
	var failed []map[string]any
	for _, v := range validated {
		if v.Success {
			continue
		}
		failed = append(failed, map[string]any{
			"file_id":  v.FileID,
			"filename": v.Filename,
			"errors":   v.Errors,
		})
	}
	return failed
}
