package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// UploadConfirmation is the client-reported outcome of one phase-1 upload.
type UploadConfirmation struct {
	FileID  uuid.UUID `json:"file_id"`
	Success bool      `json:"success"`
}

// ValidationIssue is a single error or warning produced while validating a
// parts-list file. Line is 1-based and 0 when the issue is not row-scoped.
type ValidationIssue struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
	Field   string `json:"field,omitempty"`
}

// FileValidationResult is the per-file outcome of the verification pipeline.
type FileValidationResult struct {
	FileID     uuid.UUID         `json:"file_id"`
	Filename   string            `json:"filename"`
	Success    bool              `json:"success"`
	Errors     []ValidationIssue `json:"errors,omitempty"`
	Warnings   []ValidationIssue `json:"warnings,omitempty"`
	PieceCount *int              `json:"piece_count,omitempty"`
}

// PartsListReport is the aggregate result of validating one parts-list file.
type PartsListReport struct {
	Success         bool
	Errors          []ValidationIssue
	Warnings        []ValidationIssue
	TotalPieceCount int
}

// FinalizeStatus tags the non-error outcomes of a finalize call.
type FinalizeStatus string

const (
	// FinalizeStatusCommitted means this call performed the commit.
	FinalizeStatusCommitted FinalizeStatus = "committed"
	// FinalizeStatusAlreadyFinalized means a previous call already committed;
	// the response is an idempotent replay with no side effects.
	FinalizeStatusAlreadyFinalized FinalizeStatus = "already-finalized"
	// FinalizeStatusFinalizing means another attempt holds a live lock; the
	// caller should poll and retry.
	FinalizeStatusFinalizing FinalizeStatus = "finalizing"
)

// FinalizeResult is the successful (or in-flight) outcome of a finalize call.
type FinalizeResult struct {
	Status          FinalizeStatus
	Project         *Project
	Files           []ProjectFile
	FileValidation  []FileValidationResult
	TotalPieceCount *int
}

// Idempotent reports whether the result replayed a prior commit.
func (r *FinalizeResult) Idempotent() bool {
	return r.Status == FinalizeStatusAlreadyFinalized
}

// FinalizeErrorCode enumerates the failure cases of the finalize protocol.
type FinalizeErrorCode string

const (
	FinalizeErrRateLimitExceeded    FinalizeErrorCode = "RATE_LIMIT_EXCEEDED"
	FinalizeErrNotFound             FinalizeErrorCode = "NOT_FOUND"
	FinalizeErrForbidden            FinalizeErrorCode = "FORBIDDEN"
	FinalizeErrNoSuccessfulUploads  FinalizeErrorCode = "NO_SUCCESSFUL_UPLOADS"
	FinalizeErrFileNotInStorage     FinalizeErrorCode = "FILE_NOT_IN_S3"
	FinalizeErrSizeTooLarge         FinalizeErrorCode = "SIZE_TOO_LARGE"
	FinalizeErrInvalidType          FinalizeErrorCode = "INVALID_TYPE"
	FinalizeErrPartsValidationError FinalizeErrorCode = "PARTS_VALIDATION_ERROR"
	FinalizeErrDB                   FinalizeErrorCode = "DB_ERROR"
)

// FinalizeError is a failure outcome of the finalize protocol. It is returned
// as a value so callers can switch on Code; Details carries the user-facing
// context (filename, expected vs. actual, retry timing).
type FinalizeError struct {
	Code           FinalizeErrorCode
	Message        string
	Details        map[string]any
	FileValidation []FileValidationResult
}

func (e *FinalizeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// RateLimitDecision is the side-effect-free answer of the per-user daily
// quota check.
type RateLimitDecision struct {
	Allowed           bool
	Remaining         int
	CurrentCount      int
	NextAllowedAt     time.Time
	RetryAfterSeconds int
}
