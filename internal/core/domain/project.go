package domain

import (
	"time"

	"github.com/google/uuid"
)

// ProjectStatus represents the lifecycle status of a project
type ProjectStatus string

const (
	ProjectStatusDraft     ProjectStatus = "draft"
	ProjectStatusPublished ProjectStatus = "published"
	ProjectStatusArchived  ProjectStatus = "archived"
)

// Project represents a build-instructions project. It is the finalizable
// aggregate: FinalizedAt is write-once and marks a committed finalize,
// FinalizingAt is the TTL-bounded finalize lock.
type Project struct {
	ID           uuid.UUID
	UserID       string
	Title        string
	Description  string
	Status       ProjectStatus
	ThumbnailURL *string
	PiecesCount  *int
	PublishedAt  *time.Time
	FinalizedAt  *time.Time
	FinalizingAt *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Finalized reports whether the project has already been committed by a
// successful finalize.
func (p *Project) Finalized() bool {
	return p.FinalizedAt != nil
}

// FinalizeCommit is the single atomic write that concludes a successful
// finalize: thumbnail, finalized marker and lock release land together,
// alongside the conditional draft -> published transition.
type FinalizeCommit struct {
	ThumbnailURL *string
	PiecesCount  *int
	FinalizedAt  time.Time
}
