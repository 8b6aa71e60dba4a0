package domain

import (
	"time"

	"github.com/google/uuid"
)

// ProjectFinalizedEvent is published once per fresh finalize commit, never on
// idempotent replays. Downstream consumers (indexing, notifications) key on
// ProjectID.
type ProjectFinalizedEvent struct {
	ProjectID       uuid.UUID `json:"project_id"`
	UserID          string    `json:"user_id"`
	ThumbnailURL    *string   `json:"thumbnail_url,omitempty"`
	TotalPieceCount *int      `json:"total_piece_count,omitempty"`
	FinalizedAt     time.Time `json:"finalized_at"`
}
