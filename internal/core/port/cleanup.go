package port

import (
	"context"
	"time"
)

// CleanupService is service that handles cleanup
type CleanupService interface {
	// ReleaseStaleLocks clears finalize locks abandoned by crashed attempts.
	// Stale-lock rescue during lock acquisition works without it; the sweep
	// only keeps the table tidy between finalize calls.
	ReleaseStaleLocks(ctx context.Context, now time.Time) error
}
