package port

import (
	"context"

	"brickvault/internal/core/domain"
)

// RateLimiter is an interface to define the per-user daily quota check. Check
// is a side-effect-free query: the quota is consumed during phase 1, finalize
// only reads it.
type RateLimiter interface {
	Check(ctx context.Context, userID string) (domain.RateLimitDecision, error)
}
