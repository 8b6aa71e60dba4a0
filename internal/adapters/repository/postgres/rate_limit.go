package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"brickvault/internal/core/domain"
	"brickvault/internal/core/port"
)

type sqlRateLimiter struct {
	db     SQLQuerier
	perDay int
}

// NewSqlRateLimiter creates sqlRateLimiter that implements port.RateLimiter.
// The daily counter is incremented during phase 1 (upload-target issuance);
// finalize only reads it, so Check is side-effect-free.
func NewSqlRateLimiter(db SQLQuerier, perDay int) port.RateLimiter {
	return &sqlRateLimiter{db: db, perDay: perDay}
}

// Check reads the caller's count in the current UTC day window and reports
// whether another upload is allowed, plus when to retry if not.
func (s *sqlRateLimiter) Check(ctx context.Context, userID string) (domain.RateLimitDecision, error) {
	now := time.Now().UTC()
	windowStart := now.Truncate(24 * time.Hour)

	query := `SELECT request_count FROM upload_rate_limits WHERE user_id = $1 AND window_start = $2`

	var count int
	err := s.db.QueryRowContext(ctx, query, userID, windowStart).Scan(&count)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return domain.RateLimitDecision{}, fmt.Errorf("error querying rate limit window: %w", err)
	}

	nextAllowedAt := windowStart.Add(24 * time.Hour)
	decision := domain.RateLimitDecision{
		Allowed:      count < s.perDay,
		CurrentCount: count,
		Remaining:    max(s.perDay-count, 0),
	}
	if !decision.Allowed {
		decision.NextAllowedAt = nextAllowedAt
		decision.RetryAfterSeconds = int(nextAllowedAt.Sub(now).Seconds())
	}
	return decision, nil
}
