package cleanup

import (
	"context"
	"time"
)

// ReleaseStaleLocks clears finalize locks older than the lock TTL on projects
// that never got committed. Finalize itself rescues stale locks on demand;
// the sweep just keeps abandoned markers from lingering between attempts.
func (c *cleanupService) ReleaseStaleLocks(ctx context.Context, now time.Time) error {

	cutoff := now.Add(-c.lockTTL)

	cleared, err := c.uow.ProjectRepo().ClearStaleLocks(ctx, cutoff)
	if err != nil {
		return err
	}

	if cleared > 0 {
		c.logger.Info("released stale finalize locks", "count", cleared, "cutoff", cutoff)
	}
	return nil
}
