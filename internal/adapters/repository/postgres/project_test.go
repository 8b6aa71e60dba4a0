package postgres_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"brickvault/internal/adapters/repository/postgres"
	"brickvault/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestSqlProjectRepository(t *testing.T) {
	dbConnection, cleanup, truncate := postgres.NewTestDB(t)
	defer cleanup()
	ctx := context.Background()

	repo := postgres.NewSqlProjectRepository(dbConnection)

	setupProject := func(t *testing.T, userID string) uuid.UUID {
		t.Helper()
		id := uuid.New()
		err := repo.Create(ctx, domain.Project{
			ID:     id,
			UserID: userID,
			Title:  "Modular Castle",
			Status: domain.ProjectStatusDraft,
		})
		require.NoError(t, err)
		return id
	}

	t.Run("Create and FindByID - Nominal case", func(t *testing.T) {
		// Arrange
		truncate()
		id := setupProject(t, "user-1")

		// Act
		found, err := repo.FindByID(ctx, id)

		// Assert
		require.NoError(t, err)
		require.Equal(t, id, found.ID)
		require.Equal(t, "user-1", found.UserID)
		require.Equal(t, domain.ProjectStatusDraft, found.Status)
		require.Nil(t, found.FinalizedAt)
		require.Nil(t, found.FinalizingAt)
		require.Nil(t, found.PublishedAt)
	})

	t.Run("FindByID - Not found", func(t *testing.T) {
		// Arrange
		truncate()

		// Act
		found, err := repo.FindByID(ctx, uuid.New())

		// Assert
		require.ErrorIs(t, err, domain.ErrProjectNotFound)
		require.Nil(t, found)
	})

	t.Run("AcquireFinalizeLock - Nominal case", func(t *testing.T) {
		// Arrange
		truncate()
		id := setupProject(t, "user-1")
		staleCutoff := time.Now().Add(-5 * time.Minute)

		// Act
		locked, err := repo.AcquireFinalizeLock(ctx, id, staleCutoff)

		// Assert
		require.NoError(t, err)
		require.NotNil(t, locked.FinalizingAt)
		require.WithinDuration(t, time.Now(), *locked.FinalizingAt, 5*time.Second)
	})

	t.Run("AcquireFinalizeLock - Fails while a fresh lock is held", func(t *testing.T) {
		// Arrange
		truncate()
		id := setupProject(t, "user-1")
		staleCutoff := time.Now().Add(-5 * time.Minute)
		_, err := repo.AcquireFinalizeLock(ctx, id, staleCutoff)
		require.NoError(t, err)

		// Act
		locked, err := repo.AcquireFinalizeLock(ctx, id, staleCutoff)

		// Assert
		require.ErrorIs(t, err, domain.ErrLockNotAcquired)
		require.Nil(t, locked)
	})

	t.Run("AcquireFinalizeLock - Rescues a stale lock", func(t *testing.T) {
		// Arrange
		truncate()
		id := setupProject(t, "user-1")
		_, err := dbConnection.ExecContext(ctx,
			`UPDATE projects SET finalizing_at = now() - interval '10 minutes' WHERE id = $1`, id)
		require.NoError(t, err)

		// Act
		locked, err := repo.AcquireFinalizeLock(ctx, id, time.Now().Add(-5*time.Minute))

		// Assert
		require.NoError(t, err)
		require.NotNil(t, locked.FinalizingAt)
		require.WithinDuration(t, time.Now(), *locked.FinalizingAt, 5*time.Second)
	})

	t.Run("AcquireFinalizeLock - Fails on a finalized project", func(t *testing.T) {
		// Arrange
		truncate()
		id := setupProject(t, "user-1")
		_, err := repo.CommitFinalize(ctx, id, domain.FinalizeCommit{FinalizedAt: time.Now()})
		require.NoError(t, err)

		// Act
		locked, err := repo.AcquireFinalizeLock(ctx, id, time.Now().Add(-5*time.Minute))

		// Assert
		require.ErrorIs(t, err, domain.ErrLockNotAcquired)
		require.Nil(t, locked)
	})

	t.Run("AcquireFinalizeLock - Exactly one of many concurrent callers wins", func(t *testing.T) {
		// Arrange
		truncate()
		id := setupProject(t, "user-1")
		staleCutoff := time.Now().Add(-5 * time.Minute)
		const callers = 8

		// Act
		var wg sync.WaitGroup
		wins := make(chan struct{}, callers)
		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := repo.AcquireFinalizeLock(ctx, id, staleCutoff); err == nil {
					wins <- struct{}{}
				}
			}()
		}
		wg.Wait()
		close(wins)

		// Assert
		require.Len(t, wins, 1)
	})

	t.Run("ClearFinalizeLock - Releases the lock for a new acquisition", func(t *testing.T) {
		// Arrange
		truncate()
		id := setupProject(t, "user-1")
		staleCutoff := time.Now().Add(-5 * time.Minute)
		_, err := repo.AcquireFinalizeLock(ctx, id, staleCutoff)
		require.NoError(t, err)

		// Act
		err = repo.ClearFinalizeLock(ctx, id)

		// Assert
		require.NoError(t, err)
		locked, err := repo.AcquireFinalizeLock(ctx, id, staleCutoff)
		require.NoError(t, err)
		require.NotNil(t, locked)
	})

	t.Run("ClearFinalizeLock - Not found", func(t *testing.T) {
		// Arrange
		truncate()

		// Act
		err := repo.ClearFinalizeLock(ctx, uuid.New())

		// Assert
		require.ErrorIs(t, err, domain.ErrProjectNotFound)
	})

	t.Run("ClearStaleLocks - Releases only locks older than the cutoff", func(t *testing.T) {
		// Arrange
		truncate()
		staleID := setupProject(t, "user-1")
		freshID := setupProject(t, "user-2")
		_, err := dbConnection.ExecContext(ctx,
			`UPDATE projects SET finalizing_at = now() - interval '10 minutes' WHERE id = $1`, staleID)
		require.NoError(t, err)
		_, err = repo.AcquireFinalizeLock(ctx, freshID, time.Now().Add(-5*time.Minute))
		require.NoError(t, err)

		// Act
		cleared, err := repo.ClearStaleLocks(ctx, time.Now().Add(-5*time.Minute))

		// Assert
		require.NoError(t, err)
		require.EqualValues(t, 1, cleared)
		stale, _ := repo.FindByID(ctx, staleID)
		require.Nil(t, stale.FinalizingAt)
		fresh, _ := repo.FindByID(ctx, freshID)
		require.NotNil(t, fresh.FinalizingAt)
	})

	t.Run("CommitFinalize - Publishes a draft with matching timestamps", func(t *testing.T) {
		// Arrange
		truncate()
		id := setupProject(t, "user-1")
		_, err := repo.AcquireFinalizeLock(ctx, id, time.Now().Add(-5*time.Minute))
		require.NoError(t, err)
		thumbnail := "/uploads/projects/thumb.jpg"
		pieces := 420
		finalizedAt := time.Now().Round(time.Microsecond)

		// Act
		committed, err := repo.CommitFinalize(ctx, id, domain.FinalizeCommit{
			ThumbnailURL: &thumbnail,
			PiecesCount:  &pieces,
			FinalizedAt:  finalizedAt,
		})

		// Assert
		require.NoError(t, err)
		require.Equal(t, domain.ProjectStatusPublished, committed.Status)
		require.NotNil(t, committed.ThumbnailURL)
		require.Equal(t, thumbnail, *committed.ThumbnailURL)
		require.NotNil(t, committed.PiecesCount)
		require.Equal(t, pieces, *committed.PiecesCount)
		require.Nil(t, committed.FinalizingAt)
		require.NotNil(t, committed.FinalizedAt)
		require.NotNil(t, committed.PublishedAt)
		require.True(t, committed.PublishedAt.Equal(*committed.FinalizedAt))
	})

	t.Run("CommitFinalize - Preserves status and publishedAt of a non-draft", func(t *testing.T) {
		// Arrange
		truncate()
		id := setupProject(t, "user-1")
		earlier := time.Now().Add(-24 * time.Hour).Round(time.Microsecond)
		_, err := dbConnection.ExecContext(ctx,
			`UPDATE projects SET status = 'archived', published_at = $2 WHERE id = $1`, id, earlier)
		require.NoError(t, err)

		// Act
		committed, err := repo.CommitFinalize(ctx, id, domain.FinalizeCommit{FinalizedAt: time.Now()})

		// Assert
		require.NoError(t, err)
		require.Equal(t, domain.ProjectStatusArchived, committed.Status)
		require.NotNil(t, committed.PublishedAt)
		require.WithinDuration(t, earlier, *committed.PublishedAt, time.Second)
	})

	t.Run("CommitFinalize - Second commit is rejected", func(t *testing.T) {
		// Arrange
		truncate()
		id := setupProject(t, "user-1")
		first, err := repo.CommitFinalize(ctx, id, domain.FinalizeCommit{FinalizedAt: time.Now()})
		require.NoError(t, err)

		// Act
		second, err := repo.CommitFinalize(ctx, id, domain.FinalizeCommit{FinalizedAt: time.Now().Add(time.Hour)})

		// Assert
		require.ErrorIs(t, err, domain.ErrProjectNotFound)
		require.Nil(t, second)
		current, _ := repo.FindByID(ctx, id)
		require.True(t, current.FinalizedAt.Equal(*first.FinalizedAt))
	})
}
