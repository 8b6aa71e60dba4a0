package cleanup

import (
	"log/slog"
	"time"

	"brickvault/internal/core/port"
)

type cleanupService struct {
	uow     port.UnitOfWork
	lockTTL time.Duration
	logger  *slog.Logger
}

// NewCleanupService creates a new cleanup service
func NewCleanupService(uow port.UnitOfWork, lockTTL time.Duration, logger *slog.Logger) port.CleanupService {
	return &cleanupService{
		uow:     uow,
		lockTTL: lockTTL,
		logger:  logger,
	}
}
