package port

import (
	"context"

	"brickvault/internal/core/domain"
)

// EventPublisher is an interface to define an event publisher (nats, kafka, ...)
type EventPublisher interface {
	ProjectFinalized(ctx context.Context, event domain.ProjectFinalizedEvent) error
	Close() error
}
