package nats_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	nats2 "brickvault/internal/adapters/eventbroker/nats"
	"brickvault/internal/config"
	"brickvault/internal/core/domain"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupNATSContainer(t *testing.T) (string, func()) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "nats:2.10-alpine",
		ExposedPorts: []string{"4222/tcp"},
		Cmd:          []string{"-js"},
		WaitingFor:   wait.ForLog("Server is ready"),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, "4222")
	require.NoError(t, err)

	cleanup := func() {
		_ = container.Terminate(ctx)
	}

	return "nats://" + host + ":" + port.Port(), cleanup
}

func TestPublisher_ProjectFinalized(t *testing.T) {
	// Arrange
	natsURL, cleanup := setupNATSContainer(t)
	defer cleanup()

	cfg := config.NATSConfig{
		URL:        natsURL,
		ClientName: "test-publisher",
		StreamName: "test-stream",
		Subject:    "project.finalized",
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	publisher, err := nats2.NewNATSPublisher(ctx, cfg, logger)
	require.NoError(t, err)
	defer publisher.Close()

	thumbnail := "/uploads/projects/thumb.jpg"
	pieces := 512
	event := domain.ProjectFinalizedEvent{
		ProjectID:       uuid.New(),
		UserID:          "user-1",
		ThumbnailURL:    &thumbnail,
		TotalPieceCount: &pieces,
		FinalizedAt:     time.Now().UTC().Round(time.Second),
	}

	// Act
	err = publisher.ProjectFinalized(ctx, event)

	// Assert
	require.NoError(t, err)

	nc, err := nats.Connect(natsURL)
	require.NoError(t, err)
	defer nc.Close()

	js, err := jetstream.New(nc)
	require.NoError(t, err)

	cons, err := js.CreateOrUpdateConsumer(ctx, cfg.StreamName, jetstream.ConsumerConfig{
		AckPolicy:     jetstream.AckExplicitPolicy,
		FilterSubject: cfg.Subject,
	})
	require.NoError(t, err)

	msg, err := cons.Next(jetstream.FetchMaxWait(3 * time.Second))
	require.NoError(t, err)

	var received domain.ProjectFinalizedEvent
	require.NoError(t, json.Unmarshal(msg.Data(), &received))
	assert.Equal(t, event.ProjectID, received.ProjectID)
	assert.Equal(t, event.UserID, received.UserID)
	require.NotNil(t, received.ThumbnailURL)
	assert.Equal(t, thumbnail, *received.ThumbnailURL)
	require.NotNil(t, received.TotalPieceCount)
	assert.Equal(t, pieces, *received.TotalPieceCount)
}

func TestPublisher_CreatesStreamOnStartup(t *testing.T) {
	// Arrange
	natsURL, cleanup := setupNATSContainer(t)
	defer cleanup()

	cfg := config.NATSConfig{
		URL:        natsURL,
		ClientName: "test-publisher",
		StreamName: "startup-stream",
		Subject:    "project.finalized",
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	// Act
	publisher, err := nats2.NewNATSPublisher(ctx, cfg, logger)

	// Assert
	require.NoError(t, err)
	defer publisher.Close()

	nc, err := nats.Connect(natsURL)
	require.NoError(t, err)
	defer nc.Close()

	js, err := jetstream.New(nc)
	require.NoError(t, err)

	stream, err := js.Stream(ctx, cfg.StreamName)
	require.NoError(t, err)
	assert.Equal(t, cfg.StreamName, stream.CachedInfo().Config.Name)
}
