package finalize

import (
	"context"

	"brickvault/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockFinalizeService is a mock implementation of FinalizeService
type MockFinalizeService struct {
	mock.Mock
}

// NewMockFinalizeService creates a new MockFinalizeService
func NewMockFinalizeService() *MockFinalizeService {
	return &MockFinalizeService{}
}

func (m *MockFinalizeService) Finalize(ctx context.Context, userID string, projectID uuid.UUID, uploads []domain.UploadConfirmation) (*domain.FinalizeResult, *domain.FinalizeError) {
	args := m.Called(ctx, userID, projectID, uploads)

	var result *domain.FinalizeResult
	if args.Get(0) != nil {
		result = args.Get(0).(*domain.FinalizeResult)
	}
	var ferr *domain.FinalizeError
	if args.Get(1) != nil {
		ferr = args.Get(1).(*domain.FinalizeError)
	}
	return result, ferr
}

func (m *MockFinalizeService) GetProject(ctx context.Context, projectID uuid.UUID) (*domain.Project, []domain.ProjectFile, error) {
	args := m.Called(ctx, projectID)

	var project *domain.Project
	if args.Get(0) != nil {
		project = args.Get(0).(*domain.Project)
	}
	var files []domain.ProjectFile
	if args.Get(1) != nil {
		files = args.Get(1).([]domain.ProjectFile)
	}
	return project, files, args.Error(2)
}
