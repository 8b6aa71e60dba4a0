package repository

import (
	"context"
	"time"

	"brickvault/internal/core/domain"
	"brickvault/internal/core/port"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockProjectRepository struct {
	mock.Mock
}

func NewMockProjectRepository() *MockProjectRepository {
	return &MockProjectRepository{}
}

func (m *MockProjectRepository) Create(ctx context.Context, project domain.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *MockProjectRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *MockProjectRepository) AcquireFinalizeLock(ctx context.Context, id uuid.UUID, staleCutoff time.Time) (*domain.Project, error) {
	args := m.Called(ctx, id, staleCutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *MockProjectRepository) ClearFinalizeLock(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProjectRepository) ClearStaleLocks(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProjectRepository) CommitFinalize(ctx context.Context, id uuid.UUID, commit domain.FinalizeCommit) (*domain.Project, error) {
	args := m.Called(ctx, id, commit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

type MockProjectFileRepository struct {
	mock.Mock
}

func NewMockProjectFileRepository() *MockProjectFileRepository {
	return &MockProjectFileRepository{}
}

func (m *MockProjectFileRepository) Create(ctx context.Context, file domain.ProjectFile) error {
	args := m.Called(ctx, file)
	return args.Error(0)
}

func (m *MockProjectFileRepository) FindByProjectID(ctx context.Context, projectID uuid.UUID, fileIDs ...uuid.UUID) ([]domain.ProjectFile, error) {
	args := m.Called(ctx, projectID, fileIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ProjectFile), args.Error(1)
}

func (m *MockProjectFileRepository) UpdateFileType(ctx context.Context, id uuid.UUID, fileType domain.FileType) error {
	args := m.Called(ctx, id, fileType)
	return args.Error(0)
}

type MockRateLimiter struct {
	mock.Mock
}

func NewMockRateLimiter() *MockRateLimiter {
	return &MockRateLimiter{}
}

func (m *MockRateLimiter) Check(ctx context.Context, userID string) (domain.RateLimitDecision, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(domain.RateLimitDecision), args.Error(1)
}

type MockUnitOfWork struct {
	mock.Mock
	projectRepo     *MockProjectRepository
	projectFileRepo *MockProjectFileRepository
}

func NewMockUnitOfWork() *MockUnitOfWork {
	return &MockUnitOfWork{
		projectRepo:     &MockProjectRepository{},
		projectFileRepo: &MockProjectFileRepository{},
	}
}

func (m *MockUnitOfWork) ProjectRepo() port.ProjectRepository {
	return m.projectRepo
}

func (m *MockUnitOfWork) ProjectFileRepo() port.ProjectFileRepository {
	return m.projectFileRepo
}

func (m *MockUnitOfWork) Execute(ctx context.Context, fn func(uow port.UnitOfWork) error) error {
	args := m.Called(ctx, fn)

	if err := fn(m); err != nil {
		return err
	}

	return args.Error(0)
}

func (m *MockUnitOfWork) GetProjectRepoMock() *MockProjectRepository {
	return m.projectRepo
}

func (m *MockUnitOfWork) GetProjectFileRepoMock() *MockProjectFileRepository {
	return m.projectFileRepo
}
