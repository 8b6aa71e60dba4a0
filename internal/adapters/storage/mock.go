package storage

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockStorage struct {
	mock.Mock
}

func NewMockStorage() *MockStorage {
	return &MockStorage{}
}

func (m *MockStorage) ObjectSize(ctx context.Context, fileKey string) (int64, error) {
	args := m.Called(ctx, fileKey)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) GetHeaderBytes(ctx context.Context, fileKey string, n int64) ([]byte, error) {
	args := m.Called(ctx, fileKey, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockStorage) GetObject(ctx context.Context, fileKey string) ([]byte, error) {
	args := m.Called(ctx, fileKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
