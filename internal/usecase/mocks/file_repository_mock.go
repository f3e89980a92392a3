package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ekurt/clouddepo/internal/domain/entities"
)

// MockFileRepository is a mock implementation of repository.FileRepository
type MockFileRepository struct {
	mock.Mock
}

func (m *MockFileRepository) Create(ctx context.Context, file *entities.File) (*entities.File, error) {
	args := m.Called(ctx, file)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.File), args.Error(1)
}

func (m *MockFileRepository) GetByID(ctx context.Context, id int64) (*entities.File, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.File), args.Error(1)
}

func (m *MockFileRepository) Update(ctx context.Context, id int64, update entities.FileUpdate) error {
	args := m.Called(ctx, id, update)
	return args.Error(0)
}

func (m *MockFileRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockFileRepository) IncrementDownloadCount(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockFileRepository) SetShared(ctx context.Context, id int64, shared bool) error {
	args := m.Called(ctx, id, shared)
	return args.Error(0)
}

func (m *MockFileRepository) ListAccessible(ctx context.Context, userID int64, filter entities.FileFilter, page entities.FilePage) ([]*entities.File, int, error) {
	args := m.Called(ctx, userID, filter, page)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*entities.File), args.Int(1), args.Error(2)
}

func (m *MockFileRepository) SumSizeByOwner(ctx context.Context, ownerID int64) (int64, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(int64), args.Error(1)
}
