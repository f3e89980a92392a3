package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ekurt/clouddepo/internal/domain/entities"
)

// MockShareRepository is a mock implementation of repository.ShareRepository
type MockShareRepository struct {
	mock.Mock
}

func (m *MockShareRepository) Upsert(ctx context.Context, grant *entities.ShareGrant) error {
	args := m.Called(ctx, grant)
	return args.Error(0)
}

func (m *MockShareRepository) Get(ctx context.Context, fileID, granteeID int64) (*entities.ShareGrant, error) {
	args := m.Called(ctx, fileID, granteeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ShareGrant), args.Error(1)
}

func (m *MockShareRepository) ListByFile(ctx context.Context, fileID int64) ([]*entities.ShareGrant, error) {
	args := m.Called(ctx, fileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.ShareGrant), args.Error(1)
}

func (m *MockShareRepository) DeleteByFile(ctx context.Context, fileID int64) error {
	args := m.Called(ctx, fileID)
	return args.Error(0)
}
