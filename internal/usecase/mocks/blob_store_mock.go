package mocks

import (
	"io"

	"github.com/stretchr/testify/mock"
)

// MockBlobStore is a mock implementation of storage.BlobStore
type MockBlobStore struct {
	mock.Mock
}

func (m *MockBlobStore) Put(reader io.Reader, originalName string) (string, int64, error) {
	args := m.Called(reader, originalName)
	return args.String(0), args.Get(1).(int64), args.Error(2)
}

func (m *MockBlobStore) Get(handle string) (io.ReadCloser, error) {
	args := m.Called(handle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockBlobStore) Delete(handle string) error {
	args := m.Called(handle)
	return args.Error(0)
}

func (m *MockBlobStore) Exists(handle string) bool {
	args := m.Called(handle)
	return args.Bool(0)
}
