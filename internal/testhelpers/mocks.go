package testhelpers

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockTextGenerator is a mock implementation of the text generator
type MockTextGenerator struct {
	mock.Mock
}

func (m *MockTextGenerator) Complete(ctx context.Context, system, prompt string) (string, error) {
	args := m.Called(ctx, system, prompt)
	return args.String(0), args.Error(1)
}

// MockImageGenerator is a mock implementation of the image generator
type MockImageGenerator struct {
	mock.Mock
}

func (m *MockImageGenerator) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	args := m.Called(ctx, prompt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockImageStore is a mock implementation of the image store
type MockImageStore struct {
	mock.Mock
}

func (m *MockImageStore) Save(ctx context.Context, name string, data []byte) (string, error) {
	args := m.Called(ctx, name, data)
	return args.String(0), args.Error(1)
}
