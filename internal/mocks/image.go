package mocks

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockImageService is a mock implementation of the image service
type MockImageService struct {
	mock.Mock
}

func (m *MockImageService) UploadRecipeImage(ctx context.Context, recipeID uuid.UUID, r io.Reader) (string, error) {
	args := m.Called(ctx, recipeID, r)
	return args.String(0), args.Error(1)
}
