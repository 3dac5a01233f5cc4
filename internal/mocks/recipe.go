package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/pageza/recipe-share/backend/internal/types"
	"github.com/stretchr/testify/mock"
)

// MockRecipeService is a mock implementation of the recipe service
type MockRecipeService struct {
	mock.Mock
}

func (m *MockRecipeService) views(args mock.Arguments) ([]types.RecipeView, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.RecipeView), args.Error(1)
}

func (m *MockRecipeService) view(args mock.Arguments) (*types.RecipeView, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.RecipeView), args.Error(1)
}

// ListAll mocks the ListAll method
func (m *MockRecipeService) ListAll(ctx context.Context, opts types.ListOptions) ([]types.RecipeView, error) {
	return m.views(m.Called(ctx, opts))
}

// ListByAuthor mocks the ListByAuthor method
func (m *MockRecipeService) ListByAuthor(ctx context.Context, username string, opts types.ListOptions) ([]types.RecipeView, error) {
	return m.views(m.Called(ctx, username, opts))
}

// ListByTag mocks the ListByTag method
func (m *MockRecipeService) ListByTag(ctx context.Context, tag string, opts types.ListOptions) ([]types.RecipeView, error) {
	return m.views(m.Called(ctx, tag, opts))
}

// GetByID mocks the GetByID method
func (m *MockRecipeService) GetByID(ctx context.Context, id string) (*types.RecipeView, error) {
	return m.view(m.Called(ctx, id))
}

// Create mocks the Create method
func (m *MockRecipeService) Create(ctx context.Context, callerID uuid.UUID, req *types.CreateRecipeRequest) (*types.RecipeView, error) {
	return m.view(m.Called(ctx, callerID, req))
}

// Update mocks the Update method
func (m *MockRecipeService) Update(ctx context.Context, callerID uuid.UUID, id string, req *types.UpdateRecipeRequest) (*types.RecipeView, error) {
	return m.view(m.Called(ctx, callerID, id, req))
}

// Delete mocks the Delete method
func (m *MockRecipeService) Delete(ctx context.Context, callerID uuid.UUID, id string) (int64, error) {
	args := m.Called(ctx, callerID, id)
	return args.Get(0).(int64), args.Error(1)
}

// ToggleLike mocks the ToggleLike method
func (m *MockRecipeService) ToggleLike(ctx context.Context, callerID uuid.UUID, id string) (*types.RecipeView, error) {
	return m.view(m.Called(ctx, callerID, id))
}
