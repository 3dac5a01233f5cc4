package service

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/pageza/recipe-share/backend/internal/models"
	"github.com/pageza/recipe-share/backend/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, username, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (string, error)
	ValidateToken(token string) (*types.TokenClaims, error)
	GenerateToken(claims *types.TokenClaims) (string, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error)
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	ListAll(ctx context.Context, opts types.ListOptions) ([]types.RecipeView, error)
	ListByAuthor(ctx context.Context, username string, opts types.ListOptions) ([]types.RecipeView, error)
	ListByTag(ctx context.Context, tag string, opts types.ListOptions) ([]types.RecipeView, error)
	GetByID(ctx context.Context, id string) (*types.RecipeView, error)
	Create(ctx context.Context, callerID uuid.UUID, req *types.CreateRecipeRequest) (*types.RecipeView, error)
	Update(ctx context.Context, callerID uuid.UUID, id string, req *types.UpdateRecipeRequest) (*types.RecipeView, error)
	Delete(ctx context.Context, callerID uuid.UUID, id string) (int64, error)
	ToggleLike(ctx context.Context, callerID uuid.UUID, id string) (*types.RecipeView, error)
}

// IImageService defines the interface for recipe image storage
type IImageService interface {
	UploadRecipeImage(ctx context.Context, recipeID uuid.UUID, r io.Reader) (string, error)
}

var (
	_ IAuthService   = (*AuthService)(nil)
	_ IRecipeService = (*RecipeService)(nil)
	_ IImageService  = (*ImageService)(nil)
)
