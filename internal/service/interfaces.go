package service

import (
	"context"

	"github.com/fridgechef/backend/internal/models"
	"github.com/fridgechef/backend/internal/types"
)

// TextGenerator sends one chat prompt to a text model and returns the raw reply.
type TextGenerator interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// ImageGenerator turns a prompt into encoded image bytes.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) ([]byte, error)
}

// ImageStore persists generated images and returns a servable URL.
type ImageStore interface {
	Save(ctx context.Context, name string, data []byte) (string, error)
}

// NameLocker serializes work on a single key. The returned func releases the lock.
type NameLocker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Signup(ctx context.Context, req *types.SignupRequest) (*models.User, string, error)
	Login(ctx context.Context, username, password string) (*models.User, string, error)
	ValidateToken(token string) (*types.TokenClaims, error)
	GenerateToken(user *models.User) (string, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	ListRecipes(ctx context.Context, limit int) ([]types.RecipeSummary, error)
	GetRecipe(ctx context.Context, id uint, viewer string) (*types.RecipeSummary, error)
	CreateRecipe(ctx context.Context, in *types.RecipeInput) (*models.Recipe, error)
	UpdateRecipe(ctx context.Context, id uint, in *types.RecipeInput) error
	DeleteRecipe(ctx context.Context, id uint, username string) error
}

// IPantryService manages the ingredients a user keeps at home.
type IPantryService interface {
	GetIngredients(ctx context.Context, username string) ([]string, error)
	ReplaceIngredients(ctx context.Context, username string, names []string) ([]string, error)
	RemoveIngredient(ctx context.Context, username, name string) error
}

// IFavoriteService defines favorite and recently viewed lookups.
type IFavoriteService interface {
	ListFavorites(ctx context.Context, username string) ([]types.RecipeSummary, error)
	ToggleFavorite(ctx context.Context, username string, recipeID uint) (bool, error)
	ListRecent(ctx context.Context, username string, limit int) ([]types.RecipeSummary, error)
}

// ICommentService defines the interface for recipe comments
type ICommentService interface {
	ListComments(ctx context.Context, recipeID uint) ([]types.CommentView, error)
	CreateComment(ctx context.Context, recipeID uint, req *types.CommentRequest) (*types.CommentView, error)
}

// IRecommendationService produces recommendation projections.
type IRecommendationService interface {
	Recommend(ctx context.Context, ingredients []string) ([]types.RecommendedRecipe, error)
	RecommendForSituation(ctx context.Context, req *types.SituationalRecommendRequest) ([]SituationalRecipe, error)
}
