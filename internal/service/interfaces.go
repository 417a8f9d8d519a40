package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/pageza/soyummy/backend/internal/models"
	"github.com/pageza/soyummy/backend/internal/storage"
	"github.com/pageza/soyummy/backend/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, name, email, password string) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	Logout(ctx context.Context, userID uuid.UUID) error
	ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error)
}

// ICatalogService resolves and lists reference data
type ICatalogService interface {
	ResolveCategory(ctx context.Context, name string) (uuid.UUID, bool, error)
	ResolveArea(ctx context.Context, name string) (uuid.UUID, bool, error)
	ResolveIngredient(ctx context.Context, name string) (uuid.UUID, bool, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListAreas(ctx context.Context) ([]models.Area, error)
	ListIngredients(ctx context.Context, name string) ([]models.Ingredient, error)
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	GetRecipesByFilter(ctx context.Context, filter RecipeFilter, skip, limit int) (*RecipePage, error)
	GetRecipeByID(ctx context.Context, id uuid.UUID) (*models.Recipe, error)
	GetRecipesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Recipe, error)
	CreateRecipe(ctx context.Context, input CreateRecipeInput) (*models.Recipe, error)
	DeleteRecipe(ctx context.Context, id, ownerID uuid.UUID) error
}

// IFavoriteService defines the favorites ledger
type IFavoriteService interface {
	AddToFavorites(ctx context.Context, recipeID, userID uuid.UUID) (*models.FavoriteRecipe, bool, error)
	RemoveFromFavorites(ctx context.Context, recipeID, userID uuid.UUID) (bool, error)
	GetMyFavorites(ctx context.Context, userID uuid.UUID, skip, limit int) (int64, []uuid.UUID, error)
	ListFavoriteRecipes(ctx context.Context, userID uuid.UUID, skip, limit int) (*RecipePage, error)
}

type IPopularityService interface {
	GetPopular(ctx context.Context, skip, limit int) (*RecipePage, error)
}

type IUserService interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserDetails(ctx context.Context, userID, viewerID uuid.UUID) (*UserDetails, error)
	UpdateAvatar(ctx context.Context, userID uuid.UUID, file storage.File) (string, error)
}

type ITestimonialService interface {
	ListTestimonials(ctx context.Context) ([]models.Testimonial, error)
}
