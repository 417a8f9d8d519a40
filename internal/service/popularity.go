package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/soyummy/backend/internal/models"
)

// PopularityService ranks recipes by how many users favorited them.
type PopularityService struct {
	db      *gorm.DB
	recipes *RecipeService
}

func NewPopularityService(db *gorm.DB, recipes *RecipeService) *PopularityService {
	return &PopularityService{db: db, recipes: recipes}
}

// RankedRecipe is one row of the ranking.
type RankedRecipe struct {
	RecipeID  uuid.UUID
	Favorites int64
}

// favoritedRecipes restricts the ledger to rows whose recipe still exists.
func favoritedRecipes(db *gorm.DB) *gorm.DB {
	return db.Model(&models.FavoriteRecipe{}).
		Joins("JOIN recipes ON recipes.id = favorite_recipes.recipe_id")
}

// Rank returns one page of (recipe, favorites) ordered by favorites descending,
// ties broken by recipe id, and the number of distinct favorited recipes.
func (s *PopularityService) Rank(ctx context.Context, skip, limit int) (int64, []RankedRecipe, error) {
	var total int64
	err := favoritedRecipes(s.db.WithContext(ctx)).
		Distinct("favorite_recipes.recipe_id").
		Count(&total).Error
	if err != nil {
		return 0, nil, fmt.Errorf("failed to count favorited recipes: %w", err)
	}
	ranked := []RankedRecipe{}
	if total == 0 {
		return 0, ranked, nil
	}

	err = favoritedRecipes(s.db.WithContext(ctx)).
		Select("favorite_recipes.recipe_id AS recipe_id, COUNT(*) AS favorites").
		Group("favorite_recipes.recipe_id").
		Order("favorites DESC, favorite_recipes.recipe_id ASC").
		Offset(skip).
		Limit(limit).
		Scan(&ranked).Error
	if err != nil {
		return 0, nil, fmt.Errorf("failed to rank recipes: %w", err)
	}
	return total, ranked, nil
}

// GetPopular returns the most favorited recipes, in rank order.
func (s *PopularityService) GetPopular(ctx context.Context, skip, limit int) (*RecipePage, error) {
	total, ranked, err := s.Rank(ctx, skip, limit)
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return emptyPage(), nil
	}

	ids := make([]uuid.UUID, len(ranked))
	for i, r := range ranked {
		ids[i] = r.RecipeID
	}
	rows, err := s.recipes.GetRecipesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return &RecipePage{Count: total, Rows: rows}, nil
}
