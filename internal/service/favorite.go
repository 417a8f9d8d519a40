package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/soyummy/backend/internal/logger"
	"github.com/pageza/soyummy/backend/internal/metrics"
	"github.com/pageza/soyummy/backend/internal/models"
)

// FavoriteService manages the favorites ledger. Callers check that the recipe
// exists before adding or removing.
type FavoriteService struct {
	db      *gorm.DB
	recipes *RecipeService
	log     *zap.Logger
}

func NewFavoriteService(db *gorm.DB, recipes *RecipeService) *FavoriteService {
	return &FavoriteService{
		db:      db,
		recipes: recipes,
		log:     logger.Named("favorites"),
	}
}

// AddToFavorites records that userID favorited recipeID. Adding twice is not an
// error: the existing row is returned and created is false. The insert relies
// on the (user_id, recipe_id) unique index, so concurrent adds cannot duplicate.
func (s *FavoriteService) AddToFavorites(ctx context.Context, recipeID, userID uuid.UUID) (*models.FavoriteRecipe, bool, error) {
	fav := models.FavoriteRecipe{UserID: userID, RecipeID: recipeID}
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "recipe_id"}},
			DoNothing: true,
		}).
		Create(&fav)
	if res.Error != nil {
		return nil, false, fmt.Errorf("failed to add favorite: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		metrics.RecordFavoriteChange("add")
		s.log.Debug("favorite added", zap.String("recipe_id", recipeID.String()), zap.String("user_id", userID.String()))
		return &fav, true, nil
	}

	var existing models.FavoriteRecipe
	if err := s.db.WithContext(ctx).Where("user_id = ? AND recipe_id = ?", userID, recipeID).First(&existing).Error; err != nil {
		return nil, false, fmt.Errorf("failed to load existing favorite: %w", err)
	}
	return &existing, false, nil
}

// RemoveFromFavorites deletes the pair if present and reports whether a row was removed.
func (s *FavoriteService) RemoveFromFavorites(ctx context.Context, recipeID, userID uuid.UUID) (bool, error) {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.FavoriteRecipe{})
	if res.Error != nil {
		return false, fmt.Errorf("failed to remove favorite: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		metrics.RecordFavoriteChange("remove")
		return true, nil
	}
	return false, nil
}

// GetMyFavorites returns how many recipes userID favorited and one page of
// their ids, most recently favorited first.
func (s *FavoriteService) GetMyFavorites(ctx context.Context, userID uuid.UUID, skip, limit int) (int64, []uuid.UUID, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.FavoriteRecipe{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return 0, nil, fmt.Errorf("failed to count favorites: %w", err)
	}
	ids := []uuid.UUID{}
	if count == 0 {
		return 0, ids, nil
	}

	err := s.db.WithContext(ctx).
		Model(&models.FavoriteRecipe{}).
		Where("user_id = ?", userID).
		Order("created_at DESC, recipe_id ASC").
		Offset(skip).
		Limit(limit).
		Pluck("recipe_id", &ids).Error
	if err != nil {
		return 0, nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	return count, ids, nil
}

// ListFavoriteRecipes is GetMyFavorites expanded to full recipes in ledger order.
func (s *FavoriteService) ListFavoriteRecipes(ctx context.Context, userID uuid.UUID, skip, limit int) (*RecipePage, error) {
	count, ids, err := s.GetMyFavorites(ctx, userID, skip, limit)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return emptyPage(), nil
	}

	rows, err := s.recipes.GetRecipesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return &RecipePage{Count: count, Rows: rows}, nil
}

// CountByUser counts a user's favorites.
func (s *FavoriteService) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.FavoriteRecipe{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count favorites: %w", err)
	}
	return count, nil
}
