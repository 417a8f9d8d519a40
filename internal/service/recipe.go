package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/soyummy/backend/internal/logger"
	"github.com/pageza/soyummy/backend/internal/metrics"
	"github.com/pageza/soyummy/backend/internal/models"
	"github.com/pageza/soyummy/backend/internal/storage"
)

// RecipeFilter holds the optional criteria of a recipe search. Empty strings
// and a nil OwnerID mean "not filtered".
type RecipeFilter struct {
	Category   string
	Ingredient string
	Area       string
	OwnerID    *uuid.UUID
}

// RecipePage is one page of recipes and the total number of matches.
type RecipePage struct {
	Count int64
	Rows  []models.Recipe
}

func emptyPage() *RecipePage {
	return &RecipePage{Count: 0, Rows: []models.Recipe{}}
}

type IngredientInput struct {
	ID      uuid.UUID
	Measure string
}

// CreateRecipeInput is a validated recipe submission.
type CreateRecipeInput struct {
	OwnerID      uuid.UUID
	Title        string
	Description  string
	Instructions string
	Time         string
	Category     string
	Area         string
	Ingredients  []IngredientInput
	Image        storage.File
}

// RecipeService handles recipe operations
type RecipeService struct {
	db      *gorm.DB
	catalog *CatalogService
	images  storage.ImageStore
	log     *zap.Logger
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB, catalog *CatalogService, images storage.ImageStore) *RecipeService {
	return &RecipeService{
		db:      db,
		catalog: catalog,
		images:  images,
		log:     logger.Named("recipes"),
	}
}

// withAssociations eager loads everything the recipe wire shape needs.
func withAssociations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Category").
		Preload("Area").
		Preload("Owner").
		Preload("Ingredients.Ingredient")
}

type resolved struct {
	id uuid.UUID
	ok bool
}

// GetRecipesByFilter returns a page of recipes matching every supplied
// criterion, newest first. A supplied name that matches no catalog entry
// yields an empty page without querying recipes.
func (s *RecipeService) GetRecipesByFilter(ctx context.Context, filter RecipeFilter, skip, limit int) (*RecipePage, error) {
	category := strings.TrimSpace(filter.Category)
	area := strings.TrimSpace(filter.Area)
	ingredient := strings.TrimSpace(filter.Ingredient)

	var cat, ar, ing resolved
	g, gctx := errgroup.WithContext(ctx)
	if category != "" {
		g.Go(func() (err error) {
			cat.id, cat.ok, err = s.catalog.ResolveCategory(gctx, category)
			return err
		})
	}
	if area != "" {
		g.Go(func() (err error) {
			ar.id, ar.ok, err = s.catalog.ResolveArea(gctx, area)
			return err
		})
	}
	if ingredient != "" {
		g.Go(func() (err error) {
			ing.id, ing.ok, err = s.catalog.ResolveIngredient(gctx, ingredient)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if (category != "" && !cat.ok) || (area != "" && !ar.ok) || (ingredient != "" && !ing.ok) {
		return emptyPage(), nil
	}

	predicate := func(db *gorm.DB) *gorm.DB {
		if cat.ok {
			db = db.Where("recipes.category_id = ?", cat.id)
		}
		if ar.ok {
			db = db.Where("recipes.area_id = ?", ar.id)
		}
		if filter.OwnerID != nil {
			db = db.Where("recipes.owner_id = ?", *filter.OwnerID)
		}
		if ing.ok {
			db = db.Where("EXISTS (SELECT 1 FROM recipe_ingredients ri WHERE ri.recipe_id = recipes.id AND ri.ingredient_id = ?)", ing.id)
		}
		return db
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Recipe{}).Scopes(predicate).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to count recipes: %w", err)
	}
	if count == 0 {
		return emptyPage(), nil
	}

	rows := []models.Recipe{}
	err := withAssociations(s.db.WithContext(ctx)).
		Scopes(predicate).
		Order("recipes.created_at DESC, recipes.id DESC").
		Offset(skip).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recipes: %w", err)
	}

	return &RecipePage{Count: count, Rows: rows}, nil
}

// GetRecipeByID returns a hydrated recipe or ErrRecipeNotFound.
func (s *RecipeService) GetRecipeByID(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := withAssociations(s.db.WithContext(ctx)).First(&recipe, "recipes.id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}
	return &recipe, nil
}

// GetRecipesByIDs hydrates recipes in the order of ids. Ids without a row are dropped.
func (s *RecipeService) GetRecipesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Recipe, error) {
	rows := []models.Recipe{}
	if len(ids) == 0 {
		return rows, nil
	}

	if err := withAssociations(s.db.WithContext(ctx)).Where("recipes.id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch recipes by id: %w", err)
	}

	rank := make(map[uuid.UUID]int, len(ids))
	for i, id := range ids {
		if _, seen := rank[id]; !seen {
			rank[id] = i
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rank[rows[i].ID] < rank[rows[j].ID]
	})
	return rows, nil
}

// CreateRecipe validates references, stores the image and inserts the recipe
// with its ingredient rows in one transaction.
func (s *RecipeService) CreateRecipe(ctx context.Context, input CreateRecipeInput) (*models.Recipe, error) {
	if len(input.Ingredients) == 0 {
		return nil, newError(ErrValidation, "at least one ingredient is required")
	}
	ingredientIDs := make([]uuid.UUID, 0, len(input.Ingredients))
	seen := make(map[uuid.UUID]bool, len(input.Ingredients))
	for _, in := range input.Ingredients {
		if seen[in.ID] {
			return nil, newError(ErrValidation, "ingredient %s is listed more than once", in.ID)
		}
		seen[in.ID] = true
		ingredientIDs = append(ingredientIDs, in.ID)
	}

	category, err := s.catalog.FindCategoryByName(ctx, input.Category)
	if err != nil {
		return nil, err
	}
	area, err := s.catalog.FindAreaByName(ctx, input.Area)
	if err != nil {
		return nil, err
	}
	found, err := s.catalog.CountIngredients(ctx, ingredientIDs)
	if err != nil {
		return nil, err
	}
	if found != int64(len(ingredientIDs)) {
		return nil, newError(ErrConflict, "one or more ingredients do not exist")
	}

	imageURL, err := s.images.Upload(ctx, storage.FolderRecipes, input.Image)
	metrics.RecordUpload(storage.FolderRecipes, err)
	if err != nil {
		return nil, fmt.Errorf("failed to store recipe image: %w", err)
	}

	recipe := models.Recipe{
		Title:        strings.TrimSpace(input.Title),
		Description:  input.Description,
		Instructions: input.Instructions,
		Time:         input.Time,
		Thumb:        imageURL,
		CategoryID:   category.ID,
		AreaID:       area.ID,
		OwnerID:      input.OwnerID,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&recipe).Error; err != nil {
			return fmt.Errorf("failed to insert recipe: %w", err)
		}
		rows := make([]models.RecipeIngredient, 0, len(input.Ingredients))
		for _, in := range input.Ingredients {
			rows = append(rows, models.RecipeIngredient{
				RecipeID:     recipe.ID,
				IngredientID: in.ID,
				Measure:      strings.TrimSpace(in.Measure),
			})
		}
		if err := tx.Omit(clause.Associations).Create(&rows).Error; err != nil {
			return fmt.Errorf("failed to insert recipe ingredients: %w", err)
		}
		return nil
	})
	if err != nil {
		s.log.Warn("recipe insert failed after image upload", zap.String("image", imageURL), zap.Error(err))
		return nil, err
	}

	s.log.Info("recipe created", zap.String("recipe_id", recipe.ID.String()), zap.String("owner_id", input.OwnerID.String()))
	return s.GetRecipeByID(ctx, recipe.ID)
}

// DeleteRecipe removes an owned recipe together with its ingredient rows and
// every favorite pointing at it.
func (s *RecipeService) DeleteRecipe(ctx context.Context, id, ownerID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.Select("id", "owner_id").First(&recipe, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRecipeNotFound
			}
			return fmt.Errorf("failed to load recipe: %w", err)
		}
		if recipe.OwnerID != ownerID {
			return ErrNotRecipeOwner
		}

		if err := tx.Where("recipe_id = ?", id).Delete(&models.FavoriteRecipe{}).Error; err != nil {
			return fmt.Errorf("failed to delete favorites: %w", err)
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return fmt.Errorf("failed to delete recipe ingredients: %w", err)
		}
		if err := tx.Delete(&models.Recipe{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete recipe: %w", err)
		}
		return nil
	})
}

// CountByOwner counts the recipes a user created.
func (s *RecipeService) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Recipe{}).Where("owner_id = ?", ownerID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count recipes: %w", err)
	}
	return count, nil
}
