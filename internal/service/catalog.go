package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/soyummy/backend/internal/logger"
	"github.com/pageza/soyummy/backend/internal/metrics"
	"github.com/pageza/soyummy/backend/internal/models"
)

const (
	cacheKeyCategories  = "catalog:categories"
	cacheKeyAreas       = "catalog:areas"
	cacheKeyIngredients = "catalog:ingredients"
)

// likeEscaper escapes LIKE wildcards so user input matches literally. '!' is the escape char.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// containsPattern builds a lower-cased "contains" LIKE pattern.
func containsPattern(value string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(value))) + "%"
}

// CatalogService resolves and lists categories, areas and ingredients.
type CatalogService struct {
	db    *gorm.DB
	cache *redis.Client
	ttl   time.Duration
	log   *zap.Logger
}

// NewCatalogService creates a catalog service. cache may be nil.
func NewCatalogService(db *gorm.DB, cache *redis.Client, ttl time.Duration) *CatalogService {
	return &CatalogService{
		db:    db,
		cache: cache,
		ttl:   ttl,
		log:   logger.Named("catalog"),
	}
}

// ResolveCategory returns the id of the category whose name contains name, case-insensitively.
func (s *CatalogService) ResolveCategory(ctx context.Context, name string) (uuid.UUID, bool, error) {
	return s.resolve(ctx, &models.Category{}, name)
}

func (s *CatalogService) ResolveArea(ctx context.Context, name string) (uuid.UUID, bool, error) {
	return s.resolve(ctx, &models.Area{}, name)
}

func (s *CatalogService) ResolveIngredient(ctx context.Context, name string) (uuid.UUID, bool, error) {
	return s.resolve(ctx, &models.Ingredient{}, name)
}

// resolve picks the shortest matching name, so an exact match beats a longer
// name containing it. Ties break alphabetically.
func (s *CatalogService) resolve(ctx context.Context, model interface{}, name string) (uuid.UUID, bool, error) {
	var ids []uuid.UUID
	err := s.db.WithContext(ctx).
		Model(model).
		Where("LOWER(name) LIKE ? ESCAPE '!'", containsPattern(name)).
		Order("LENGTH(name), name").
		Limit(1).
		Pluck("id", &ids).Error
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("failed to resolve catalog name: %w", err)
	}
	if len(ids) == 0 {
		return uuid.Nil, false, nil
	}
	return ids[0], true, nil
}

// FindCategoryByName matches a category name exactly, ignoring case.
func (s *CatalogService) FindCategoryByName(ctx context.Context, name string) (*models.Category, error) {
	var category models.Category
	if err := s.findByName(ctx, &category, name); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(ErrConflict, "category %q does not exist", name)
		}
		return nil, err
	}
	return &category, nil
}

// FindAreaByName matches an area name exactly, ignoring case.
func (s *CatalogService) FindAreaByName(ctx context.Context, name string) (*models.Area, error) {
	var area models.Area
	if err := s.findByName(ctx, &area, name); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(ErrConflict, "area %q does not exist", name)
		}
		return nil, err
	}
	return &area, nil
}

func (s *CatalogService) findByName(ctx context.Context, dest interface{}, name string) error {
	err := s.db.WithContext(ctx).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).
		First(dest).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to find catalog entry: %w", err)
	}
	return err
}

// CountIngredients counts how many of ids exist.
func (s *CatalogService) CountIngredients(ctx context.Context, ids []uuid.UUID) (int64, error) {
	var count int64
	if len(ids) == 0 {
		return 0, nil
	}
	if err := s.db.WithContext(ctx).Model(&models.Ingredient{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count ingredients: %w", err)
	}
	return count, nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := s.cached(ctx, cacheKeyCategories, &categories, func() error {
		return s.db.WithContext(ctx).Order("name").Find(&categories).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (s *CatalogService) ListAreas(ctx context.Context) ([]models.Area, error) {
	var areas []models.Area
	err := s.cached(ctx, cacheKeyAreas, &areas, func() error {
		return s.db.WithContext(ctx).Order("name").Find(&areas).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list areas: %w", err)
	}
	return areas, nil
}

// ListIngredients lists all ingredients, or those whose name contains name.
// Only the unfiltered list is cached.
func (s *CatalogService) ListIngredients(ctx context.Context, name string) ([]models.Ingredient, error) {
	var ingredients []models.Ingredient

	if strings.TrimSpace(name) != "" {
		err := s.db.WithContext(ctx).
			Where("LOWER(name) LIKE ? ESCAPE '!'", containsPattern(name)).
			Order("name").
			Find(&ingredients).Error
		if err != nil {
			return nil, fmt.Errorf("failed to search ingredients: %w", err)
		}
		return ingredients, nil
	}

	err := s.cached(ctx, cacheKeyIngredients, &ingredients, func() error {
		return s.db.WithContext(ctx).Order("name").Find(&ingredients).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	return ingredients, nil
}

// InvalidateCache drops every cached catalog list, e.g. after seeding.
func (s *CatalogService) InvalidateCache(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Del(ctx, cacheKeyCategories, cacheKeyAreas, cacheKeyIngredients).Err()
}

// cached fills dest from Redis, or runs load and stores the result.
// Redis failures are logged and fall through to the database.
func (s *CatalogService) cached(ctx context.Context, key string, dest interface{}, load func() error) error {
	if s.cache == nil {
		return load()
	}

	raw, err := s.cache.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		if jsonErr := json.Unmarshal(raw, dest); jsonErr == nil {
			metrics.RecordCacheResult("hit")
			return nil
		}
		s.log.Warn("discarding corrupt cache entry", zap.String("key", key))
	case errors.Is(err, redis.Nil):
		metrics.RecordCacheResult("miss")
	default:
		metrics.RecordCacheResult("error")
		s.log.Warn("catalog cache read failed", zap.String("key", key), zap.Error(err))
	}

	if err := load(); err != nil {
		return err
	}

	payload, err := json.Marshal(dest)
	if err != nil {
		s.log.Warn("catalog cache encode failed", zap.String("key", key), zap.Error(err))
		return nil
	}
	if err := s.cache.Set(ctx, key, payload, s.ttl).Err(); err != nil {
		s.log.Warn("catalog cache write failed", zap.String("key", key), zap.Error(err))
	}
	return nil
}
