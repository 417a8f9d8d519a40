package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/soyummy/backend/internal/metrics"
	"github.com/pageza/soyummy/backend/internal/models"
	"github.com/pageza/soyummy/backend/internal/storage"
)

// UserDetails is a public profile with activity counters. Favorites is only
// set when users look at themselves.
type UserDetails struct {
	User      *models.User
	Recipes   int64
	Favorites *int64
}

// UserService handles profile reads and avatar changes
type UserService struct {
	db        *gorm.DB
	recipes   *RecipeService
	favorites *FavoriteService
	images    storage.ImageStore
}

func NewUserService(db *gorm.DB, recipes *RecipeService, favorites *FavoriteService, images storage.ImageStore) *UserService {
	return &UserService{
		db:        db,
		recipes:   recipes,
		favorites: favorites,
		images:    images,
	}
}

func (s *UserService) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (s *UserService) GetUserDetails(ctx context.Context, userID, viewerID uuid.UUID) (*UserDetails, error) {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	recipes, err := s.recipes.CountByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	details := &UserDetails{User: user, Recipes: recipes}

	if userID == viewerID {
		favorites, err := s.favorites.CountByUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		details.Favorites = &favorites
	}
	return details, nil
}

// UpdateAvatar stores a new avatar image and returns its URL.
func (s *UserService) UpdateAvatar(ctx context.Context, userID uuid.UUID, file storage.File) (string, error) {
	if _, err := s.GetUserByID(ctx, userID); err != nil {
		return "", err
	}

	url, err := s.images.Upload(ctx, storage.FolderAvatars, file)
	metrics.RecordUpload(storage.FolderAvatars, err)
	if err != nil {
		return "", fmt.Errorf("failed to store avatar: %w", err)
	}

	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Update("avatar", url).Error; err != nil {
		return "", fmt.Errorf("failed to update avatar: %w", err)
	}
	return url, nil
}
