package service

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/pageza/soyummy/backend/internal/models"
)

type TestimonialService struct {
	db *gorm.DB
}

func NewTestimonialService(db *gorm.DB) *TestimonialService {
	return &TestimonialService{db: db}
}

// ListTestimonials returns all testimonials with their authors, newest first.
func (s *TestimonialService) ListTestimonials(ctx context.Context) ([]models.Testimonial, error) {
	testimonials := []models.Testimonial{}
	err := s.db.WithContext(ctx).
		Preload("Owner").
		Order("created_at DESC, id ASC").
		Find(&testimonials).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list testimonials: %w", err)
	}
	return testimonials, nil
}
