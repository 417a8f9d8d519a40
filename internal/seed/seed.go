// Package seed loads reference data and sample content from JSON files.
package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/soyummy/backend/internal/logger"
	"github.com/pageza/soyummy/backend/internal/models"
)

type namedRecord struct {
	Name string `json:"name"`
}

type ingredientRecord struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

type userRecord struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar"`
	Password string `json:"password"`
}

type recipeRecord struct {
	Title        string `json:"title"`
	Category     string `json:"category"`
	Area         string `json:"area"`
	Owner        string `json:"owner"`
	Instructions string `json:"instructions"`
	Description  string `json:"description"`
	Thumb        string `json:"thumb"`
	Time         string `json:"time"`
	Ingredients  []struct {
		Name    string `json:"name"`
		Measure string `json:"measure"`
	} `json:"ingredients"`
}

type testimonialRecord struct {
	Owner       string `json:"owner"`
	Testimonial string `json:"testimonial"`
}

// Stats counts rows inserted by a run.
type Stats struct {
	Areas        int
	Categories   int
	Ingredients  int
	Users        int
	Recipes      int
	Testimonials int
}

// Seeder inserts the files of a data directory. Running it twice inserts nothing new.
type Seeder struct {
	db              *gorm.DB
	dataDir         string
	defaultPassword string
	log             *zap.Logger
}

// New returns a Seeder. Users without a password in users.json get defaultPassword.
func New(db *gorm.DB, dataDir, defaultPassword string) *Seeder {
	return &Seeder{
		db:              db,
		dataDir:         dataDir,
		defaultPassword: defaultPassword,
		log:             logger.Named("seed"),
	}
}

// Run loads areas, categories, ingredients, users, recipes and testimonials in
// that order. Missing files are skipped.
func (s *Seeder) Run(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	db := s.db.WithContext(ctx)

	var areas []namedRecord
	if ok, err := s.load("areas.json", &areas); err != nil {
		return nil, err
	} else if ok {
		for _, a := range areas {
			n, err := insertNamed(db, &models.Area{Name: strings.TrimSpace(a.Name)})
			if err != nil {
				return nil, fmt.Errorf("failed to seed area %q: %w", a.Name, err)
			}
			stats.Areas += n
		}
	}

	var categories []namedRecord
	if ok, err := s.load("categories.json", &categories); err != nil {
		return nil, err
	} else if ok {
		for _, c := range categories {
			n, err := insertNamed(db, &models.Category{Name: strings.TrimSpace(c.Name)})
			if err != nil {
				return nil, fmt.Errorf("failed to seed category %q: %w", c.Name, err)
			}
			stats.Categories += n
		}
	}

	var ingredients []ingredientRecord
	if ok, err := s.load("ingredients.json", &ingredients); err != nil {
		return nil, err
	} else if ok {
		for _, i := range ingredients {
			n, err := insertNamed(db, &models.Ingredient{
				Name:        strings.TrimSpace(i.Name),
				Description: i.Description,
				Image:       i.Image,
			})
			if err != nil {
				return nil, fmt.Errorf("failed to seed ingredient %q: %w", i.Name, err)
			}
			stats.Ingredients += n
		}
	}

	if err := s.seedUsers(db, stats); err != nil {
		return nil, err
	}
	if err := s.seedRecipes(db, stats); err != nil {
		return nil, err
	}
	if err := s.seedTestimonials(db, stats); err != nil {
		return nil, err
	}

	s.log.Info("seed complete",
		zap.Int("areas", stats.Areas),
		zap.Int("categories", stats.Categories),
		zap.Int("ingredients", stats.Ingredients),
		zap.Int("users", stats.Users),
		zap.Int("recipes", stats.Recipes),
		zap.Int("testimonials", stats.Testimonials),
	)
	return stats, nil
}

func (s *Seeder) load(name string, dest interface{}) (bool, error) {
	raw, err := os.ReadFile(filepath.Join(s.dataDir, name))
	if errors.Is(err, os.ErrNotExist) {
		s.log.Debug("seed file not found, skipping", zap.String("file", name))
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return true, nil
}

// insertNamed inserts a catalog row unless one with the same name exists.
func insertNamed(db *gorm.DB, row interface{}) (int, error) {
	res := db.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).Create(row)
	return int(res.RowsAffected), res.Error
}

func (s *Seeder) seedUsers(db *gorm.DB, stats *Stats) error {
	var users []userRecord
	ok, err := s.load("users.json", &users)
	if err != nil || !ok {
		return err
	}

	for _, u := range users {
		password := u.Password
		if password == "" {
			password = s.defaultPassword
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		user := models.User{
			Name:         u.Name,
			Email:        strings.ToLower(strings.TrimSpace(u.Email)),
			Avatar:       u.Avatar,
			PasswordHash: string(hashed),
		}
		res := db.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "email"}}, DoNothing: true}).Create(&user)
		if res.Error != nil {
			return fmt.Errorf("failed to seed user %q: %w", u.Email, res.Error)
		}
		stats.Users += int(res.RowsAffected)
	}
	return nil
}

func (s *Seeder) seedRecipes(db *gorm.DB, stats *Stats) error {
	var recipes []recipeRecord
	ok, err := s.load("recipes.json", &recipes)
	if err != nil || !ok {
		return err
	}

	for _, r := range recipes {
		var owner models.User
		if err := db.Where("email = ?", strings.ToLower(r.Owner)).First(&owner).Error; err != nil {
			s.log.Warn("skipping recipe with unknown owner", zap.String("title", r.Title), zap.String("owner", r.Owner))
			continue
		}
		var category models.Category
		var area models.Area
		if db.Where("name = ?", r.Category).First(&category).Error != nil || db.Where("name = ?", r.Area).First(&area).Error != nil {
			s.log.Warn("skipping recipe with unknown category or area", zap.String("title", r.Title))
			continue
		}

		var exists int64
		if err := db.Model(&models.Recipe{}).Where("title = ? AND owner_id = ?", r.Title, owner.ID).Count(&exists).Error; err != nil {
			return err
		}
		if exists > 0 {
			continue
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			recipe := models.Recipe{
				Title:        r.Title,
				Instructions: r.Instructions,
				Description:  r.Description,
				Thumb:        r.Thumb,
				Time:         r.Time,
				CategoryID:   category.ID,
				AreaID:       area.ID,
				OwnerID:      owner.ID,
			}
			if err := tx.Omit(clause.Associations).Create(&recipe).Error; err != nil {
				return err
			}
			seen := make(map[string]bool, len(r.Ingredients))
			for _, in := range r.Ingredients {
				var ing models.Ingredient
				if err := tx.Where("name = ?", in.Name).First(&ing).Error; err != nil {
					s.log.Warn("skipping unknown ingredient", zap.String("recipe", r.Title), zap.String("ingredient", in.Name))
					continue
				}
				if seen[in.Name] {
					continue
				}
				seen[in.Name] = true
				row := models.RecipeIngredient{RecipeID: recipe.ID, IngredientID: ing.ID, Measure: in.Measure}
				if err := tx.Omit(clause.Associations).Create(&row).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to seed recipe %q: %w", r.Title, err)
		}
		stats.Recipes++
	}
	return nil
}

func (s *Seeder) seedTestimonials(db *gorm.DB, stats *Stats) error {
	var testimonials []testimonialRecord
	ok, err := s.load("testimonials.json", &testimonials)
	if err != nil || !ok {
		return err
	}

	for _, t := range testimonials {
		var owner models.User
		if err := db.Where("email = ?", strings.ToLower(t.Owner)).First(&owner).Error; err != nil {
			s.log.Warn("skipping testimonial with unknown owner", zap.String("owner", t.Owner))
			continue
		}
		var exists int64
		if err := db.Model(&models.Testimonial{}).Where("owner_id = ? AND testimonial = ?", owner.ID, t.Testimonial).Count(&exists).Error; err != nil {
			return err
		}
		if exists > 0 {
			continue
		}
		if err := db.Omit(clause.Associations).Create(&models.Testimonial{OwnerID: owner.ID, Text: t.Testimonial}).Error; err != nil {
			return fmt.Errorf("failed to seed testimonial: %w", err)
		}
		stats.Testimonials++
	}
	return nil
}
