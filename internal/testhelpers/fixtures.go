package testhelpers

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pageza/soyummy/backend/internal/models"
)

// TestPassword is the plain password of users made by CreateTestUser.
const TestPassword = "testpassword123"

// CreateTestUser inserts a user that can sign in with TestPassword.
func CreateTestUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := &models.User{
		Name:         name,
		Email:        fmt.Sprintf("%s+%s@example.com", name, uuid.NewString()[:8]),
		PasswordHash: string(hashed),
		Avatar:       "https://img.example.com/" + name + ".png",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

// Catalog is a small fixed set of reference data.
type Catalog struct {
	Beef       models.Category
	Dessert    models.Category
	Italian    models.Area
	Mexican    models.Area
	Garlic     models.Ingredient
	GarlicSalt models.Ingredient
	Sugar      models.Ingredient
}

func SeedCatalog(t *testing.T, db *gorm.DB) *Catalog {
	t.Helper()
	c := &Catalog{
		Beef:       models.Category{Name: "Beef"},
		Dessert:    models.Category{Name: "Dessert"},
		Italian:    models.Area{Name: "Italian"},
		Mexican:    models.Area{Name: "Mexican"},
		Garlic:     models.Ingredient{Name: "Garlic", Description: "A bulb", Image: "https://img.example.com/garlic.png"},
		GarlicSalt: models.Ingredient{Name: "Garlic Salt", Image: "https://img.example.com/garlic-salt.png"},
		Sugar:      models.Ingredient{Name: "Sugar", Image: "https://img.example.com/sugar.png"},
	}
	for _, v := range []interface{}{&c.Beef, &c.Dessert, &c.Italian, &c.Mexican, &c.Garlic, &c.GarlicSalt, &c.Sugar} {
		if err := db.Create(v).Error; err != nil {
			t.Fatalf("failed to seed catalog: %v", err)
		}
	}
	return c
}

// RecipeFixture describes a recipe to insert directly, bypassing the service.
type RecipeFixture struct {
	Title       string
	Category    models.Category
	Area        models.Area
	Owner       *models.User
	Ingredients []models.Ingredient
	CreatedAt   time.Time
}

func CreateTestRecipe(t *testing.T, db *gorm.DB, f RecipeFixture) *models.Recipe {
	t.Helper()
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now().UTC()
	}
	recipe := &models.Recipe{
		Title:        f.Title,
		Instructions: "Cook it.",
		Description:  f.Title + " description",
		Thumb:        "https://img.example.com/" + f.Title + ".jpg",
		Time:         "30",
		CategoryID:   f.Category.ID,
		AreaID:       f.Area.ID,
		OwnerID:      f.Owner.ID,
		CreatedAt:    f.CreatedAt,
	}
	if err := db.Omit("Category", "Area", "Owner", "Ingredients").Create(recipe).Error; err != nil {
		t.Fatalf("failed to create recipe: %v", err)
	}
	for _, ing := range f.Ingredients {
		row := models.RecipeIngredient{RecipeID: recipe.ID, IngredientID: ing.ID, Measure: "1 tbsp"}
		if err := db.Omit("Ingredient").Create(&row).Error; err != nil {
			t.Fatalf("failed to create recipe ingredient: %v", err)
		}
	}
	return recipe
}

// Favorite inserts a favorites row at the given time.
func Favorite(t *testing.T, db *gorm.DB, user *models.User, recipe *models.Recipe, at time.Time) {
	t.Helper()
	fav := models.FavoriteRecipe{UserID: user.ID, RecipeID: recipe.ID, CreatedAt: at}
	if err := db.Create(&fav).Error; err != nil {
		t.Fatalf("failed to create favorite: %v", err)
	}
}
