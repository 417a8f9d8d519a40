package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Recipe struct {
	ID           uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Title        string    `gorm:"size:255;not null" json:"title"`
	Instructions string    `gorm:"type:text;not null" json:"instructions"`
	Description  string    `gorm:"type:text" json:"description"`
	Thumb        string    `gorm:"size:512;not null" json:"thumb"`
	Time         string    `gorm:"size:50" json:"time"`
	CategoryID   uuid.UUID `gorm:"type:varchar(36);not null;index" json:"category_id"`
	AreaID       uuid.UUID `gorm:"type:varchar(36);not null;index" json:"area_id"`
	OwnerID      uuid.UUID `gorm:"type:varchar(36);not null;index" json:"owner_id"`

	Category    Category           `gorm:"foreignKey:CategoryID" json:"category"`
	Area        Area               `gorm:"foreignKey:AreaID" json:"area"`
	Owner       User               `gorm:"foreignKey:OwnerID" json:"owner"`
	Ingredients []RecipeIngredient `gorm:"foreignKey:RecipeID" json:"ingredients"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// RecipeIngredient links a recipe to an ingredient with a free-text measure.
// One row per (recipe, ingredient).
type RecipeIngredient struct {
	RecipeID     uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"recipe_id"`
	IngredientID uuid.UUID `gorm:"type:varchar(36);primaryKey;index" json:"ingredient_id"`
	Measure      string    `gorm:"size:100" json:"measure"`

	Ingredient Ingredient `gorm:"foreignKey:IngredientID" json:"ingredient"`
}
