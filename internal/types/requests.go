package types

import "github.com/google/uuid"

type SignupRequest struct {
	Name     string `json:"name" binding:"required,notblank,max=100"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

type SigninRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// CreateRecipeForm is the multipart body of a recipe submission. The image
// arrives separately as the "thumb" file part.
type CreateRecipeForm struct {
	Title        string `form:"title" binding:"required,notblank,max=255"`
	Description  string `form:"description" binding:"max=2000"`
	Instructions string `form:"instructions" binding:"required,notblank"`
	Time         string `form:"time" binding:"max=50"`
	Category     string `form:"category" binding:"required,notblank"`
	Area         string `form:"area" binding:"required,notblank"`
	// Ingredients is a JSON array of IngredientInput.
	Ingredients string `form:"ingredients" binding:"required"`
}

type IngredientInput struct {
	ID      uuid.UUID `json:"id" binding:"required"`
	Measure string    `json:"measure" binding:"required,notblank,max=100"`
}

type ListRecipesQuery struct {
	Category   string `form:"category"`
	Ingredient string `form:"ingredient"`
	Area       string `form:"area"`
	OwnerID    string `form:"ownerId"`
}
