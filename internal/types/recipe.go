package types

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/pageza/soyummy/backend/internal/models"
)

type NamedRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type OwnerRef struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Avatar string    `json:"avatar"`
	Email  string    `json:"email"`
}

type IngredientRef struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
}

type RecipeIngredientResponse struct {
	Ingredient IngredientRef `json:"ingredient"`
	Measure    string        `json:"measure"`
}

// RecipeResponse is the single wire shape of a recipe.
type RecipeResponse struct {
	ID           uuid.UUID                  `json:"id"`
	Title        string                     `json:"title"`
	Category     NamedRef                   `json:"category"`
	Instructions string                     `json:"instructions"`
	Description  string                     `json:"description"`
	Image        string                     `json:"image"`
	Time         string                     `json:"time"`
	Owner        OwnerRef                   `json:"owner"`
	Ingredients  []RecipeIngredientResponse `json:"ingredients"`
	Area         NamedRef                   `json:"area"`
}

// RecipeListResponse is returned by the collection, popular and favorites endpoints.
type RecipeListResponse struct {
	Total      int64            `json:"total"`
	TotalPages int              `json:"totalPages"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	Recipes    []RecipeResponse `json:"recipes"`
}

type MyRecipesResponse struct {
	Count       int64            `json:"count"`
	Recipes     []RecipeResponse `json:"recipes"`
	CurrentPage int              `json:"currentPage"`
	TotalPages  int              `json:"totalPages"`
}

// FavoriteResponse carries the affected recipe id, or null when nothing changed.
type FavoriteResponse struct {
	ID *uuid.UUID `json:"id"`
}

// NewRecipeResponse shapes a hydrated recipe. Ingredients are ordered by name.
func NewRecipeResponse(r *models.Recipe) RecipeResponse {
	ingredients := make([]RecipeIngredientResponse, 0, len(r.Ingredients))
	for _, ri := range r.Ingredients {
		ingredients = append(ingredients, RecipeIngredientResponse{
			Ingredient: IngredientRef{
				ID:          ri.Ingredient.ID,
				Name:        ri.Ingredient.Name,
				Description: ri.Ingredient.Description,
				Image:       ri.Ingredient.Image,
			},
			Measure: ri.Measure,
		})
	}
	sort.SliceStable(ingredients, func(i, j int) bool {
		return strings.ToLower(ingredients[i].Ingredient.Name) < strings.ToLower(ingredients[j].Ingredient.Name)
	})

	return RecipeResponse{
		ID:           r.ID,
		Title:        r.Title,
		Category:     NamedRef{ID: r.Category.ID, Name: r.Category.Name},
		Instructions: r.Instructions,
		Description:  r.Description,
		Image:        r.Thumb,
		Time:         r.Time,
		Owner: OwnerRef{
			ID:     r.Owner.ID,
			Name:   r.Owner.Name,
			Avatar: r.Owner.Avatar,
			Email:  r.Owner.Email,
		},
		Ingredients: ingredients,
		Area:        NamedRef{ID: r.Area.ID, Name: r.Area.Name},
	}
}

// NewRecipeResponses never returns nil so empty pages encode as [].
func NewRecipeResponses(recipes []models.Recipe) []RecipeResponse {
	out := make([]RecipeResponse, 0, len(recipes))
	for i := range recipes {
		out = append(out, NewRecipeResponse(&recipes[i]))
	}
	return out
}

// NewRecipeListResponse builds the paginated collection envelope.
func NewRecipeListResponse(total int64, recipes []models.Recipe, p Pagination) RecipeListResponse {
	return RecipeListResponse{
		Total:      total,
		TotalPages: p.TotalPages(total),
		Page:       p.Page,
		Limit:      p.Limit,
		Recipes:    NewRecipeResponses(recipes),
	}
}
