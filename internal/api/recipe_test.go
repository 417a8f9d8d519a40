package api_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/soyummy/backend/internal/models"
	"github.com/pageza/soyummy/backend/internal/storage"
	"github.com/pageza/soyummy/backend/internal/testhelpers"
	"github.com/pageza/soyummy/backend/internal/types"
)

func (e *testEnv) seedRecipes(t *testing.T) (*models.Recipe, *models.Recipe) {
	c := e.catalog
	now := time.Now().UTC()
	tacos := testhelpers.CreateTestRecipe(t, e.db, testhelpers.RecipeFixture{
		Title: "Tacos", Category: c.Beef, Area: c.Mexican, Owner: e.alice,
		Ingredients: []models.Ingredient{c.Sugar, c.Garlic}, CreatedAt: now.Add(-time.Hour),
	})
	tiramisu := testhelpers.CreateTestRecipe(t, e.db, testhelpers.RecipeFixture{
		Title: "Tiramisu", Category: c.Dessert, Area: c.Italian, Owner: e.bob,
		Ingredients: []models.Ingredient{c.Sugar}, CreatedAt: now,
	})
	return tacos, tiramisu
}

func TestListRecipes(t *testing.T) {
	env := setupAPI(t)
	tacos, _ := env.seedRecipes(t)

	w := env.do(t, http.MethodGet, "/api/recipes?ingredient=sugar&page=1&limit=1", "", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var list types.RecipeListResponse
	decode(t, w, &list)
	assert.Equal(t, int64(2), list.Total)
	assert.Equal(t, 2, list.TotalPages)
	assert.Equal(t, 1, list.Page)
	assert.Equal(t, 1, list.Limit)
	require.Len(t, list.Recipes, 1)
	assert.Equal(t, "Tiramisu", list.Recipes[0].Title)

	w = env.do(t, http.MethodGet, "/api/recipes?category=BEEF", "", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &list)
	require.Len(t, list.Recipes, 1)
	r := list.Recipes[0]
	assert.Equal(t, tacos.ID, r.ID)
	assert.Equal(t, tacos.Thumb, r.Image)
	assert.Equal(t, "Beef", r.Category.Name)
	assert.Equal(t, "Mexican", r.Area.Name)
	assert.Equal(t, env.alice.Email, r.Owner.Email)
	require.Len(t, r.Ingredients, 2)
	assert.Equal(t, "Garlic", r.Ingredients[0].Ingredient.Name)
	assert.Equal(t, "1 tbsp", r.Ingredients[0].Measure)
}

func TestListRecipesNoMatch(t *testing.T) {
	env := setupAPI(t)
	env.seedRecipes(t)

	w := env.do(t, http.MethodGet, "/api/recipes?area=Atlantis&page=abc&limit=-3", "", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"total":0,"totalPages":0,"page":1,"limit":10,"recipes":[]}`, w.Body.String())
}

func TestListRecipesByOwner(t *testing.T) {
	env := setupAPI(t)
	env.seedRecipes(t)

	w := env.do(t, http.MethodGet, "/api/recipes?ownerId=not-a-uuid", "", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodGet, "/api/recipes?ownerId="+env.bob.ID.String(), "", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var list types.RecipeListResponse
	decode(t, w, &list)
	require.Len(t, list.Recipes, 1)
	assert.Equal(t, "Tiramisu", list.Recipes[0].Title)
}

func TestGetRecipe(t *testing.T) {
	env := setupAPI(t)
	tacos, _ := env.seedRecipes(t)

	w := env.do(t, http.MethodGet, "/api/recipes/"+tacos.ID.String(), "", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var r types.RecipeResponse
	decode(t, w, &r)
	assert.Equal(t, "Tacos", r.Title)

	w = env.do(t, http.MethodGet, "/api/recipes/"+uuid.NewString(), "", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "recipe not found", messageOf(t, w))

	w = env.do(t, http.MethodGet, "/api/recipes/42", "", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMyRecipes(t *testing.T) {
	env := setupAPI(t)
	env.seedRecipes(t)

	w := env.do(t, http.MethodGet, "/api/recipes/myrecipes", "", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodGet, "/api/recipes/myrecipes?limit=5", env.token(t, env.alice), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var mine types.MyRecipesResponse
	decode(t, w, &mine)
	assert.Equal(t, int64(1), mine.Count)
	assert.Equal(t, 1, mine.CurrentPage)
	assert.Equal(t, 1, mine.TotalPages)
	require.Len(t, mine.Recipes, 1)
	assert.Equal(t, "Tacos", mine.Recipes[0].Title)
}

func TestFavoritesFlow(t *testing.T) {
	env := setupAPI(t)
	tacos, tiramisu := env.seedRecipes(t)
	bob := env.token(t, env.bob)
	alice := env.token(t, env.alice)
	path := fmt.Sprintf("/api/recipes/%s/favorites", tacos.ID)

	w := env.do(t, http.MethodPost, path, "", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodPost, path, bob, nil, "")
	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, fmt.Sprintf(`{"id":%q}`, tacos.ID), w.Body.String())

	w = env.do(t, http.MethodPost, path, bob, nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPost, path, alice, nil, "")
	assert.Equal(t, http.StatusCreated, w.Code)
	w = env.do(t, http.MethodPost, fmt.Sprintf("/api/recipes/%s/favorites", tiramisu.ID), bob, nil, "")
	assert.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodPost, fmt.Sprintf("/api/recipes/%s/favorites", uuid.New()), bob, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodGet, "/api/recipes/popular", "", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var popular types.RecipeListResponse
	decode(t, w, &popular)
	assert.Equal(t, int64(2), popular.Total)
	require.Len(t, popular.Recipes, 2)
	assert.Equal(t, "Tacos", popular.Recipes[0].Title)

	w = env.do(t, http.MethodGet, "/api/recipes/myfavorites", bob, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var favs types.RecipeListResponse
	decode(t, w, &favs)
	assert.Equal(t, int64(2), favs.Total)

	w = env.do(t, http.MethodDelete, path, bob, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, fmt.Sprintf(`{"id":%q}`, tacos.ID), w.Body.String())

	w = env.do(t, http.MethodDelete, path, bob, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":null}`, w.Body.String())
}

func createFields(ingredients string) map[string]string {
	return map[string]string{
		"title":        "Churros",
		"description":  "Fried dough",
		"instructions": "Fry.",
		"time":         "25",
		"category":     "dessert",
		"area":         "Mexican",
		"ingredients":  ingredients,
	}
}

func ingredientsJSON(t *testing.T, items ...types.IngredientInput) string {
	raw, err := json.Marshal(items)
	require.NoError(t, err)
	return string(raw)
}

func TestCreateRecipe(t *testing.T) {
	env := setupAPI(t)
	token := env.token(t, env.alice)
	env.images.On("Upload", mock.Anything, storage.FolderRecipes, "churros.png").Return("https://cdn.example.com/churros.png", nil)

	ings := ingredientsJSON(t, types.IngredientInput{ID: env.catalog.Sugar.ID, Measure: "100 g"})
	body, ct := multipartBody(t, createFields(ings), "thumb", "churros.png", []byte("png"))
	w := env.do(t, http.MethodPost, "/api/recipes", token, body, ct)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var r types.RecipeResponse
	decode(t, w, &r)
	assert.Equal(t, "Churros", r.Title)
	assert.Equal(t, "https://cdn.example.com/churros.png", r.Image)
	assert.Equal(t, "Dessert", r.Category.Name)
	assert.Equal(t, env.alice.ID, r.Owner.ID)
	require.Len(t, r.Ingredients, 1)
	assert.Equal(t, "100 g", r.Ingredients[0].Measure)
	env.images.AssertExpectations(t)
}

func TestCreateRecipeRejected(t *testing.T) {
	env := setupAPI(t)
	token := env.token(t, env.alice)
	sugar := types.IngredientInput{ID: env.catalog.Sugar.ID, Measure: "100 g"}

	tests := []struct {
		name     string
		fields   map[string]string
		filename string
		content  []byte
		status   int
	}{
		{"missing image", createFields(ingredientsJSON(t, sugar)), "", nil, http.StatusBadRequest},
		{"wrong image type", createFields(ingredientsJSON(t, sugar)), "churros.gif", []byte("gif"), http.StatusBadRequest},
		{"image too large", createFields(ingredientsJSON(t, sugar)), "churros.jpg", make([]byte, 2<<10), http.StatusBadRequest},
		{"bad ingredients json", createFields("sugar"), "churros.jpg", []byte("jpg"), http.StatusBadRequest},
		{"blank measure", createFields(ingredientsJSON(t, types.IngredientInput{ID: sugar.ID, Measure: " "})), "churros.jpg", []byte("jpg"), http.StatusBadRequest},
		{"duplicate ingredient", createFields(ingredientsJSON(t, sugar, sugar)), "churros.jpg", []byte("jpg"), http.StatusBadRequest},
		{"unknown ingredient", createFields(ingredientsJSON(t, types.IngredientInput{ID: uuid.New(), Measure: "1"})), "churros.jpg", []byte("jpg"), http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, ct := multipartBody(t, tt.fields, fileField(tt.filename), tt.filename, tt.content)
			w := env.do(t, http.MethodPost, "/api/recipes", token, body, ct)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}

	fields := createFields(ingredientsJSON(t, sugar))
	fields["area"] = "Mexi"
	body, ct := multipartBody(t, fields, "thumb", "churros.jpg", []byte("jpg"))
	w := env.do(t, http.MethodPost, "/api/recipes", token, body, ct)
	assert.Equal(t, http.StatusConflict, w.Code)

	delete(fields, "title")
	body, ct = multipartBody(t, fields, "thumb", "churros.jpg", []byte("jpg"))
	w = env.do(t, http.MethodPost, "/api/recipes", token, body, ct)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	env.images.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
}

func fileField(filename string) string {
	if filename == "" {
		return ""
	}
	return "thumb"
}

func TestDeleteRecipe(t *testing.T) {
	env := setupAPI(t)
	tacos, _ := env.seedRecipes(t)
	path := "/api/recipes/" + tacos.ID.String()

	w := env.do(t, http.MethodDelete, path, env.token(t, env.bob), nil, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	alice := env.token(t, env.alice)
	w = env.do(t, http.MethodDelete, path, alice, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, fmt.Sprintf(`{"id":%q}`, tacos.ID), w.Body.String())

	w = env.do(t, http.MethodDelete, path, alice, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
