package api

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"

	"github.com/pageza/soyummy/backend/internal/middleware"
	"github.com/pageza/soyummy/backend/internal/service"
	"github.com/pageza/soyummy/backend/internal/types"
)

type RecipeHandler struct {
	recipes         service.IRecipeService
	favorites       service.IFavoriteService
	popularity      service.IPopularityService
	auth            middleware.TokenValidator
	createLimiter   *middleware.RateLimiter
	favoriteLimiter *middleware.RateLimiter
	maxUploadSize   int64
}

// RecipeHandlerOptions carries the optional parts of a RecipeHandler.
type RecipeHandlerOptions struct {
	CreateLimiter   *middleware.RateLimiter
	FavoriteLimiter *middleware.RateLimiter
	MaxUploadSize   int64
}

func NewRecipeHandler(
	recipes service.IRecipeService,
	favorites service.IFavoriteService,
	popularity service.IPopularityService,
	auth middleware.TokenValidator,
	opts RecipeHandlerOptions,
) *RecipeHandler {
	if opts.MaxUploadSize <= 0 {
		opts.MaxUploadSize = 10 << 20
	}
	return &RecipeHandler{
		recipes:         recipes,
		favorites:       favorites,
		popularity:      popularity,
		auth:            auth,
		createLimiter:   opts.CreateLimiter,
		favoriteLimiter: opts.FavoriteLimiter,
		maxUploadSize:   opts.MaxUploadSize,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	authRequired := middleware.AuthMiddleware(h.auth)
	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.GET("/popular", h.GetPopular)
		recipes.GET("/myrecipes", authRequired, h.GetMyRecipes)
		recipes.GET("/myfavorites", authRequired, h.GetMyFavorites)
		recipes.GET("/:id", h.GetRecipe)
		recipes.POST("", authRequired, optional(h.createLimiter), h.CreateRecipe)
		recipes.DELETE("/:id", authRequired, h.DeleteRecipe)
		recipes.POST("/:id/favorites", authRequired, optional(h.favoriteLimiter), h.AddFavorite)
		recipes.DELETE("/:id/favorites", authRequired, optional(h.favoriteLimiter), h.RemoveFavorite)
	}
}

// ListRecipes searches by category, ingredient, area and owner.
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	var q types.ListRecipesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortBinding(c, err)
		return
	}

	filter := service.RecipeFilter{
		Category:   q.Category,
		Ingredient: q.Ingredient,
		Area:       q.Area,
	}
	if q.OwnerID != "" {
		ownerID, err := uuid.Parse(q.OwnerID)
		if err != nil {
			middleware.AbortWithMessage(c, http.StatusBadRequest, "invalid ownerId")
			return
		}
		filter.OwnerID = &ownerID
	}

	p := pagination(c)
	page, err := h.recipes.GetRecipesByFilter(c.Request.Context(), filter, p.Skip(), p.Limit)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.NewRecipeListResponse(page.Count, page.Rows, p))
}

func (h *RecipeHandler) GetPopular(c *gin.Context) {
	p := pagination(c)
	page, err := h.popularity.GetPopular(c.Request.Context(), p.Skip(), p.Limit)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.NewRecipeListResponse(page.Count, page.Rows, p))
}

func (h *RecipeHandler) GetMyRecipes(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	p := pagination(c)
	page, err := h.recipes.GetRecipesByFilter(c.Request.Context(), service.RecipeFilter{OwnerID: &userID}, p.Skip(), p.Limit)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.MyRecipesResponse{
		Count:       page.Count,
		Recipes:     types.NewRecipeResponses(page.Rows),
		CurrentPage: p.Page,
		TotalPages:  p.TotalPages(page.Count),
	})
}

func (h *RecipeHandler) GetMyFavorites(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	p := pagination(c)
	page, err := h.favorites.ListFavoriteRecipes(c.Request.Context(), userID, p.Skip(), p.Limit)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.NewRecipeListResponse(page.Count, page.Rows, p))
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := paramID(c, "id", "recipe")
	if !ok {
		return
	}

	recipe, err := h.recipes.GetRecipeByID(c.Request.Context(), id)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.NewRecipeResponse(recipe))
}

// CreateRecipe accepts a multipart form with the recipe fields and a "thumb" image.
func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var form types.CreateRecipeForm
	if err := c.ShouldBind(&form); err != nil {
		abortBinding(c, err)
		return
	}

	var ingredients []types.IngredientInput
	if err := json.Unmarshal([]byte(form.Ingredients), &ingredients); err != nil {
		middleware.AbortWithMessage(c, http.StatusBadRequest, "ingredients must be a JSON array of {id, measure}")
		return
	}
	if len(ingredients) == 0 {
		middleware.AbortWithMessage(c, http.StatusBadRequest, "at least one ingredient is required")
		return
	}
	for i := range ingredients {
		if err := binding.Validator.ValidateStruct(&ingredients[i]); err != nil {
			abortBinding(c, err)
			return
		}
	}

	image, closeImage, ok := imageFile(c, "thumb", h.maxUploadSize)
	if !ok {
		return
	}
	defer closeImage()

	input := service.CreateRecipeInput{
		OwnerID:      userID,
		Title:        form.Title,
		Description:  form.Description,
		Instructions: form.Instructions,
		Time:         form.Time,
		Category:     form.Category,
		Area:         form.Area,
		Image:        image,
	}
	for _, in := range ingredients {
		input.Ingredients = append(input.Ingredients, service.IngredientInput{ID: in.ID, Measure: in.Measure})
	}

	recipe, err := h.recipes.CreateRecipe(c.Request.Context(), input)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, types.NewRecipeResponse(recipe))
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "recipe")
	if !ok {
		return
	}

	if err := h.recipes.DeleteRecipe(c.Request.Context(), id, userID); err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.FavoriteResponse{ID: &id})
}

// AddFavorite answers 201 when the favorite is new and 200 when it already existed.
func (h *RecipeHandler) AddFavorite(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "recipe")
	if !ok {
		return
	}

	if _, err := h.recipes.GetRecipeByID(c.Request.Context(), id); err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	_, created, err := h.favorites.AddToFavorites(c.Request.Context(), id, userID)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, types.FavoriteResponse{ID: &id})
}

// RemoveFavorite answers {id: null} when the recipe was not a favorite.
func (h *RecipeHandler) RemoveFavorite(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "recipe")
	if !ok {
		return
	}

	if _, err := h.recipes.GetRecipeByID(c.Request.Context(), id); err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	removed, err := h.favorites.RemoveFromFavorites(c.Request.Context(), id, userID)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	resp := types.FavoriteResponse{}
	if removed {
		resp.ID = &id
	}
	c.JSON(http.StatusOK, resp)
}
