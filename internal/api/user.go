package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/soyummy/backend/internal/middleware"
	"github.com/pageza/soyummy/backend/internal/service"
	"github.com/pageza/soyummy/backend/internal/types"
)

// UserHandler serves sign up, sign in and profile routes.
type UserHandler struct {
	auth          service.IAuthService
	users         service.IUserService
	maxUploadSize int64
}

func NewUserHandler(auth service.IAuthService, users service.IUserService, maxUploadSize int64) *UserHandler {
	if maxUploadSize <= 0 {
		maxUploadSize = 10 << 20
	}
	return &UserHandler{auth: auth, users: users, maxUploadSize: maxUploadSize}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	authRequired := middleware.AuthMiddleware(h.auth)
	users := router.Group("/users")
	{
		users.POST("/signup", h.Signup)
		users.POST("/signin", h.Signin)
		users.GET("/current", authRequired, h.Current)
		users.GET("/details/:userId", authRequired, h.Details)
		users.PATCH("/avatars", authRequired, h.UpdateAvatar)
		users.POST("/logout", authRequired, h.Logout)
	}
}

func (h *UserHandler) Signup(c *gin.Context) {
	var req types.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBinding(c, err)
		return
	}

	user, token, err := h.auth.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, types.AuthResponse{Token: token, User: types.NewUserResponse(user)})
}

func (h *UserHandler) Signin(c *gin.Context) {
	var req types.SigninRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBinding(c, err)
		return
	}

	user, token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.AuthResponse{Token: token, User: types.NewUserResponse(user)})
}

func (h *UserHandler) Current(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	user, err := h.users.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.NewUserResponse(user))
}

func (h *UserHandler) Details(c *gin.Context) {
	viewerID, ok := currentUser(c)
	if !ok {
		return
	}
	userID, ok := paramID(c, "userId", "user")
	if !ok {
		return
	}

	details, err := h.users.GetUserDetails(c.Request.Context(), userID, viewerID)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.UserDetailsResponse{
		UserResponse: types.NewUserResponse(details.User),
		Recipes:      details.Recipes,
		Favorites:    details.Favorites,
	})
}

// UpdateAvatar replaces the avatar with the multipart "avatar" image.
func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	image, closeImage, ok := imageFile(c, "avatar", h.maxUploadSize)
	if !ok {
		return
	}
	defer closeImage()

	url, err := h.users.UpdateAvatar(c.Request.Context(), userID, image)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"avatar": url})
}

func (h *UserHandler) Logout(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.auth.Logout(c.Request.Context(), userID); err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
