package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/soyummy/backend/internal/middleware"
	"github.com/pageza/soyummy/backend/internal/storage"
	"github.com/pageza/soyummy/backend/internal/types"
)

func pagination(c *gin.Context) types.Pagination {
	return types.ParsePagination(c.Query("page"), c.Query("limit"))
}

// paramID parses a uuid path parameter, answering 400 when it is malformed.
func paramID(c *gin.Context, name, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		middleware.AbortWithMessage(c, http.StatusBadRequest, "invalid "+what+" id")
		return uuid.Nil, false
	}
	return id, true
}

// currentUser is the id set by AuthMiddleware.
func currentUser(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.UserID(c)
	if !ok {
		middleware.AbortWithMessage(c, http.StatusUnauthorized, "Not authorized")
	}
	return id, ok
}

// imageFile opens the multipart image in field and checks its type and size.
func imageFile(c *gin.Context, field string, maxSize int64) (storage.File, func(), bool) {
	header, err := c.FormFile(field)
	if err != nil {
		middleware.AbortWithMessage(c, http.StatusBadRequest, "Image is required")
		return storage.File{}, nil, false
	}
	if err := storage.ValidateImage(header.Filename, header.Size, maxSize); err != nil {
		middleware.AbortWithError(c, err)
		return storage.File{}, nil, false
	}
	f, err := header.Open()
	if err != nil {
		middleware.AbortWithError(c, err)
		return storage.File{}, nil, false
	}
	return storage.File{
		Reader:      f,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
	}, func() { _ = f.Close() }, true
}

// optional returns a pass-through handler when the limiter is disabled.
func optional(rl *middleware.RateLimiter) gin.HandlerFunc {
	if rl == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return rl.RateLimitMiddleware()
}
