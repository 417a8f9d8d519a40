package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/soyummy/backend/internal/logger"
	"github.com/pageza/soyummy/backend/internal/service"
	"github.com/pageza/soyummy/backend/internal/storage"
)

const internalErrorMessage = "Internal server error"

// ErrorResponse represents an error response
type ErrorResponse struct {
	Message string `json:"message"`
}

// StatusFor maps a service or storage error to an HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, storage.ErrUnsupportedImage),
		errors.Is(err, storage.ErrImageTooLarge):
		return http.StatusBadRequest
	case errors.Is(err, storage.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// AbortWithError writes the JSON error body for err. Unexpected errors are
// logged and answered with a generic message.
func AbortWithError(c *gin.Context, err error) {
	status := StatusFor(err)
	msg := err.Error()

	var svcErr *service.Error
	switch {
	case status == http.StatusInternalServerError:
		logger.Named("http").Error("request failed",
			zap.Error(err),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
		)
		msg = internalErrorMessage
	case status == http.StatusServiceUnavailable:
		logger.Named("http").Warn("dependency unavailable", zap.Error(err))
		msg = "Media storage is temporarily unavailable"
	case errors.As(err, &svcErr):
		msg = svcErr.Msg
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, ErrorResponse{Message: msg})
}

// AbortWithMessage answers with status and a fixed message.
func AbortWithMessage(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Message: msg})
}

// NotFound answers unknown routes.
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		AbortWithMessage(c, http.StatusNotFound, "Not found")
	}
}
