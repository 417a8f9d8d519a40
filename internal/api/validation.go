package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/pageza/soyummy/backend/internal/middleware"
)

// RegisterValidators installs the custom binding tags. Call once before serving.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected binding validator engine")
	}
	return v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
}

// abortBinding answers a binding failure with a readable 400.
func abortBinding(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		middleware.AbortWithMessage(c, http.StatusBadRequest, fmt.Sprintf("%s failed on the '%s' rule", fieldName(fe), fe.Tag()))
		return
	}
	middleware.AbortWithMessage(c, http.StatusBadRequest, "Invalid request body")
}

func fieldName(fe validator.FieldError) string {
	name := fe.Field()
	if name == "" {
		return "value"
	}
	return strings.ToLower(name[:1]) + name[1:]
}
