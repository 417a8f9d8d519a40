package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/soyummy/backend/internal/middleware"
	"github.com/pageza/soyummy/backend/internal/service"
	"github.com/pageza/soyummy/backend/internal/types"
)

type TestimonialHandler struct {
	testimonials service.ITestimonialService
}

func NewTestimonialHandler(testimonials service.ITestimonialService) *TestimonialHandler {
	return &TestimonialHandler{testimonials: testimonials}
}

func (h *TestimonialHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/testimonials", h.ListTestimonials)
}

func (h *TestimonialHandler) ListTestimonials(c *gin.Context) {
	list, err := h.testimonials.ListTestimonials(c.Request.Context())
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	resp := make([]types.TestimonialResponse, 0, len(list))
	for _, t := range list {
		resp = append(resp, types.TestimonialResponse{Username: t.Owner.Name, Testimonial: t.Text})
	}
	c.JSON(http.StatusOK, resp)
}
