package router

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pageza/soyummy/backend/internal/api"
	"github.com/pageza/soyummy/backend/internal/middleware"
)

// Handlers groups the API handlers mounted under /api.
type Handlers struct {
	Recipes      *api.RecipeHandler
	Catalog      *api.CatalogHandler
	Testimonials *api.TestimonialHandler
	Users        *api.UserHandler
	Health       *api.HealthHandler
}

// SetupRouter configures the application routes
func SetupRouter(h Handlers, allowedOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(
		requestid.New(),
		middleware.Logger(),
		middleware.Recovery(),
		middleware.CORS(allowedOrigins),
		middleware.Metrics(),
	)

	router.GET("/health", h.Health.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v := router.Group("/api")
	v.GET("/health", h.Health.HealthCheck)
	h.Recipes.RegisterRoutes(v)
	h.Catalog.RegisterRoutes(v)
	h.Testimonials.RegisterRoutes(v)
	h.Users.RegisterRoutes(v)

	router.NoRoute(middleware.NotFound())
	return router
}
