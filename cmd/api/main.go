package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pageza/soyummy/backend/config"
	"github.com/pageza/soyummy/backend/internal/api"
	"github.com/pageza/soyummy/backend/internal/database"
	"github.com/pageza/soyummy/backend/internal/logger"
	"github.com/pageza/soyummy/backend/internal/middleware"
	"github.com/pageza/soyummy/backend/internal/router"
	"github.com/pageza/soyummy/backend/internal/server"
	"github.com/pageza/soyummy/backend/internal/service"
	"github.com/pageza/soyummy/backend/internal/storage"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.LogLevel, cfg.LogFormat); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Named("main")

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited with error", zap.Error(err))
	}
	log.Info("server stopped")
}

func run(cfg *config.Config, log *zap.Logger) error {
	db, err := database.Open(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Warn("failed to close database", zap.Error(err))
		}
	}()

	if err := database.RunMigrations(db, cfg.MigrationsDir); err != nil {
		return err
	}

	// Redis is optional: without it the catalog is not cached and rate
	// limits are enforced per process.
	var redisClient *redis.Client
	if cfg.RedisEnabled() {
		redisClient, err = database.NewRedisClient(cfg)
		if err != nil {
			log.Warn("redis unavailable, continuing without cache", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	images, err := newImageStore(context.Background(), cfg)
	if err != nil {
		return err
	}

	if err := api.RegisterValidators(); err != nil {
		return err
	}

	authService := service.NewAuthService(db, cfg.JWTSecret, cfg.JWTExpiration)
	catalogService := service.NewCatalogService(db, redisClient, cfg.CatalogCacheTTL)
	recipeService := service.NewRecipeService(db, catalogService, images)
	favoriteService := service.NewFavoriteService(db, recipeService)
	popularityService := service.NewPopularityService(db, recipeService)
	userService := service.NewUserService(db, recipeService, favoriteService, images)
	testimonialService := service.NewTestimonialService(db)

	handler := router.SetupRouter(router.Handlers{
		Recipes: api.NewRecipeHandler(recipeService, favoriteService, popularityService, authService, api.RecipeHandlerOptions{
			CreateLimiter:   middleware.NewRecipeCreationRateLimiter(redisClient, cfg.RateLimitWindow, cfg.RecipeCreateLimit),
			FavoriteLimiter: middleware.NewFavoriteRateLimiter(redisClient, cfg.RateLimitWindow, cfg.FavoriteLimit),
			MaxUploadSize:   cfg.MaxUploadSize,
		}),
		Catalog:      api.NewCatalogHandler(catalogService),
		Testimonials: api.NewTestimonialHandler(testimonialService),
		Users:        api.NewUserHandler(authService, userService, cfg.MaxUploadSize),
		Health:       api.NewHealthHandler(db),
	}, cfg.CORSAllowedOrigins)

	srv := server.New(cfg, handler)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-quit:
		log.Info("received signal", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(ctx)
}

// newImageStore builds the configured media backend behind a circuit breaker.
func newImageStore(ctx context.Context, cfg *config.Config) (storage.ImageStore, error) {
	var store storage.ImageStore
	switch cfg.StorageProvider {
	case "cloudinary":
		cld, err := storage.NewCloudinaryStoreFromParams(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
		if err != nil {
			return nil, err
		}
		store = cld
	default:
		client, err := config.NewS3Client(ctx, cfg)
		if err != nil {
			return nil, err
		}
		store = storage.NewS3Store(client, cfg.S3BucketName, cfg.S3PublicBaseURL)
	}
	return storage.NewBreakerStore(store, storage.DefaultBreakerSettings()), nil
}
