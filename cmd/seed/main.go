package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/pageza/soyummy/backend/config"
	"github.com/pageza/soyummy/backend/internal/database"
	"github.com/pageza/soyummy/backend/internal/logger"
	"github.com/pageza/soyummy/backend/internal/seed"
	"github.com/pageza/soyummy/backend/internal/service"
)

func main() {
	dataDir := flag.String("data", "cmd/seed/data", "Directory with areas.json, categories.json, ingredients.json, users.json, recipes.json and testimonials.json")
	password := flag.String("password", "", "Password for seeded users that do not define one (required when users.json is present)")
	flag.Parse()

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
	log := logger.Named("seed")

	if *password == "" {
		*password = os.Getenv("SEED_DEFAULT_PASSWORD")
	}
	if _, err := os.Stat(filepath.Join(*dataDir, "users.json")); err == nil && *password == "" {
		log.Fatal("users.json needs a default password: pass -password or set SEED_DEFAULT_PASSWORD")
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)

	if err := database.RunMigrations(db, cfg.MigrationsDir); err != nil {
		log.Fatal("failed to migrate", zap.Error(err))
	}

	ctx := context.Background()
	if _, err := seed.New(db, *dataDir, *password).Run(ctx); err != nil {
		log.Fatal("seed failed", zap.Error(err))
	}

	// cached catalog lists would hide the new rows until they expire
	if cfg.RedisEnabled() {
		rdb, err := database.NewRedisClient(cfg)
		if err != nil {
			log.Warn("could not reach redis to clear the catalog cache", zap.Error(err))
			return
		}
		defer rdb.Close()
		if err := service.NewCatalogService(db, rdb, cfg.CatalogCacheTTL).InvalidateCache(ctx); err != nil {
			log.Warn("failed to clear the catalog cache", zap.Error(err))
		}
	}
}
