package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var (
	supportedDrivers   = map[string]bool{"postgres": true, "mysql": true, "sqlite": true}
	supportedProviders = map[string]bool{"s3": true, "cloudinary": true}
)

// ValidateConfig checks the configuration and reports every problem at once
func ValidateConfig(cfg *Config) error {
	var errs []ValidationError

	if cfg.ServerPort == "" {
		errs = append(errs, ValidationError{"SERVER_PORT", "is required"})
	}
	if cfg.JWTSecret == "" {
		errs = append(errs, ValidationError{"JWT_SECRET", "is required (env or jwt_secret secret)"})
	}
	if cfg.JWTExpiration <= 0 {
		errs = append(errs, ValidationError{"JWT_EXPIRATION", "must be positive"})
	}

	if !supportedDrivers[cfg.DBDriver] {
		errs = append(errs, ValidationError{"DB_DRIVER", fmt.Sprintf("unsupported driver %q", cfg.DBDriver)})
	}
	if cfg.DBDriver != "sqlite" {
		if cfg.DBHost == "" {
			errs = append(errs, ValidationError{"DB_HOST", "is required"})
		}
		if cfg.DBName == "" {
			errs = append(errs, ValidationError{"DB_NAME", "is required"})
		}
		if cfg.Environment.IsProduction() && cfg.DBPassword == "" {
			errs = append(errs, ValidationError{"db_password", "secret is required in production"})
		}
	}

	if !supportedProviders[cfg.StorageProvider] {
		errs = append(errs, ValidationError{"STORAGE_PROVIDER", fmt.Sprintf("unsupported provider %q", cfg.StorageProvider)})
	}
	switch cfg.StorageProvider {
	case "s3":
		if cfg.S3BucketName == "" {
			errs = append(errs, ValidationError{"S3_BUCKET_NAME", "is required for s3 storage"})
		}
	case "cloudinary":
		if cfg.CloudinaryCloudName == "" || cfg.CloudinaryAPIKey == "" || cfg.CloudinaryAPISecret == "" {
			errs = append(errs, ValidationError{"CLOUDINARY", "cloud name, api key and api secret are required"})
		}
	}
	if cfg.MaxUploadSize <= 0 {
		errs = append(errs, ValidationError{"MAX_UPLOAD_SIZE", "must be positive"})
	}

	if cfg.RecipeCreateLimit <= 0 || cfg.FavoriteLimit <= 0 {
		errs = append(errs, ValidationError{"RATE_LIMIT", "limits must be positive"})
	}
	if cfg.RateLimitWindow <= 0 {
		errs = append(errs, ValidationError{"RATE_LIMIT_WINDOW", "must be positive"})
	}

	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return fmt.Errorf("%d problem(s):\n%s", len(errs), strings.Join(msgs, "\n"))
}
