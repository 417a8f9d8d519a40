package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Environment Environment

	// Server configuration
	ServerPort      string
	ServerHost      string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// Database configuration
	DBDriver          string
	DBHost            string
	DBPort            string
	DBUser            string
	DBPassword        string
	DBName            string
	DBSSLMode         string
	DBPath            string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration
	MigrationsDir     string

	// Redis configuration. An empty RedisURL and RedisHost disables Redis.
	RedisURL      string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// JWT configuration
	JWTSecret     string
	JWTExpiration time.Duration

	// Logging
	LogLevel  string
	LogFormat string

	// Media storage
	StorageProvider     string
	S3BucketName        string
	S3Endpoint          string
	S3PublicBaseURL     string
	AWSRegion           string
	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	MaxUploadSize       int64

	// HTTP policy
	CORSAllowedOrigins []string
	RateLimitWindow    time.Duration
	RecipeCreateLimit  int
	FavoriteLimit      int
	CatalogCacheTTL    time.Duration
}

// secretKeys are read from Docker secrets under SECRETS_DIR before the environment.
var secretKeys = []string{
	"db_password",
	"jwt_secret",
	"redis_password",
	"cloudinary_api_secret",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server_host", "0.0.0.0")
	v.SetDefault("server_port", "8080")
	v.SetDefault("server_read_timeout", 15*time.Second)
	v.SetDefault("server_write_timeout", 30*time.Second)
	v.SetDefault("server_shutdown_timeout", 10*time.Second)

	v.SetDefault("db_driver", "postgres")
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_user", "postgres")
	v.SetDefault("db_name", "soyummy")
	v.SetDefault("db_ssl_mode", "disable")
	v.SetDefault("db_path", "soyummy.db")
	v.SetDefault("db_max_open_conns", 25)
	v.SetDefault("db_max_idle_conns", 25)
	v.SetDefault("db_conn_max_lifetime", 5*time.Minute)
	v.SetDefault("migrations_dir", "migrations")

	v.SetDefault("redis_db", 0)

	v.SetDefault("jwt_expiration", 24*time.Hour)

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")

	v.SetDefault("storage_provider", "s3")
	v.SetDefault("s3_bucket_name", "soyummy-images")
	v.SetDefault("aws_region", "us-east-1")
	v.SetDefault("max_upload_size", 10<<20)

	v.SetDefault("cors_allowed_origins", "http://localhost:3000,http://localhost:5173")
	v.SetDefault("rate_limit_window", time.Hour)
	v.SetDefault("recipe_create_limit", 20)
	v.SetDefault("favorite_limit", 300)
	v.SetDefault("catalog_cache_ttl", 10*time.Minute)
}

// LoadConfig reads .env (if present), the process environment and Docker secrets,
// applies defaults and validates the result.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	for _, name := range secretKeys {
		if value := readSecret(name); value != "" {
			v.Set(name, value)
		}
	}

	cfg := &Config{
		Environment: GetEnvironment(),

		ServerPort:      v.GetString("server_port"),
		ServerHost:      v.GetString("server_host"),
		ReadTimeout:     v.GetDuration("server_read_timeout"),
		WriteTimeout:    v.GetDuration("server_write_timeout"),
		ShutdownTimeout: v.GetDuration("server_shutdown_timeout"),

		DBDriver:          strings.ToLower(v.GetString("db_driver")),
		DBHost:            v.GetString("db_host"),
		DBPort:            v.GetString("db_port"),
		DBUser:            v.GetString("db_user"),
		DBPassword:        v.GetString("db_password"),
		DBName:            v.GetString("db_name"),
		DBSSLMode:         v.GetString("db_ssl_mode"),
		DBPath:            v.GetString("db_path"),
		DBMaxOpenConns:    v.GetInt("db_max_open_conns"),
		DBMaxIdleConns:    v.GetInt("db_max_idle_conns"),
		DBConnMaxLifetime: v.GetDuration("db_conn_max_lifetime"),
		MigrationsDir:     v.GetString("migrations_dir"),

		RedisURL:      v.GetString("redis_url"),
		RedisHost:     v.GetString("redis_host"),
		RedisPort:     v.GetString("redis_port"),
		RedisPassword: v.GetString("redis_password"),
		RedisDB:       v.GetInt("redis_db"),

		JWTSecret:     v.GetString("jwt_secret"),
		JWTExpiration: v.GetDuration("jwt_expiration"),

		LogLevel:  v.GetString("log_level"),
		LogFormat: v.GetString("log_format"),

		StorageProvider:     strings.ToLower(v.GetString("storage_provider")),
		S3BucketName:        v.GetString("s3_bucket_name"),
		S3Endpoint:          v.GetString("s3_endpoint"),
		S3PublicBaseURL:     v.GetString("s3_public_base_url"),
		AWSRegion:           v.GetString("aws_region"),
		CloudinaryCloudName: v.GetString("cloudinary_cloud_name"),
		CloudinaryAPIKey:    v.GetString("cloudinary_api_key"),
		CloudinaryAPISecret: v.GetString("cloudinary_api_secret"),
		MaxUploadSize:       v.GetInt64("max_upload_size"),

		CORSAllowedOrigins: splitList(v.GetString("cors_allowed_origins")),
		RateLimitWindow:    v.GetDuration("rate_limit_window"),
		RecipeCreateLimit:  v.GetInt("recipe_create_limit"),
		FavoriteLimit:      v.GetInt("favorite_limit"),
		CatalogCacheTTL:    v.GetDuration("catalog_cache_ttl"),
	}

	if cfg.Environment == Development && cfg.JWTSecret == "" {
		cfg.JWTSecret = "development-secret"
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// DSN returns the driver specific connection string.
func (c *Config) DSN() string {
	switch c.DBDriver {
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
	case "sqlite":
		return c.DBPath
	default:
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
	}
}

// RedisEnabled reports whether a Redis endpoint is configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != "" || c.RedisHost != ""
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	if data, err := os.ReadFile(filepath.Join(secretsDir, name)); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
