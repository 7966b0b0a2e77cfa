package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds runtime configuration for the API service.
type Config struct {
	Environment   string
	Addr          string
	DatabaseURL   string
	MigrationsDir string

	// JWTSecret has no fallback on purpose: an empty secret makes the
	// token service reject everything instead of signing with a
	// guessable default.
	JWTSecret string
	TokenTTL  time.Duration

	BcryptCost int

	BannerStore     string
	UploadsDir      string
	S3Region        string
	S3AccessKey     string
	S3SecretKey     string
	S3Bucket        string
	S3Endpoint      string
	S3PublicBaseURL string

	RateLimitRedisAddr string
	RateLimitRedisPass string
	RateLimitRedisDB   int
}

// Load constructs a Config from environment variables.
func Load() Config {
	return Config{
		Environment:   GetString("APP_ENV", "development"),
		Addr:          GetString("API_ADDR", ":3000"),
		DatabaseURL:   GetString("DATABASE_URL", "postgres://blog:blog@db:5432/blog?sslmode=disable"),
		MigrationsDir: GetString("DB_MIGRATIONS_DIR", "db/migrations"),

		JWTSecret: GetString("JWT_SECRET", ""),
		TokenTTL:  time.Duration(GetInt("TOKEN_TTL_HOURS", 24)) * time.Hour,

		BcryptCost: GetInt("BCRYPT_COST", 0),

		BannerStore:     GetString("BANNER_STORE", "disk"),
		UploadsDir:      GetString("UPLOADS_DIR", "uploads"),
		S3Region:        GetString("S3_REGION", "us-east-1"),
		S3AccessKey:     GetString("S3_ACCESS_KEY", ""),
		S3SecretKey:     GetString("S3_SECRET_KEY", ""),
		S3Bucket:        GetString("S3_BUCKET", "banners"),
		S3Endpoint:      GetString("S3_ENDPOINT", ""),
		S3PublicBaseURL: GetString("S3_PUBLIC_BASE_URL", ""),

		RateLimitRedisAddr: GetString("RATE_LIMIT_REDIS_ADDR", ""),
		RateLimitRedisPass: GetString("RATE_LIMIT_REDIS_PASSWORD", ""),
		RateLimitRedisDB:   GetInt("RATE_LIMIT_REDIS_DB", 0),
	}
}

// GetString retrieves an environment variable or returns a fallback when unset.
func GetString(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// GetInt retrieves an environment variable as integer or returns fallback.
func GetInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			log.Printf("invalid value for %s: %v", key, err)
			return fallback
		}
		return parsed
	}
	return fallback
}

// GetBool retrieves an environment variable as bool or returns fallback.
func GetBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			log.Printf("invalid value for %s: %v", key, err)
			return fallback
		}
		return parsed
	}
	return fallback
}
