package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all environment-derived settings. The Gemini API key is
// injected from here rather than read from a package-level constant so that
// deployments can rotate credentials and tests can construct clients with
// fakes.
type Config struct {
	Port        string
	DatabaseURL string
	FrontendURL string

	GeminiAPIKey string
	GeminiModel  string

	// Cloudflare R2 (optional - archival is skipped when unset)
	R2AccountID       string
	R2BucketName      string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2PublicURL       string
}

// Load reads .env (when present) and assembles the configuration from the
// environment. The database URL and Gemini API key are mandatory; R2 is
// optional and archival is skipped when it is unset.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
		log.Println("WARN: .env file not found. Relying on system environment variables.")
	}

	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		FrontendURL:       getEnv("FRONTEND_URL", "http://localhost:5173"),
		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		GeminiModel:       getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		R2AccountID:       os.Getenv("CLOUDFLARE_ACCOUNT_ID"),
		R2BucketName:      os.Getenv("R2_BUCKET_NAME"),
		R2AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2PublicURL:       os.Getenv("R2_PUBLIC_URL"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable not set")
	}
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
