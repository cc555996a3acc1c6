package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds every process-wide setting. It is built once in main and
// passed by reference; nothing else reads the environment.
type Config struct {
	Port      string
	MongoURI  string
	DBName    string
	JWTSecret string
	BaseURL   string
}

func Load() (*Config, error) {
	// .env is optional; the real environment always wins.
	_ = godotenv.Load()

	cfg := &Config{
		Port:      getEnv("PORT", "3000"),
		MongoURI:  os.Getenv("MONGODB_URI"),
		DBName:    getEnv("DB_NAME", "blazon"),
		JWTSecret: os.Getenv("JWT_SECRET"),
		BaseURL:   getEnv("BASE_URL", "http://localhost:3000"),
	}

	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("config: MONGODB_URI is not set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("config: JWT_SECRET is not set")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
