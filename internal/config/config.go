package config

import (
	"errors"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr        string
	BackendURL  string
	DatabaseURL string
	JWTSecret   string
	JWTTTL      time.Duration
	LogLevel    string
}

// Load reads configuration from the environment, with an optional .env file
// for local development. BACKEND_URL selects the remote order store and wins
// over DATABASE_URL; with neither set the service falls back to a local
// SQLite file.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Addr:        getEnv("ADDR", ":8080"),
		BackendURL:  os.Getenv("BACKEND_URL"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		JWTTTL:      24 * time.Hour,
		LogLevel:    getEnv("LOG_LEVEL", "info"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}
	if cfg.BackendURL == "" && cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "taller.db"
	}

	if ttl := os.Getenv("JWT_TTL"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			return Config{}, errors.New("JWT_TTL is not a valid duration")
		}
		cfg.JWTTTL = d
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
