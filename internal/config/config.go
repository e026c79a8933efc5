package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// Config carries everything the server needs. Values are read from the
// environment once at startup and passed to constructors explicitly.
type Config struct {
	Port        string
	DatabaseURL string

	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int

	// Optional bootstrap admin, seeded when no admin account exists.
	AdminName     string
	AdminEmail    string
	AdminPassword string
}

func Load() (Config, error) {
	cfg := Config{
		Port:          os.Getenv("PORT"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		TokenTTL:      24 * time.Hour,
		BcryptCost:    12,
		AdminName:     os.Getenv("ADMIN_NAME"),
		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.DatabaseURL == "" {
		return cfg, errors.New("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return cfg, errors.New("JWT_SECRET is required")
	}
	if v := os.Getenv("JWT_EXPIRE"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return cfg, errors.New("JWT_EXPIRE must be a duration like 24h")
		}
		cfg.TokenTTL = ttl
	}
	if v := os.Getenv("BCRYPT_COST"); v != "" {
		cost, err := strconv.Atoi(v)
		if err != nil {
			return cfg, errors.New("BCRYPT_COST must be an integer")
		}
		cfg.BcryptCost = cost
	}
	return cfg, nil
}
