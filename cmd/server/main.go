package main

import (
	"errors"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/bustracker/backend/internal/auth"
	"github.com/bustracker/backend/internal/config"
	"github.com/bustracker/backend/internal/fleet"
	"github.com/bustracker/backend/internal/httpapi"
	"github.com/bustracker/backend/internal/models"
	"github.com/bustracker/backend/internal/store"
	"github.com/bustracker/backend/internal/users"
)

func main() {
	// .env is optional in deployment environments
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	st := store.New(db)
	codec := auth.NewTokenCodec(cfg.JWTSecret, cfg.TokenTTL)
	fleetSvc := fleet.NewService(st, st)
	userSvc := users.NewService(st, st, codec, cfg.BcryptCost, st)

	if err := seedAdmin(st, cfg); err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	r := gin.Default()
	httpapi.Routes(r, codec, st, fleetSvc, userSvc)

	log.Printf("listening on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}

// seedAdmin provisions the bootstrap admin account when none exists and the
// ADMIN_* variables are configured. Admins are never created through the
// public registration route.
func seedAdmin(st *store.GormStore, cfg config.Config) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}
	_, err := st.FindUserByEmail(cfg.AdminEmail)
	if err == nil {
		return nil
	}
	if !errors.Is(err, users.ErrUserNotFound) {
		return err
	}
	hash, err := auth.HashPassword(cfg.AdminPassword, cfg.BcryptCost)
	if err != nil {
		return err
	}
	name := cfg.AdminName
	if name == "" {
		name = "System Admin"
	}
	admin := &models.User{
		Name:         name,
		Email:        cfg.AdminEmail,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		IsActive:     true,
	}
	if err := st.CreateUser(admin); err != nil {
		return err
	}
	log.Printf("[SEED] admin account created: %s", admin.Email)
	return nil
}
