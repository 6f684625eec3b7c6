package main

import (
	"log"
	"os"
	"strings"

	"gorm.io/gorm"

	"attendance-backend/internal/config"
	"attendance-backend/internal/db"
	"attendance-backend/internal/models"
	"attendance-backend/internal/utils"
)

// Seeds the first admin account from ADMIN_BOOTSTRAP_EMAIL and
// ADMIN_BOOTSTRAP_PASSWORD. Safe to rerun; exits cleanly if the user exists.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	email := strings.ToLower(strings.TrimSpace(cfg.AdminBootstrap))
	password := os.Getenv("ADMIN_BOOTSTRAP_PASSWORD")
	if email == "" || password == "" {
		log.Fatal("ADMIN_BOOTSTRAP_EMAIL and ADMIN_BOOTSTRAP_PASSWORD are required")
	}

	database, err := db.Open(cfg.DbDsn)
	if err != nil {
		log.Fatalf("db error: %v", err)
	}

	var existing models.User
	if err := database.Where("email = ?", email).First(&existing).Error; err == nil {
		log.Printf("admin user already exists: %s", email)
		return
	} else if err != gorm.ErrRecordNotFound {
		log.Fatalf("query error: %v", err)
	}

	passwordHash, err := utils.HashPassword(password)
	if err != nil {
		log.Fatalf("password error: %v", err)
	}

	user := models.User{
		Email:        email,
		PasswordHash: passwordHash,
		Name:         "Admin",
		Role:         "admin",
	}
	if err := database.Create(&user).Error; err != nil {
		log.Fatalf("create error: %v", err)
	}

	log.Printf("admin user created: %s", email)
}
