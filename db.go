package main

import (
	"log"

	"github.com/Saparbek-4/task-manager-pro/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var (
	db         *gorm.DB
	tokenStore TokenStore
)

func initDB() {
	var err error
	if cfg.DSN == "" {
		log.Fatal("DB_DSN is not set. This project requires a Postgres DSN in DB_DSN.")
	}
	db, err = gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect postgres database:", err)
	}
	if cfg.AutoMigrate {
		// Migrate models individually so a failure on one doesn't block others
		if err := db.AutoMigrate(&models.User{}); err != nil {
			log.Printf("migration warning (users): %v", err)
		}
		if err := db.AutoMigrate(&models.Token{}); err != nil {
			log.Printf("migration warning (tokens): %v", err)
		}
	}
	tokenStore = newGormTokenStore(db)
	seedDB()
}

func seedDB() {
	// Seed an admin account once so the operator endpoints are reachable.
	var count int64
	db.Model(&models.User{}).Where("username = ?", "admin").Count(&count)
	if count == 0 {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
		admin := models.User{
			ID:       uuid.New(),
			Username: "admin",
			Email:    "admin@example.com",
			Password: hashedPassword,
			Role:     models.RoleAdmin,
		}
		if err := db.Create(&admin).Error; err != nil {
			log.Printf("failed to seed admin user: %v", err)
			return
		}
		log.Println("Seeded admin user: username=admin, password=admin123")
	}
}
