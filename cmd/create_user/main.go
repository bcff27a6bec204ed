package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/Saparbek-4/task-manager-pro/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	username := flag.String("username", "", "username for the new account")
	email := flag.String("email", "", "email for the new account")
	password := flag.String("password", "", "plaintext password (min 6 chars)")
	role := flag.String("role", models.RoleUser, "role: USER or ADMIN")
	flag.Parse()
	if *username == "" || *email == "" || *password == "" {
		fmt.Println("usage: go run ./cmd/create_user --username u --email e --password p [--role ADMIN]")
		os.Exit(2)
	}
	if len(*password) < 6 {
		log.Fatal("password too short (min 6)")
	}
	if !models.ValidRole(*role) {
		log.Fatalf("unknown role %q", *role)
	}

	dsn := os.Getenv("DB_DSN")
	if strings.TrimSpace(dsn) == "" {
		log.Fatal("DB_DSN not set in environment")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}

	// check existing
	var existing models.User
	if err := db.Where("email = ?", *email).First(&existing).Error; err == nil {
		fmt.Printf("user %s already exists (id=%s)\n", *email, existing.ID)
		os.Exit(0)
	}

	hpw, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("bcrypt failed: %v", err)
	}
	user := models.User{
		ID:       uuid.New(),
		Username: *username,
		Email:    strings.ToLower(strings.TrimSpace(*email)),
		Password: hpw,
		Role:     *role,
	}
	if err := db.Create(&user).Error; err != nil {
		log.Fatalf("failed to create user: %v", err)
	}
	fmt.Printf("created user %s id=%s role=%s\n", user.Email, user.ID, user.Role)
}
