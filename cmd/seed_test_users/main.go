package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"

	"github.com/pageza/recipe-share/backend/config"
	"github.com/pageza/recipe-share/backend/internal/database"
	"github.com/pageza/recipe-share/backend/internal/service"
)

var testUsers = []string{"johndoe", "janesmith", "chefmario", "bakerbob", "veganvicky"}

func main() {
	password := flag.String("password", "testpassword123", "Password shared by every test user")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	if err := database.RunMigrations(db, cfg.MigrationsDir); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	auth := service.NewAuthService(db, cfg.JWTSecret, cfg.JWTTTL)
	ctx := context.Background()

	for _, username := range testUsers {
		user, err := auth.Register(ctx, username, *password)
		switch {
		case errors.Is(err, service.ErrDuplicateUsername):
			fmt.Printf("User already exists: %s\n", username)
		case err != nil:
			log.Fatalf("Failed to create test user %s: %v", username, err)
		default:
			fmt.Printf("Created test user: %s (%s)\n", user.Username, user.ID)
		}
	}

	fmt.Printf("\nAll test users use the password %q\n", *password)
}
