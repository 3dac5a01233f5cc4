package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pageza/recipe-share/backend/config"
	"github.com/pageza/recipe-share/backend/internal/database"
	"github.com/pageza/recipe-share/backend/internal/models"
	"github.com/pageza/recipe-share/backend/internal/service"
	"github.com/pageza/recipe-share/backend/internal/types"
	"gorm.io/gorm"
)

// RecipeData is one entry of a seed file.
type RecipeData struct {
	Title        string   `yaml:"title"`
	Ingredients  []string `yaml:"ingredients"`
	Instructions string   `yaml:"instructions"`
	ImageURL     string   `yaml:"image_url"`
	Tags         []string `yaml:"tags"`
}

var defaultRecipes = []RecipeData{
	{
		Title:        "Spaghetti Carbonara",
		Ingredients:  []string{"spaghetti", "eggs", "pecorino", "guanciale", "black pepper"},
		Instructions: "Cook the pasta. Whisk eggs with cheese, toss with hot pasta and crisp guanciale.",
		Tags:         []string{"pasta", "italian"},
	},
	{
		Title:        "Vegan Stir Fry",
		Ingredients:  []string{"tofu", "broccoli", "bell pepper", "soy sauce", "ginger"},
		Instructions: "Fry the tofu until golden, add vegetables and sauce, cook until glossy.",
		Tags:         []string{"vegan", "asian"},
	},
	{
		Title:        "Chicken Curry",
		Ingredients:  []string{"chicken thighs", "curry paste", "coconut milk", "onion"},
		Instructions: "Brown the chicken, soften the onion, simmer with paste and coconut milk.",
		Tags:         []string{"indian", "spicy"},
	},
}

func main() {
	username := flag.String("user", "demo", "Username that authors the seeded recipes")
	password := flag.String("password", "password123", "Password for the user if it has to be created")
	file := flag.String("file", "", "Optional YAML file with the recipes to seed")
	flag.Parse()

	recipes := defaultRecipes
	if *file != "" {
		loaded, err := loadRecipes(*file)
		if err != nil {
			log.Fatalf("Failed to load seed file: %v", err)
		}
		recipes = loaded
	}

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

	ctx := context.Background()
	auth := service.NewAuthService(db, cfg.JWTSecret, cfg.JWTTTL)
	user, err := ensureUser(ctx, db, auth, *username, *password)
	if err != nil {
		log.Fatalf("Failed to prepare seed user: %v", err)
	}

	created, err := seed(ctx, service.NewRecipeService(db), user, recipes)
	if err != nil {
		log.Fatalf("Failed to seed recipes: %v", err)
	}
	fmt.Printf("Seeded %d recipes for %s\n", created, user.Username)
}

func loadRecipes(path string) ([]RecipeData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out []RecipeData
	if err := yaml.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return out, nil
}

func ensureUser(ctx context.Context, db *gorm.DB, auth *service.AuthService, username, password string) (*models.User, error) {
	user, err := auth.Register(ctx, username, password)
	if err == nil {
		log.Printf("[Seed] Created user %s", username)
		return user, nil
	}
	if !errors.Is(err, service.ErrDuplicateUsername) {
		return nil, err
	}

	var existing models.User
	if err := db.WithContext(ctx).Where("username = ?", username).First(&existing).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}

// seed creates the recipes the user does not already have a recipe titled
// alike for, so running it twice is harmless.
func seed(ctx context.Context, recipes *service.RecipeService, user *models.User, data []RecipeData) (int, error) {
	existing, err := recipes.ListByAuthor(ctx, user.Username, types.ListOptions{})
	if err != nil {
		return 0, err
	}
	have := make(map[string]bool, len(existing))
	for _, r := range existing {
		have[r.Title] = true
	}

	created := 0
	for _, d := range data {
		if have[d.Title] {
			log.Printf("[Seed] Skipping existing recipe %q", d.Title)
			continue
		}
		_, err := recipes.Create(ctx, user.ID, &types.CreateRecipeRequest{
			Title:        d.Title,
			Ingredients:  d.Ingredients,
			Instructions: d.Instructions,
			ImageURL:     d.ImageURL,
			Tags:         d.Tags,
		})
		if err != nil {
			return created, fmt.Errorf("create %q: %w", d.Title, err)
		}
		created++
	}
	return created, nil
}
