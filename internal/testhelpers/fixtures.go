package testhelpers

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pageza/recipe-share/backend/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TestPassword is the plain-text password of every fixture user.
const TestPassword = "password123"

// CreateTestUser inserts a user whose password is TestPassword.
func CreateTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{Username: username, PasswordHash: string(hash)}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// RecipeFixture describes a recipe row to insert directly.
type RecipeFixture struct {
	Title        string
	AuthorID     uuid.UUID
	Ingredients  []string
	Instructions string
	Tags         []string
	CreatedAt    time.Time
}

// CreateTestRecipe inserts a recipe, bypassing the service. A zero CreatedAt
// means now; UpdatedAt is set to CreatedAt.
func CreateTestRecipe(t *testing.T, db *gorm.DB, f RecipeFixture) *models.Recipe {
	t.Helper()

	created := f.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	recipe := &models.Recipe{
		Title:        f.Title,
		AuthorID:     f.AuthorID,
		Ingredients:  models.StringArray(f.Ingredients),
		Instructions: f.Instructions,
		Tags:         models.StringArray(f.Tags),
		CreatedAt:    created,
		UpdatedAt:    created,
	}
	if err := db.Create(recipe).Error; err != nil {
		t.Fatalf("failed to create test recipe: %v", err)
	}
	return recipe
}

// SampleRecipes inserts the three demo recipes for author, one minute apart,
// oldest first.
func SampleRecipes(t *testing.T, db *gorm.DB, authorID uuid.UUID) []*models.Recipe {
	t.Helper()

	base := time.Now().UTC().Add(-time.Hour)
	return []*models.Recipe{
		CreateTestRecipe(t, db, RecipeFixture{
			Title:        "Spaghetti Carbonara",
			AuthorID:     authorID,
			Ingredients:  []string{"spaghetti", "eggs", "pecorino", "guanciale"},
			Instructions: "Cook pasta, mix with eggs and cheese, add guanciale.",
			Tags:         []string{"pasta", "italian"},
			CreatedAt:    base,
		}),
		CreateTestRecipe(t, db, RecipeFixture{
			Title:        "Vegan Stir Fry",
			AuthorID:     authorID,
			Ingredients:  []string{"tofu", "broccoli", "soy sauce"},
			Instructions: "Fry tofu, add vegetables and sauce.",
			Tags:         []string{"vegan", "asian"},
			CreatedAt:    base.Add(time.Minute),
		}),
		CreateTestRecipe(t, db, RecipeFixture{
			Title:        "Chicken Curry",
			AuthorID:     authorID,
			Ingredients:  []string{"chicken", "curry paste", "coconut milk"},
			Instructions: "Brown chicken, simmer with paste and coconut milk.",
			Tags:         []string{"indian", "spicy"},
			CreatedAt:    base.Add(2 * time.Minute),
		}),
	}
}
