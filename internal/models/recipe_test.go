package models

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&User{}, &Recipe{}, &RecipeLike{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

func TestStringArrayValue(t *testing.T) {
	v, err := StringArray(nil).Value()
	if err != nil || v != "[]" {
		t.Fatalf("nil array: got %v, %v", v, err)
	}
	v, err = StringArray{"a", "b"}.Value()
	if err != nil || v != `["a","b"]` {
		t.Fatalf("got %v, %v", v, err)
	}
}

func TestStringArrayScan(t *testing.T) {
	var a StringArray
	if err := a.Scan([]byte(`["x"]`)); err != nil || len(a) != 1 || a[0] != "x" {
		t.Fatalf("scan bytes: got %v, %v", a, err)
	}
	if err := a.Scan(nil); err != nil || a == nil || len(a) != 0 {
		t.Fatalf("scan nil: got %#v, %v", a, err)
	}
	if err := a.Scan(42); err == nil {
		t.Fatal("expected error for unsupported type")
	}
}

func TestCreateRecipeDefaults(t *testing.T) {
	db := setupTestDB(t)
	user := &User{Username: "alice", PasswordHash: "x"}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	if user.ID == uuid.Nil {
		t.Fatal("User ID should be set after creation")
	}

	recipe := &Recipe{Title: "Toast", AuthorID: user.ID}
	if err := db.Create(recipe).Error; err != nil {
		t.Fatalf("Failed to create recipe: %v", err)
	}

	var got Recipe
	if err := db.First(&got, "id = ?", recipe.ID).Error; err != nil {
		t.Fatalf("Failed to load recipe: %v", err)
	}
	if got.Ingredients == nil || len(got.Ingredients) != 0 {
		t.Errorf("ingredients should default to empty, got %#v", got.Ingredients)
	}
	if got.Tags == nil || len(got.Tags) != 0 {
		t.Errorf("tags should default to empty, got %#v", got.Tags)
	}
	if got.UpdatedAt.Before(got.CreatedAt) {
		t.Error("updated_at should not precede created_at")
	}
}

func TestRecipeLikeCompositeKey(t *testing.T) {
	db := setupTestDB(t)
	like := RecipeLike{RecipeID: uuid.New(), UserID: uuid.New()}
	if err := db.Create(&like).Error; err != nil {
		t.Fatalf("Failed to create like: %v", err)
	}
	dup := RecipeLike{RecipeID: like.RecipeID, UserID: like.UserID}
	if err := db.Create(&dup).Error; err == nil {
		t.Error("duplicate like should violate the primary key")
	}
}
