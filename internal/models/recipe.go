package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StringArray is a string slice stored as a JSON array column.
type StringArray []string

// Value implements the driver.Valuer interface. A string is returned so that
// SQLite keeps the column as TEXT and its json functions can read it.
func (a StringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal([]string(a))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = StringArray{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("unsupported type for StringArray: %T", value)
	}

	out := StringArray{}
	if err := json.Unmarshal(bytes, &out); err != nil {
		return err
	}
	*a = out
	return nil
}

// GormDBDataType picks the column type per dialect.
func (StringArray) GormDBDataType(db *gorm.DB, _ interface{}) string {
	if db.Dialector.Name() == "postgres" {
		return "jsonb"
	}
	return "text"
}

type Recipe struct {
	ID           uuid.UUID   `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
	Title        string      `gorm:"size:255;not null" json:"title"`
	AuthorID     uuid.UUID   `gorm:"type:varchar(36);not null;index" json:"author_id"`
	Ingredients  StringArray `gorm:"not null;default:'[]'" json:"ingredients"`
	Instructions string      `gorm:"type:text" json:"instructions"`
	ImageURL     string      `gorm:"type:text" json:"image_url"`
	Tags         StringArray `gorm:"not null;default:'[]'" json:"tags"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Ingredients == nil {
		r.Ingredients = StringArray{}
	}
	if r.Tags == nil {
		r.Tags = StringArray{}
	}
	return nil
}

// RecipeLike records that a user likes a recipe. The composite key keeps at
// most one like per user and recipe.
type RecipeLike struct {
	RecipeID  uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"recipe_id"`
	UserID    uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
