package types

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// RecipeView is the read model returned by every recipe query, with the
// author reference resolved to a username.
type RecipeView struct {
	ID             uuid.UUID   `json:"id"`
	Title          string      `json:"title"`
	AuthorID       uuid.UUID   `json:"author_id"`
	AuthorUsername string      `json:"author_username"`
	Ingredients    []string    `json:"ingredients"`
	Instructions   string      `json:"instructions"`
	ImageURL       string      `json:"image_url"`
	Tags           []string    `json:"tags"`
	Likes          []uuid.UUID `json:"likes"`
	LikeCount      int         `json:"like_count"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// ListOptions selects the ordering of recipe lists.
type ListOptions struct {
	SortBy    string `form:"sortBy" json:"sort_by,omitempty"`
	SortOrder string `form:"sortOrder" json:"sort_order,omitempty"`
}

// Column returns the recipes column to order by. Unknown fields fall back to
// the creation time.
func (o ListOptions) Column() string {
	switch o.SortBy {
	case "updatedAt", "updated_at":
		return "updated_at"
	case "title":
		return "title"
	default:
		return "created_at"
	}
}

// Ascending reports whether the sort order asks for ascending results.
func (o ListOptions) Ascending() bool {
	switch strings.ToLower(strings.TrimSpace(o.SortOrder)) {
	case "ascending", "asc", "1":
		return true
	default:
		return false
	}
}
