package client

import "time"

// Recipe is a recipe as the API returns it.
type Recipe struct {
	ID             string    `json:"id" yaml:"id"`
	Title          string    `json:"title" yaml:"title"`
	AuthorID       string    `json:"author_id" yaml:"author_id"`
	AuthorUsername string    `json:"author_username" yaml:"author_username"`
	Ingredients    []string  `json:"ingredients" yaml:"ingredients"`
	Instructions   string    `json:"instructions" yaml:"instructions"`
	ImageURL       string    `json:"image_url" yaml:"image_url"`
	Tags           []string  `json:"tags" yaml:"tags"`
	Likes          []string  `json:"likes" yaml:"likes"`
	LikeCount      int       `json:"like_count" yaml:"like_count"`
	CreatedAt      time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" yaml:"updated_at"`
}

// LikedBy reports whether userID is in the like list.
func (r *Recipe) LikedBy(userID string) bool {
	for _, id := range r.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// User is the public view of an account.
type User struct {
	ID       string `json:"id" yaml:"id"`
	Username string `json:"username" yaml:"username"`
}

// ListQuery selects and orders recipes. Author and Tag are mutually
// exclusive.
type ListQuery struct {
	SortBy    string
	SortOrder string
	Author    string
	Tag       string
}

// RecipeInput is the body of CreateRecipe.
type RecipeInput struct {
	Title        string   `json:"title"`
	Ingredients  []string `json:"ingredients,omitempty"`
	Instructions string   `json:"instructions,omitempty"`
	ImageURL     string   `json:"image_url,omitempty"`
	Tags         []string `json:"tags,omitempty"`
}

// RecipePatch is the body of UpdateRecipe; nil fields are left unchanged.
type RecipePatch struct {
	Title        *string   `json:"title,omitempty"`
	Ingredients  *[]string `json:"ingredients,omitempty"`
	Instructions *string   `json:"instructions,omitempty"`
	ImageURL     *string   `json:"image_url,omitempty"`
	Tags         *[]string `json:"tags,omitempty"`
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}
