package types

import "github.com/google/uuid"

// CreateRecipeRequest represents the request body for creating a recipe
type CreateRecipeRequest struct {
	Title        string   `json:"title"`
	Ingredients  []string `json:"ingredients"`
	Instructions string   `json:"instructions"`
	ImageURL     string   `json:"image_url"`
	Tags         []string `json:"tags"`
}

// UpdateRecipeRequest is a partial update; nil fields are left unchanged.
type UpdateRecipeRequest struct {
	Title        *string   `json:"title,omitempty"`
	Ingredients  *[]string `json:"ingredients,omitempty"`
	Instructions *string   `json:"instructions,omitempty"`
	ImageURL     *string   `json:"image_url,omitempty"`
	Tags         *[]string `json:"tags,omitempty"`
}

// IsEmpty reports whether the patch changes no field.
func (r *UpdateRecipeRequest) IsEmpty() bool {
	return r.Title == nil && r.Ingredients == nil && r.Instructions == nil &&
		r.ImageURL == nil && r.Tags == nil
}

// CredentialsRequest is the body of both signup and login.
type CredentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type SignupResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}

// ErrorResponse is the body of every non-2xx API answer.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// RateLimitResponse reports the caller's remaining quota for an action.
type RateLimitResponse struct {
	Limit     int   `json:"limit"`
	Remaining int   `json:"remaining"`
	ResetAt   int64 `json:"reset_at"`
}
