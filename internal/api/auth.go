package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/recipe-share/backend/internal/service"
	"github.com/pageza/recipe-share/backend/internal/types"
)

// AuthHandler serves signup, login and public user lookups.
type AuthHandler struct {
	authService service.IAuthService
}

func NewAuthHandler(authService service.IAuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	user := router.Group("/user")
	{
		user.POST("/signup", h.Signup)
		user.POST("/login", h.Login)
	}
	router.GET("/users/:id", h.GetUser)
}

// Signup godoc
// @Summary Register a new user
// @Tags authentication
// @Accept json
// @Produce json
// @Param request body types.CredentialsRequest true "username and password"
// @Success 201 {object} types.SignupResponse
// @Failure 400 {object} types.ErrorResponse
// @Failure 409 {object} types.ErrorResponse
// @Router /api/v1/user/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req types.CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "username and password are required")
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req.Username, req.Password)
	if errors.Is(err, service.ErrDuplicateUsername) {
		abortWithError(c, http.StatusConflict, "username already taken")
		return
	}
	if err != nil {
		respondServiceError(c, "signup", err)
		return
	}

	c.JSON(http.StatusCreated, types.SignupResponse{ID: user.ID, Username: user.Username})
}

// Login godoc
// @Summary Log in
// @Tags authentication
// @Accept json
// @Produce json
// @Param request body types.CredentialsRequest true "username and password"
// @Success 200 {object} types.LoginResponse
// @Failure 400 {object} types.ErrorResponse
// @Failure 401 {object} types.ErrorResponse
// @Router /api/v1/user/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req types.CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "username and password are required")
		return
	}

	token, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		abortWithError(c, http.StatusUnauthorized, "invalid username or password")
		return
	}
	if err != nil {
		respondServiceError(c, "login", err)
		return
	}

	c.JSON(http.StatusOK, types.LoginResponse{Token: token})
}

// GetUser godoc
// @Summary Get a user's public profile
// @Tags users
// @Produce json
// @Param id path string true "user id"
// @Success 200 {object} types.UserResponse
// @Failure 404 {object} types.ErrorResponse
// @Router /api/v1/users/{id} [get]
func (h *AuthHandler) GetUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusNotFound, "user not found")
		return
	}

	user, err := h.authService.GetUserByID(c.Request.Context(), id)
	if errors.Is(err, service.ErrUserNotFound) {
		abortWithError(c, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		respondServiceError(c, "get user", err)
		return
	}

	c.JSON(http.StatusOK, types.UserResponse{ID: user.ID, Username: user.Username})
}
