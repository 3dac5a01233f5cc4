package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipe-share/backend/internal/middleware"
	"github.com/pageza/recipe-share/backend/internal/service"
	"github.com/pageza/recipe-share/backend/internal/types"
)

const maxUploadBody = service.MaxImageSize + 1<<20

// RecipeHandler serves the /recipes routes.
type RecipeHandler struct {
	recipes             service.IRecipeService
	images              service.IImageService
	auth                middleware.TokenValidator
	creationLimiter     *middleware.RateLimiter
	modificationLimiter *middleware.RateLimiter
}

// NewRecipeHandler creates a RecipeHandler. images and the limiters may be
// nil, which disables uploads and rate limiting respectively.
func NewRecipeHandler(recipes service.IRecipeService, images service.IImageService, auth middleware.TokenValidator,
	creationLimiter, modificationLimiter *middleware.RateLimiter) *RecipeHandler {
	return &RecipeHandler{
		recipes:             recipes,
		images:              images,
		auth:                auth,
		creationLimiter:     creationLimiter,
		modificationLimiter: modificationLimiter,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	requireAuth := middleware.AuthMiddleware(h.auth)
	perRecipe := h.modificationLimiter.PerRecipeRateLimitMiddleware()

	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.GET("/:id", h.GetRecipe)
		recipes.POST("", requireAuth, h.creationLimiter.RateLimitMiddleware(), h.CreateRecipe)
		recipes.PATCH("/:id", requireAuth, perRecipe, h.UpdateRecipe)
		recipes.DELETE("/:id", requireAuth, h.DeleteRecipe)
		recipes.POST("/:id/like", requireAuth, h.ToggleLike)
		recipes.PUT("/:id/image", requireAuth, perRecipe, h.UploadImage)
	}
}

// ListRecipes godoc
// @Summary List recipes
// @Description Lists all recipes, or those of one author, or those carrying one tag
// @Tags recipes
// @Produce json
// @Param sortBy query string false "createdAt, updatedAt or title"
// @Param sortOrder query string false "ascending or descending"
// @Param author query string false "author username"
// @Param tag query string false "exact tag"
// @Success 200 {array} types.RecipeView
// @Failure 400 {object} types.ErrorResponse
// @Failure 500 {object} types.ErrorResponse
// @Router /api/v1/recipes [get]
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	opts := types.ListOptions{
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
	}
	author := c.Query("author")
	tag := c.Query("tag")

	var (
		views []types.RecipeView
		err   error
	)
	switch {
	case author != "" && tag != "":
		abortWithError(c, http.StatusBadRequest, "filter by author or by tag, not both")
		return
	case author != "":
		views, err = h.recipes.ListByAuthor(c.Request.Context(), author, opts)
	case tag != "":
		views, err = h.recipes.ListByTag(c.Request.Context(), tag, opts)
	default:
		views, err = h.recipes.ListAll(c.Request.Context(), opts)
	}
	if err != nil {
		respondServiceError(c, "list recipes", err)
		return
	}
	if views == nil {
		views = []types.RecipeView{}
	}

	c.JSON(http.StatusOK, views)
}

// GetRecipe godoc
// @Summary Get a recipe
// @Tags recipes
// @Produce json
// @Param id path string true "recipe id"
// @Success 200 {object} types.RecipeView
// @Failure 404 {object} types.ErrorResponse
// @Router /api/v1/recipes/{id} [get]
func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	view, err := h.recipes.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, "get recipe", err)
		return
	}
	if view == nil {
		abortWithError(c, http.StatusNotFound, "recipe not found")
		return
	}

	c.JSON(http.StatusOK, view)
}

// CreateRecipe godoc
// @Summary Create a recipe
// @Tags recipes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body types.CreateRecipeRequest true "recipe fields"
// @Success 200 {object} types.RecipeView
// @Failure 400 {object} types.ErrorResponse
// @Failure 401 {object} types.ErrorResponse
// @Failure 429 {object} types.ErrorResponse
// @Router /api/v1/recipes [post]
func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var req types.CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := h.recipes.Create(c.Request.Context(), userID, &req)
	if err != nil {
		respondServiceError(c, "create recipe", err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// UpdateRecipe godoc
// @Summary Update a recipe
// @Description Applies the provided fields only. Non-authors get 404.
// @Tags recipes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "recipe id"
// @Param request body types.UpdateRecipeRequest true "fields to change"
// @Success 200 {object} types.RecipeView
// @Failure 400 {object} types.ErrorResponse
// @Failure 401 {object} types.ErrorResponse
// @Failure 404 {object} types.ErrorResponse
// @Router /api/v1/recipes/{id} [patch]
func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var req types.UpdateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := h.recipes.Update(c.Request.Context(), userID, c.Param("id"), &req)
	if err != nil {
		respondServiceError(c, "update recipe", err)
		return
	}
	if view == nil {
		abortWithError(c, http.StatusNotFound, "recipe not found")
		return
	}

	c.JSON(http.StatusOK, view)
}

// DeleteRecipe godoc
// @Summary Delete a recipe
// @Tags recipes
// @Security BearerAuth
// @Param id path string true "recipe id"
// @Success 204
// @Failure 401 {object} types.ErrorResponse
// @Failure 404 {object} types.ErrorResponse
// @Router /api/v1/recipes/{id} [delete]
func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	deleted, err := h.recipes.Delete(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondServiceError(c, "delete recipe", err)
		return
	}
	if deleted == 0 {
		abortWithError(c, http.StatusNotFound, "recipe not found")
		return
	}

	c.Status(http.StatusNoContent)
}

// ToggleLike godoc
// @Summary Like or unlike a recipe
// @Tags recipes
// @Produce json
// @Security BearerAuth
// @Param id path string true "recipe id"
// @Success 200 {object} types.RecipeView
// @Failure 401 {object} types.ErrorResponse
// @Failure 404 {object} types.ErrorResponse
// @Router /api/v1/recipes/{id}/like [post]
func (h *RecipeHandler) ToggleLike(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	view, err := h.recipes.ToggleLike(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondServiceError(c, "toggle like", err)
		return
	}
	if view == nil {
		abortWithError(c, http.StatusNotFound, "recipe not found")
		return
	}

	c.JSON(http.StatusOK, view)
}

// UploadImage godoc
// @Summary Upload a recipe image
// @Description Stores a JPEG, PNG or WebP image of at most 5 MiB and sets it as the recipe's image_url
// @Tags recipes
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "recipe id"
// @Param image formData file true "image file"
// @Success 200 {object} types.RecipeView
// @Failure 400 {object} types.ErrorResponse
// @Failure 404 {object} types.ErrorResponse
// @Failure 413 {object} types.ErrorResponse
// @Failure 415 {object} types.ErrorResponse
// @Failure 503 {object} types.ErrorResponse
// @Router /api/v1/recipes/{id}/image [put]
func (h *RecipeHandler) UploadImage(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	if h.images == nil {
		abortWithError(c, http.StatusServiceUnavailable, "image storage is not configured")
		return
	}

	ctx := c.Request.Context()
	id := c.Param("id")

	view, err := h.recipes.GetByID(ctx, id)
	if err != nil {
		respondServiceError(c, "get recipe", err)
		return
	}
	if view == nil || view.AuthorID != userID {
		abortWithError(c, http.StatusNotFound, "recipe not found")
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBody)
	fileHeader, err := c.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			abortWithError(c, http.StatusRequestEntityTooLarge, "image too large")
			return
		}
		abortWithError(c, http.StatusBadRequest, "multipart field `image` is required")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respondServiceError(c, "open upload", err)
		return
	}
	defer file.Close()

	url, err := h.images.UploadRecipeImage(ctx, view.ID, file)
	switch {
	case errors.Is(err, service.ErrImageTooLarge):
		abortWithError(c, http.StatusRequestEntityTooLarge, "image too large")
		return
	case errors.Is(err, service.ErrUnsupportedImageType):
		abortWithError(c, http.StatusUnsupportedMediaType, "image must be JPEG, PNG or WebP")
		return
	case err != nil:
		respondServiceError(c, "upload image", err)
		return
	}

	updated, err := h.recipes.Update(ctx, userID, id, &types.UpdateRecipeRequest{ImageURL: &url})
	if err != nil {
		respondServiceError(c, "set image url", err)
		return
	}
	if updated == nil {
		abortWithError(c, http.StatusNotFound, "recipe not found")
		return
	}

	c.JSON(http.StatusOK, updated)
}
