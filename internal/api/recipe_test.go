package api

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/pageza/recipe-share/backend/internal/service"
	"github.com/pageza/recipe-share/backend/internal/types"
)

func TestListRecipes(t *testing.T) {
	env := newTestEnv(t, false)
	views := []types.RecipeView{*sampleView(env.userID, "Curry")}

	env.recipes.On("ListAll", mock.Anything, types.ListOptions{SortBy: "updatedAt", SortOrder: "ascending"}).
		Return(views, nil).Once()

	w := env.do(http.MethodGet, "/api/v1/recipes?sortBy=updatedAt&sortOrder=ascending", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	got := decode[[]types.RecipeView](t, w)
	assert.Equal(t, "Curry", got[0].Title)
}

func TestListRecipesEmptyIsArray(t *testing.T) {
	env := newTestEnv(t, false)
	env.recipes.On("ListAll", mock.Anything, types.ListOptions{}).Return(nil, nil).Once()

	w := env.do(http.MethodGet, "/api/v1/recipes", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestListRecipesFilters(t *testing.T) {
	env := newTestEnv(t, false)
	env.recipes.On("ListByAuthor", mock.Anything, "bob", types.ListOptions{}).Return([]types.RecipeView{}, nil).Once()
	env.recipes.On("ListByTag", mock.Anything, "spicy", types.ListOptions{}).Return([]types.RecipeView{}, nil).Once()

	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/api/v1/recipes?author=bob", nil, "").Code)
	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/api/v1/recipes?tag=spicy", nil, "").Code)

	w := env.do(http.MethodGet, "/api/v1/recipes?author=bob&tag=spicy", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "not both")
}

func TestListRecipesStoreError(t *testing.T) {
	env := newTestEnv(t, false)
	env.recipes.On("ListAll", mock.Anything, mock.Anything).
		Return(nil, errors.New("connection refused: secret-host:5432")).Once()

	w := env.do(http.MethodGet, "/api/v1/recipes", nil, "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())
}

func TestGetRecipe(t *testing.T) {
	env := newTestEnv(t, false)
	view := sampleView(env.userID, "Curry")
	env.recipes.On("GetByID", mock.Anything, view.ID.String()).Return(view, nil).Once()
	env.recipes.On("GetByID", mock.Anything, "missing").Return(nil, nil).Once()

	w := env.do(http.MethodGet, "/api/v1/recipes/"+view.ID.String(), nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, view.ID, decode[types.RecipeView](t, w).ID)

	w = env.do(http.MethodGet, "/api/v1/recipes/missing", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateRecipe(t *testing.T) {
	env := newTestEnv(t, false)
	view := sampleView(env.userID, "Curry")
	env.recipes.On("Create", mock.Anything, env.userID, &types.CreateRecipeRequest{Title: "Curry", Tags: []string{"spicy"}}).
		Return(view, nil).Once()

	w := env.do(http.MethodPost, "/api/v1/recipes", map[string]interface{}{"title": "Curry", "tags": []string{"spicy"}}, testToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Curry", decode[types.RecipeView](t, w).Title)
}

func TestCreateRecipeValidationError(t *testing.T) {
	env := newTestEnv(t, false)
	env.recipes.On("Create", mock.Anything, env.userID, mock.Anything).
		Return(nil, &service.ValidationError{Field: "title", Message: "`title` is required"}).Once()

	w := env.do(http.MethodPost, "/api/v1/recipes", map[string]interface{}{}, testToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode[types.ErrorResponse](t, w)
	assert.Equal(t, "title", body.Field)
	assert.Contains(t, body.Error, "title")
}

func TestCreateRecipeBadBody(t *testing.T) {
	env := newTestEnv(t, false)

	w := env.do(http.MethodPost, "/api/v1/recipes", "{not json", testToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMutatingRoutesRequireAuth(t *testing.T) {
	env := newTestEnv(t, true)
	id := uuid.NewString()

	routes := []struct{ method, path string }{
		{http.MethodPost, "/api/v1/recipes"},
		{http.MethodPatch, "/api/v1/recipes/" + id},
		{http.MethodDelete, "/api/v1/recipes/" + id},
		{http.MethodPost, "/api/v1/recipes/" + id + "/like"},
		{http.MethodPut, "/api/v1/recipes/" + id + "/image"},
	}
	for _, r := range routes {
		t.Run(r.method+" "+r.path, func(t *testing.T) {
			assert.Equal(t, http.StatusUnauthorized, env.do(r.method, r.path, map[string]string{}, "").Code)
			assert.Equal(t, http.StatusUnauthorized, env.do(r.method, r.path, map[string]string{}, "forged").Code)
		})
	}
}

func TestUpdateRecipe(t *testing.T) {
	env := newTestEnv(t, false)
	view := sampleView(env.userID, "Curry")
	view.Instructions = "Simmer."
	instructions := "Simmer."

	env.recipes.On("Update", mock.Anything, env.userID, view.ID.String(), &types.UpdateRecipeRequest{Instructions: &instructions}).
		Return(view, nil).Once()

	w := env.do(http.MethodPatch, "/api/v1/recipes/"+view.ID.String(), map[string]string{"instructions": "Simmer."}, testToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Simmer.", decode[types.RecipeView](t, w).Instructions)
}

func TestUpdateRecipeNotOwnerIsNotFound(t *testing.T) {
	env := newTestEnv(t, false)
	env.recipes.On("Update", mock.Anything, env.userID, "someone-elses", mock.Anything).Return(nil, nil).Once()

	w := env.do(http.MethodPatch, "/api/v1/recipes/someone-elses", map[string]string{"title": "Mine now"}, testToken)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteRecipe(t *testing.T) {
	env := newTestEnv(t, false)
	env.recipes.On("Delete", mock.Anything, env.userID, "r1").Return(int64(1), nil).Once()
	env.recipes.On("Delete", mock.Anything, env.userID, "r2").Return(int64(0), nil).Once()

	w := env.do(http.MethodDelete, "/api/v1/recipes/r1", nil, testToken)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	w = env.do(http.MethodDelete, "/api/v1/recipes/r2", nil, testToken)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestToggleLike(t *testing.T) {
	env := newTestEnv(t, false)
	view := sampleView(env.userID, "Curry")
	view.Likes = []uuid.UUID{env.userID}
	view.LikeCount = 1

	env.recipes.On("ToggleLike", mock.Anything, env.userID, view.ID.String()).Return(view, nil).Once()
	env.recipes.On("ToggleLike", mock.Anything, env.userID, "missing").Return(nil, nil).Once()

	w := env.do(http.MethodPost, "/api/v1/recipes/"+view.ID.String()+"/like", nil, testToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []uuid.UUID{env.userID}, decode[types.RecipeView](t, w).Likes)

	w = env.do(http.MethodPost, "/api/v1/recipes/missing/like", nil, testToken)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func multipartImage(t *testing.T, field string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, "dish.png")
	assert.NoError(t, err)
	_, _ = part.Write(data)
	assert.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func uploadRequest(env *testEnv, id string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPut, "/api/v1/recipes/"+id+"/image", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+testToken)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func TestUploadImage(t *testing.T) {
	env := newTestEnv(t, true)
	view := sampleView(env.userID, "Curry")
	url := "https://cdn.example/recipes/x.png"
	updated := *view
	updated.ImageURL = url

	env.recipes.On("GetByID", mock.Anything, view.ID.String()).Return(view, nil).Once()
	env.images.On("UploadRecipeImage", mock.Anything, view.ID, mock.Anything).Return(url, nil).Once()
	env.recipes.On("Update", mock.Anything, env.userID, view.ID.String(), &types.UpdateRecipeRequest{ImageURL: &url}).
		Return(&updated, nil).Once()

	body, ct := multipartImage(t, "image", []byte("\x89PNG\r\n\x1a\n"))
	w := uploadRequest(env, view.ID.String(), body, ct)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, url, decode[types.RecipeView](t, w).ImageURL)
}

func TestUploadImageNotOwner(t *testing.T) {
	env := newTestEnv(t, true)
	view := sampleView(uuid.New(), "Someone else's")
	env.recipes.On("GetByID", mock.Anything, view.ID.String()).Return(view, nil).Once()

	body, ct := multipartImage(t, "image", []byte("data"))
	w := uploadRequest(env, view.ID.String(), body, ct)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUploadImageErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"unsupported", service.ErrUnsupportedImageType, http.StatusUnsupportedMediaType},
		{"too large", service.ErrImageTooLarge, http.StatusRequestEntityTooLarge},
		{"s3 down", errors.New("s3 unavailable"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, true)
			view := sampleView(env.userID, "Curry")
			env.recipes.On("GetByID", mock.Anything, view.ID.String()).Return(view, nil).Once()
			env.images.On("UploadRecipeImage", mock.Anything, view.ID, mock.Anything).Return("", tt.err).Once()

			body, ct := multipartImage(t, "image", []byte("data"))
			assert.Equal(t, tt.status, uploadRequest(env, view.ID.String(), body, ct).Code)
		})
	}
}

func TestUploadImageMissingField(t *testing.T) {
	env := newTestEnv(t, true)
	view := sampleView(env.userID, "Curry")
	env.recipes.On("GetByID", mock.Anything, view.ID.String()).Return(view, nil).Once()

	body, ct := multipartImage(t, "photo", []byte("data"))
	assert.Equal(t, http.StatusBadRequest, uploadRequest(env, view.ID.String(), body, ct).Code)
}

func TestUploadImageWithoutStorage(t *testing.T) {
	env := newTestEnv(t, false)

	body, ct := multipartImage(t, "image", []byte("data"))
	assert.Equal(t, http.StatusServiceUnavailable, uploadRequest(env, uuid.NewString(), body, ct).Code)
}
