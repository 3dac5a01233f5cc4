package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipe-share/backend/internal/mocks"
	"github.com/pageza/recipe-share/backend/internal/types"
)

const testToken = "valid-token"

type testEnv struct {
	router  *gin.Engine
	auth    *mocks.MockAuthService
	recipes *mocks.MockRecipeService
	images  *mocks.MockImageService
	userID  uuid.UUID
}

func newTestEnv(t *testing.T, withImages bool) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		router:  gin.New(),
		auth:    &mocks.MockAuthService{},
		recipes: &mocks.MockRecipeService{},
		userID:  uuid.New(),
	}
	env.auth.On("ValidateToken", testToken).
		Return(&types.TokenClaims{UserID: env.userID, Username: "alice"}, nil).Maybe()
	env.auth.On("ValidateToken", mock.Anything).
		Return(nil, errors.New("bad token")).Maybe()

	deps := Dependencies{Auth: env.auth, Recipes: env.recipes}
	if withImages {
		env.images = &mocks.MockImageService{}
		deps.Images = env.images
	}
	RegisterRoutes(env.router, deps)

	t.Cleanup(func() {
		env.recipes.AssertExpectations(t)
		if env.images != nil {
			env.images.AssertExpectations(t)
		}
	})
	return env
}

// do performs a request, JSON-encoding body when it is not nil. An empty
// token sends no Authorization header.
func (e *testEnv) do(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			_ = json.NewEncoder(&buf).Encode(body)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func sampleView(authorID uuid.UUID, title string) *types.RecipeView {
	return &types.RecipeView{
		ID:             uuid.New(),
		Title:          title,
		AuthorID:       authorID,
		AuthorUsername: "alice",
		Ingredients:    []string{},
		Tags:           []string{},
		Likes:          []uuid.UUID{},
	}
}

