package api

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/pageza/recipe-share/backend/internal/models"
	"github.com/pageza/recipe-share/backend/internal/service"
	"github.com/pageza/recipe-share/backend/internal/types"
)

func TestSignup(t *testing.T) {
	tests := []struct {
		name   string
		body   interface{}
		user   *models.User
		err    error
		status int
	}{
		{
			name:   "created",
			body:   types.CredentialsRequest{Username: "alice", Password: "password123"},
			user:   &models.User{ID: uuid.New(), Username: "alice"},
			status: http.StatusCreated,
		},
		{
			name:   "duplicate username",
			body:   types.CredentialsRequest{Username: "alice", Password: "password123"},
			err:    service.ErrDuplicateUsername,
			status: http.StatusConflict,
		},
		{
			name:   "short password",
			body:   types.CredentialsRequest{Username: "alice", Password: "abc"},
			err:    &service.ValidationError{Field: "password", Message: "password must be at least 6 characters"},
			status: http.StatusBadRequest,
		},
		{
			name:   "missing fields",
			body:   map[string]string{"username": "alice"},
			status: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, false)
			if creds, ok := tt.body.(types.CredentialsRequest); ok {
				if tt.user != nil {
					env.auth.On("Register", mock.Anything, creds.Username, creds.Password).Return(tt.user, nil).Once()
				} else {
					env.auth.On("Register", mock.Anything, creds.Username, creds.Password).Return(nil, tt.err).Once()
				}
			}

			w := env.do(http.MethodPost, "/api/v1/user/signup", tt.body, "")
			assert.Equal(t, tt.status, w.Code)
			if tt.user != nil {
				got := decode[types.SignupResponse](t, w)
				assert.Equal(t, tt.user.ID, got.ID)
				assert.Equal(t, "alice", got.Username)
				assert.NotContains(t, w.Body.String(), "password")
			}
			env.auth.AssertExpectations(t)
		})
	}
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t, false)
	env.auth.On("Login", mock.Anything, "alice", "password123").Return("signed.jwt.token", nil).Once()
	env.auth.On("Login", mock.Anything, "alice", "wrong-pass").Return("", service.ErrInvalidCredentials).Once()

	w := env.do(http.MethodPost, "/api/v1/user/login", types.CredentialsRequest{Username: "alice", Password: "password123"}, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "signed.jwt.token", decode[types.LoginResponse](t, w).Token)

	w = env.do(http.MethodPost, "/api/v1/user/login", types.CredentialsRequest{Username: "alice", Password: "wrong-pass"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	env.auth.AssertExpectations(t)
}

func TestGetUser(t *testing.T) {
	env := newTestEnv(t, false)
	user := &models.User{ID: uuid.New(), Username: "alice", PasswordHash: "$2a$hash"}
	missing := uuid.New()
	env.auth.On("GetUserByID", mock.Anything, user.ID).Return(user, nil).Once()
	env.auth.On("GetUserByID", mock.Anything, missing).Return(nil, service.ErrUserNotFound).Once()

	w := env.do(http.MethodGet, "/api/v1/users/"+user.ID.String(), nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice", decode[types.UserResponse](t, w).Username)
	assert.NotContains(t, w.Body.String(), "hash")

	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, "/api/v1/users/"+missing.String(), nil, "").Code)
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, "/api/v1/users/not-a-uuid", nil, "").Code)
}

func TestHealthCheck(t *testing.T) {
	env := newTestEnv(t, false)

	w := env.do(http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestReadinessCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)

	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("dial tcp: refused") }

	tests := []struct {
		name   string
		deps   map[string]Pinger
		status int
	}{
		{"no dependencies", nil, http.StatusOK},
		{"all up", map[string]Pinger{"database": ok, "redis": ok}, http.StatusOK},
		{"redis down", map[string]Pinger{"database": ok, "redis": down}, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := &testEnv{router: gin.New()}
			env.router.GET("/readyz", ReadinessCheck(tt.deps))

			w := env.do(http.MethodGet, "/readyz", nil, "")
			assert.Equal(t, tt.status, w.Code)
			assert.NotContains(t, w.Body.String(), "refused")
		})
	}
}

func TestRateLimitRoutesOnlyWithLimiter(t *testing.T) {
	env := newTestEnv(t, false)

	w := env.do(http.MethodGet, "/api/v1/rate-limits/recipe-creation", nil, testToken)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
