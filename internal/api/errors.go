package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/recipe-share/backend/internal/middleware"
	"github.com/pageza/recipe-share/backend/internal/service"
	"github.com/pageza/recipe-share/backend/internal/types"
)

func abortWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, types.ErrorResponse{Error: message})
}

// respondServiceError answers validation errors with 400 and the offending
// field; anything else is logged and answered with a generic 500.
func respondServiceError(c *gin.Context, op string, err error) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		c.AbortWithStatusJSON(http.StatusBadRequest, types.ErrorResponse{Error: verr.Message, Field: verr.Field})
		return
	}

	log.Printf("[API] %s failed (request %s): %v", op, c.GetString(middleware.ContextRequestID), err)
	abortWithError(c, http.StatusInternalServerError, "internal server error")
}

func callerID(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.UserID(c)
	if !ok {
		abortWithError(c, http.StatusUnauthorized, "user not authenticated")
	}
	return id, ok
}
