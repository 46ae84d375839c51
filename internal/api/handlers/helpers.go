package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vishu8474/prokhoz-backend/internal/api/middleware"
	"github.com/vishu8474/prokhoz-backend/internal/models"
	"github.com/vishu8474/prokhoz-backend/internal/services"
)

// IAsynqClient is the subset of *asynq.Client the handlers need, kept as an
// interface so tests can substitute a mock.
type IAsynqClient interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// currentPrincipal reads the authenticated identity that AuthMiddleware put
// into the Gin context. The second return is false when the route was not
// behind the middleware or the stored ID is malformed.
func currentPrincipal(c *gin.Context) (models.Principal, bool) {
	rawID, exists := c.Get(middleware.ContextKeyUserID)
	if !exists {
		return models.Principal{}, false
	}
	rawRole, exists := c.Get(middleware.ContextKeyUserRole)
	if !exists {
		return models.Principal{}, false
	}

	idStr, ok := rawID.(string)
	if !ok {
		return models.Principal{}, false
	}
	roleStr, ok := rawRole.(string)
	if !ok {
		return models.Principal{}, false
	}

	id, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		return models.Principal{}, false
	}
	return models.Principal{ID: id, Role: models.Role(roleStr)}, true
}

// requirePrincipal aborts with 401 when no principal is present.
func requirePrincipal(c *gin.Context) (models.Principal, bool) {
	principal, ok := currentPrincipal(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authenticated"})
	}
	return principal, ok
}

// respondError maps a service error to an HTTP response using the sentinel
// taxonomy. Anything unrecognized is a 500 with a generic message.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
	case errors.Is(err, services.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": err.Error()})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error"})
	}
}
