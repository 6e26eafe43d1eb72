package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/opencampus/records-api/internal/middleware"
	"github.com/opencampus/records-api/internal/models"
)

// currentUser pulls the authenticated identity set by the JWT middleware.
func currentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}
