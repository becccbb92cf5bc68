package handlers

import (
	"github.com/gin-gonic/gin"

	"licentia/internal/shared/constants"
)

// adminIDFromContext returns the admin ID set by the session middleware, or
// zero on unauthenticated routes.
func adminIDFromContext(c *gin.Context) uint {
	v, exists := c.Get(constants.ContextKeyAdminID)
	if !exists {
		return 0
	}
	adminID, ok := v.(uint)
	if !ok {
		return 0
	}
	return adminID
}
