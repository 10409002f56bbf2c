package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"homelibrary-backend/internal/shared"
)

// AdminMiddleware checks if user has admin role.
// Catalog writes (insert/update/delete books and authors) are admin-only.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Role set by AuthMiddleware
		roleInterface, exists := c.Get(shared.CtxUserRole)
		if !exists {
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   "Access denied: admin role required",
			})
			c.Abort()
			return
		}

		role, ok := roleInterface.(string)
		if !ok || role != "admin" {
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   "Access denied: admin role required",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
