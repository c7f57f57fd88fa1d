// internal/middleware/helpers.go
package middleware

import "github.com/gin-gonic/gin"

// GetUsername gets the session username from context
func GetUsername(c *gin.Context) string {
	return c.GetString("username")
}

// GetEmail gets the session email from context
func GetEmail(c *gin.Context) string {
	return c.GetString("email")
}

// GetRole gets the session role from context
func GetRole(c *gin.Context) string {
	return c.GetString("role")
}
