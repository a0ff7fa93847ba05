package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tallermotos/internal/domain"
	"tallermotos/internal/modules/access"
	"tallermotos/internal/pkg/response"
)

// RequireWorkflowAction gates a route on the role table for order-workflow
// actions. Unknown roles fail closed.
func RequireWorkflowAction(action domain.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Role not found in token")
			c.Abort()
			return
		}

		if !access.CanPerform(domain.Role(role.(string)), action) {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireModuleAction gates a route on a specific capability within a module.
func RequireModuleAction(module domain.Module, action domain.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Role not found in token")
			c.Abort()
			return
		}

		for _, a := range access.VisibleActions(domain.Role(role.(string)), module) {
			if a == action {
				c.Next()
				return
			}
		}
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
		c.Abort()
	}
}

// RequireModule gates a route on module visibility for the actor's role.
func RequireModule(module domain.Module) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Role not found in token")
			c.Abort()
			return
		}

		if !access.CanAccessModule(domain.Role(role.(string)), module) {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
			c.Abort()
			return
		}

		c.Next()
	}
}
