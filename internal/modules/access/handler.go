package access

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tallermotos/internal/domain"
	"tallermotos/internal/pkg/response"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/access/permissions", h.GetPermissions)
}

// GetPermissions returns the permission surface of the authenticated role.
func (h *Handler) GetPermissions(c *gin.Context) {
	role := domain.Role(c.GetString("role"))
	response.Success(c, http.StatusOK, gin.H{
		"role":        role,
		"permissions": Permissions(role),
	})
}
