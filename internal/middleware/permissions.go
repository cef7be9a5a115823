package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/clinic-api/internal/models"
)

// rolePermissions is the server-side capability set: module -> permitted
// actions per role. Authorization is decided here against the caller's
// resolved role, never from client-supplied permission state. Patient
// capabilities are additionally ownership-scoped in the service layer.
var rolePermissions = map[string]map[string][]string{
	models.RoleAdmin: {
		"appointments": {"create", "read", "update", "status", "delete"},
	},
	models.RoleStaff: {
		"appointments": {"create", "read", "update", "status", "delete"},
	},
	models.RolePatient: {
		"appointments": {"create", "read", "update", "status", "cancel"},
	},
}

// RequirePermission rejects callers whose role does not grant the action
// on the module.
func RequirePermission(module, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("userRole")
		if !hasPermission(role, module, action) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Permission denied."})
			return
		}
		c.Next()
	}
}

// RequireRole restricts a route group to the given roles. Used to split
// the staff and patient channels.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("userRole")
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Permission denied."})
	}
}

func hasPermission(role, module, action string) bool {
	actions, ok := rolePermissions[role][module]
	if !ok {
		return false
	}
	for _, a := range actions {
		if a == action {
			return true
		}
	}
	return false
}
