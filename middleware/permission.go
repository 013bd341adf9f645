package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// rolePermissions is the static role grant table. Roles ride the JWT; this
// service keeps no user records.
var rolePermissions = map[string][]string{
	"ADMIN": {
		"donations:list_all",
		"donations:update_status",
	},
	"SYNC": {
		"donations:update_status",
	},
}

// HasPermission reports whether a role carries the given permission.
func HasPermission(role, permission string) bool {
	for _, granted := range rolePermissions[role] {
		if granted == permission {
			return true
		}
	}
	return false
}

// CheckPermissionMiddleware returns a middleware that checks if the caller's
// role (set by JWTMiddleware) has the required permission
func CheckPermissionMiddleware(requiredPermission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("role").(string)
		if !ok || role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status":  false,
				"message": "Unauthorized: Role not found",
				"data":    nil,
			})
		}

		if !HasPermission(role, requiredPermission) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"status":  false,
				"message": "You do not have permission to access this resource!",
				"data":    nil,
			})
		}

		// Permission found, proceed
		return c.Next()
	}
}
