package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/taskloop/task-service/internal/auth/domain"
	"github.com/taskloop/task-service/pkg/permission"
)

const currentUserKey = "currentUser"

// RequireAuth resolves the access token from the Authorization header or the
// access cookie and stores the authenticated user in the request locals.
func (h *AuthHandler) RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractToken(c)
		if token == "" {
			return unauthorized(c)
		}

		user, err := h.userService.CurrentUser(c.Context(), token)
		if err != nil {
			return unauthorized(c)
		}

		c.Locals(currentUserKey, user)

		return c.Next()
	}
}

// RequirePermission gates the route on a capability. Must run after
// RequireAuth.
func (h *AuthHandler) RequirePermission(capability permission.Capability) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := UserFromCtx(c)
		if user == nil {
			return unauthorized(c)
		}

		if err := permission.Check(user.Permissions, capability); err != nil {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
		}

		return c.Next()
	}
}

func UserFromCtx(c *fiber.Ctx) *domain.User {
	user, _ := c.Locals(currentUserKey).(*domain.User)
	return user
}

func extractToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}

	return c.Cookies(AccessTokenCookie)
}
