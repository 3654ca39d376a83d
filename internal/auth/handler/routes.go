package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/taskloop/task-service/pkg/permission"
)

func RegisterRoutes(app *fiber.App, h *AuthHandler) {
	app.Post("/registration", h.Register)
	app.Post("/login", h.Login)
	app.Post("/token/refresh", h.Refresh)
	app.Post("/logout", h.Logout)

	app.Get("/me", h.RequireAuth(), h.Me)
	app.Get("/admin", h.RequireAuth(), h.RequirePermission(permission.AdminPanel), h.Admin)
}
