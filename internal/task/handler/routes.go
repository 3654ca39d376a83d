package handler

import (
	"github.com/gofiber/fiber/v2"

	authhandler "github.com/taskloop/task-service/internal/auth/handler"
	"github.com/taskloop/task-service/pkg/permission"
)

func RegisterRoutes(app *fiber.App, h *TaskHandler, auth *authhandler.AuthHandler) {
	tasks := app.Group("/tasks", auth.RequireAuth())

	tasks.Post("/", auth.RequirePermission(permission.TaskCreate), h.Create)
	tasks.Get("/", auth.RequirePermission(permission.TaskRead), h.List)
	tasks.Get("/:id", auth.RequirePermission(permission.TaskRead), h.Get)
	tasks.Patch("/:id", auth.RequirePermission(permission.TaskUpdate), h.Update)
	tasks.Delete("/:id", auth.RequirePermission(permission.TaskDelete), h.Delete)
}
