package handler

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	authhandler "github.com/taskloop/task-service/internal/auth/handler"
	autherror "github.com/taskloop/task-service/internal/errors"
	"github.com/taskloop/task-service/internal/task/domain"
	"github.com/taskloop/task-service/internal/task/dto"
	"github.com/taskloop/task-service/internal/task/service"
)

var validate = validator.New()

type TaskHandler struct {
	taskService *service.TaskService
}

func NewTaskHandler(taskService *service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

func (h *TaskHandler) Create(c *fiber.Ctx) error {
	user := authhandler.UserFromCtx(c)

	var input dto.TaskInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}
	if err := validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}

	task, err := h.taskService.Create(c.Context(), user.ID, input)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}

	return c.Status(fiber.StatusCreated).JSON(taskOutput(task))
}

func (h *TaskHandler) List(c *fiber.Ctx) error {
	user := authhandler.UserFromCtx(c)

	filter, err := parseListFilter(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid query"})
	}

	tasks, err := h.taskService.List(c.Context(), user.ID, filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}

	out := make([]dto.TaskOutput, 0, len(tasks))
	for i := range tasks {
		out = append(out, taskOutput(&tasks[i]))
	}

	return c.Status(fiber.StatusOK).JSON(out)
}

func (h *TaskHandler) Get(c *fiber.Ctx) error {
	user := authhandler.UserFromCtx(c)

	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid task id"})
	}

	task, err := h.taskService.Get(c.Context(), user.ID, int64(id))
	if err != nil {
		return taskError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(taskOutput(task))
}

func (h *TaskHandler) Update(c *fiber.Ctx) error {
	user := authhandler.UserFromCtx(c)

	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid task id"})
	}

	var input dto.TaskUpdateInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}

	task, err := h.taskService.Update(c.Context(), user.ID, int64(id), input)
	if err != nil {
		return taskError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(taskOutput(task))
}

func (h *TaskHandler) Delete(c *fiber.Ctx) error {
	user := authhandler.UserFromCtx(c)

	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid task id"})
	}

	if err := h.taskService.Delete(c.Context(), user.ID, int64(id)); err != nil {
		return taskError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "deleted"})
}

func parseListFilter(c *fiber.Ctx) (domain.ListFilter, error) {
	filter := domain.ListFilter{
		Limit:  c.QueryInt("limit", 10),
		Offset: c.QueryInt("offset", 0),
	}

	if raw := c.Query("is_done"); raw != "" {
		if raw != "true" && raw != "false" {
			return filter, errors.New("invalid is_done")
		}
		isDone := raw == "true"
		filter.IsDone = &isDone
	}

	if raw := c.Query("due_before"); raw != "" {
		dueBefore, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, err
		}
		filter.DueBefore = &dueBefore
	}

	return filter, nil
}

// A cross-owner hit scans as a miss in the repository, so it surfaces here as
// 404 and never confirms the task exists for someone else.
func taskError(c *fiber.Ctx, err error) error {
	if errors.Is(err, autherror.ErrTaskNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "task not found"})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
}

func taskOutput(task *domain.Task) dto.TaskOutput {
	return dto.TaskOutput{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		DueDate:     task.DueDate,
		IsDone:      task.IsDone,
		OwnerID:     task.OwnerID,
		CreatedAt:   task.CreatedAt,
	}
}
