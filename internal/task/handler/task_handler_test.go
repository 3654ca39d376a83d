package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskloop/task-service/config"
	authdomain "github.com/taskloop/task-service/internal/auth/domain"
	authhandler "github.com/taskloop/task-service/internal/auth/handler"
	authservice "github.com/taskloop/task-service/internal/auth/service"
	"github.com/taskloop/task-service/internal/mocks"
	"github.com/taskloop/task-service/internal/task/domain"
	"github.com/taskloop/task-service/internal/task/dto"
	"github.com/taskloop/task-service/internal/task/handler"
	"github.com/taskloop/task-service/internal/task/service"
	"github.com/taskloop/task-service/pkg/permission"
)

type taskTestEnv struct {
	app          *fiber.App
	taskRepo     *mocks.MockTaskRepository
	userRepo     *mocks.MockUserRepository
	tokenService *authservice.TokenService
}

func newTaskTestEnv(t *testing.T) *taskTestEnv {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	cfg := &config.Config{AccessExpiryMin: 60, RefreshExpiryMin: 10080}
	userRepo := mocks.NewMockUserRepository(ctrl)
	taskRepo := mocks.NewMockTaskRepository(ctrl)

	tokenService := authservice.NewTokenService("task-test-secret", cfg.AccessExpiryMin, cfg.RefreshExpiryMin)
	userService := authservice.NewUserService(userRepo, tokenService, cfg)
	authHandler := authhandler.NewAuthHandler(userService, cfg)

	taskService := service.NewTaskService(taskRepo)
	taskHandler := handler.NewTaskHandler(taskService)

	app := fiber.New()
	handler.RegisterRoutes(app, taskHandler, authHandler)

	return &taskTestEnv{app: app, taskRepo: taskRepo, userRepo: userRepo, tokenService: tokenService}
}

// loginAs registers the user with the mock store and returns a bearer token.
func (env *taskTestEnv) loginAs(t *testing.T, user *authdomain.User) string {
	t.Helper()

	access, _, _, err := env.tokenService.GeneratePair(user.ID)
	require.NoError(t, err)
	env.userRepo.EXPECT().GetByID(gomock.Any(), user.ID).Return(user, nil).AnyTimes()

	return access
}

func (env *taskTestEnv) request(t *testing.T, method, path, token string, payload any) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := env.app.Test(req)
	require.NoError(t, err)

	return resp
}

func fullAccessUser(id int64, email string) *authdomain.User {
	return &authdomain.User{
		ID:    id,
		Email: email,
		Permissions: permission.Set{
			permission.TaskRead,
			permission.TaskCreate,
			permission.TaskUpdate,
			permission.TaskDelete,
		},
	}
}

func TestTaskCreateEndpoint(t *testing.T) {
	env := newTaskTestEnv(t)
	token := env.loginAs(t, fullAccessUser(1, "a@example.com"))

	t.Run("created", func(t *testing.T) {
		env.taskRepo.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ interface{}, task *domain.Task) error {
				assert.Equal(t, int64(1), task.OwnerID)
				task.ID = 5
				return nil
			})

		resp := env.request(t, "POST", "/tasks/", token, dto.TaskInput{Title: "write report"})
		assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

		var out dto.TaskOutput
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, &out))
		assert.Equal(t, int64(5), out.ID)
		assert.Equal(t, int64(1), out.OwnerID)
	})

	t.Run("missing title", func(t *testing.T) {
		resp := env.request(t, "POST", "/tasks/", token, map[string]string{"description": "no title"})
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		resp := env.request(t, "POST", "/tasks/", "", dto.TaskInput{Title: "write report"})
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}

func TestTaskListEndpoint(t *testing.T) {
	env := newTaskTestEnv(t)
	token := env.loginAs(t, fullAccessUser(1, "a@example.com"))

	env.taskRepo.EXPECT().List(gomock.Any(), int64(1), gomock.Any()).
		DoAndReturn(func(_ interface{}, _ int64, filter domain.ListFilter) ([]domain.Task, error) {
			assert.Equal(t, 2, filter.Limit)
			require.NotNil(t, filter.IsDone)
			assert.False(t, *filter.IsDone)
			return []domain.Task{
				{ID: 2, Title: "later", OwnerID: 1, CreatedAt: time.Now()},
				{ID: 1, Title: "earlier", OwnerID: 1, CreatedAt: time.Now().Add(-time.Hour)},
			}, nil
		})

	resp := env.request(t, "GET", "/tasks/?limit=2&is_done=false", token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out []dto.TaskOutput
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Len(t, out, 2)
}

func TestTaskGetEndpoint(t *testing.T) {
	env := newTaskTestEnv(t)

	owner := fullAccessUser(1, "a@example.com")
	other := fullAccessUser(2, "b@example.com")
	ownerToken := env.loginAs(t, owner)
	otherToken := env.loginAs(t, other)

	t.Run("owner reads own task", func(t *testing.T) {
		env.taskRepo.EXPECT().GetByID(gomock.Any(), int64(5), owner.ID).
			Return(&domain.Task{ID: 5, Title: "write report", OwnerID: owner.ID}, nil)

		resp := env.request(t, "GET", "/tasks/5", ownerToken, nil)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	// Another authenticated user with task.read gets 404, not 403: the
	// response must not confirm the task exists.
	t.Run("cross-owner read is not found", func(t *testing.T) {
		env.taskRepo.EXPECT().GetByID(gomock.Any(), int64(5), other.ID).Return(nil, nil)

		resp := env.request(t, "GET", "/tasks/5", otherToken, nil)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("bad id", func(t *testing.T) {
		resp := env.request(t, "GET", "/tasks/abc", ownerToken, nil)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestTaskUpdateEndpoint(t *testing.T) {
	env := newTaskTestEnv(t)
	token := env.loginAs(t, fullAccessUser(1, "a@example.com"))

	t.Run("partial update", func(t *testing.T) {
		existing := &domain.Task{ID: 5, Title: "write report", OwnerID: 1}
		env.taskRepo.EXPECT().GetByID(gomock.Any(), int64(5), int64(1)).Return(existing, nil)
		env.taskRepo.EXPECT().Update(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ interface{}, task *domain.Task) error {
				assert.True(t, task.IsDone)
				assert.Equal(t, "write report", task.Title)
				return nil
			})

		isDone := true
		resp := env.request(t, "PATCH", "/tasks/5", token, dto.TaskUpdateInput{IsDone: &isDone})
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("missing task", func(t *testing.T) {
		env.taskRepo.EXPECT().GetByID(gomock.Any(), int64(99), int64(1)).Return(nil, nil)

		resp := env.request(t, "PATCH", "/tasks/99", token, dto.TaskUpdateInput{})
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})
}

func TestTaskDeleteEndpoint(t *testing.T) {
	env := newTaskTestEnv(t)
	token := env.loginAs(t, fullAccessUser(1, "a@example.com"))

	t.Run("deleted", func(t *testing.T) {
		env.taskRepo.EXPECT().Delete(gomock.Any(), int64(5), int64(1)).Return(true, nil)

		resp := env.request(t, "DELETE", "/tasks/5", token, nil)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("cross-owner delete is not found", func(t *testing.T) {
		env.taskRepo.EXPECT().Delete(gomock.Any(), int64(5), int64(1)).Return(false, nil)

		resp := env.request(t, "DELETE", "/tasks/5", token, nil)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})
}

func TestTaskPermissionGate(t *testing.T) {
	env := newTaskTestEnv(t)

	// holder of task.read only
	reader := &authdomain.User{
		ID:          3,
		Email:       "reader@example.com",
		Permissions: permission.Set{permission.TaskRead},
	}
	readerToken := env.loginAs(t, reader)

	t.Run("read allowed", func(t *testing.T) {
		env.taskRepo.EXPECT().List(gomock.Any(), reader.ID, gomock.Any()).Return(nil, nil)

		resp := env.request(t, "GET", "/tasks/", readerToken, nil)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("create forbidden", func(t *testing.T) {
		resp := env.request(t, "POST", "/tasks/", readerToken, dto.TaskInput{Title: "nope"})
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})

	t.Run("delete forbidden", func(t *testing.T) {
		resp := env.request(t, "DELETE", "/tasks/1", readerToken, nil)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})

	t.Run("wildcard bypasses all gates", func(t *testing.T) {
		admin := &authdomain.User{
			ID:          4,
			Email:       "admin@example.com",
			Permissions: permission.Set{permission.Wildcard},
		}
		adminToken := env.loginAs(t, admin)
		env.taskRepo.EXPECT().Delete(gomock.Any(), int64(1), admin.ID).Return(true, nil)

		resp := env.request(t, "DELETE", "/tasks/1", adminToken, nil)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})
}
