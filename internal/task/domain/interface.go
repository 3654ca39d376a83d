package domain

import "context"

//go:generate mockgen -destination=../../mocks/mock_task_repository.go -package=mocks github.com/taskloop/task-service/internal/task/domain TaskRepository

// TaskRepository scopes every read and write by the owning user, so a task
// belonging to someone else is indistinguishable from one that does not exist.
type TaskRepository interface {
	Create(ctx context.Context, task *Task) error
	GetByID(ctx context.Context, id, ownerID int64) (*Task, error)
	List(ctx context.Context, ownerID int64, filter ListFilter) ([]Task, error)
	Update(ctx context.Context, task *Task) error
	// Delete reports whether a row was removed.
	Delete(ctx context.Context, id, ownerID int64) (bool, error)
}
