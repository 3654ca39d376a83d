package service

import (
	"context"
	"time"

	autherror "github.com/taskloop/task-service/internal/errors"
	"github.com/taskloop/task-service/internal/task/domain"
	"github.com/taskloop/task-service/internal/task/dto"
)

const (
	defaultListLimit = 10
	maxListLimit     = 100
)

type TaskService struct {
	repo domain.TaskRepository
}

func NewTaskService(repo domain.TaskRepository) *TaskService {
	return &TaskService{repo: repo}
}

func (s *TaskService) Create(ctx context.Context, ownerID int64, input dto.TaskInput) (*domain.Task, error) {
	task := &domain.Task{
		Title:       input.Title,
		Description: input.Description,
		DueDate:     input.DueDate,
		OwnerID:     ownerID,
		CreatedAt:   time.Now(),
	}

	if err := s.repo.Create(ctx, task); err != nil {
		return nil, err
	}

	return task, nil
}

func (s *TaskService) List(ctx context.Context, ownerID int64, filter domain.ListFilter) ([]domain.Task, error) {
	if filter.Limit < 1 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	return s.repo.List(ctx, ownerID, filter)
}

func (s *TaskService) Get(ctx context.Context, ownerID, id int64) (*domain.Task, error) {
	task, err := s.repo.GetByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, autherror.ErrTaskNotFound
	}

	return task, nil
}

func (s *TaskService) Update(ctx context.Context, ownerID, id int64, input dto.TaskUpdateInput) (*domain.Task, error) {
	task, err := s.repo.GetByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, autherror.ErrTaskNotFound
	}

	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = input.Description
	}
	if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if input.IsDone != nil {
		task.IsDone = *input.IsDone
	}

	if err := s.repo.Update(ctx, task); err != nil {
		return nil, err
	}

	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, ownerID, id int64) error {
	deleted, err := s.repo.Delete(ctx, id, ownerID)
	if err != nil {
		return err
	}
	if !deleted {
		return autherror.ErrTaskNotFound
	}

	return nil
}
