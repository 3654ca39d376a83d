package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	autherror "github.com/taskloop/task-service/internal/errors"
	"github.com/taskloop/task-service/internal/mocks"
	"github.com/taskloop/task-service/internal/task/domain"
	"github.com/taskloop/task-service/internal/task/dto"
	"github.com/taskloop/task-service/internal/task/service"
)

func TestTaskService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockTaskRepository(ctrl)
	s := service.NewTaskService(mockRepo)

	description := "quarterly numbers"
	mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, task *domain.Task) error {
			assert.Equal(t, int64(1), task.OwnerID)
			assert.Equal(t, "write report", task.Title)
			assert.False(t, task.IsDone)
			task.ID = 9
			return nil
		})

	task, err := s.Create(context.Background(), 1, dto.TaskInput{Title: "write report", Description: &description})
	require.NoError(t, err)
	assert.Equal(t, int64(9), task.ID)
	assert.NotZero(t, task.CreatedAt)
}

func TestTaskService_List_ClampsPagination(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockTaskRepository(ctrl)
	s := service.NewTaskService(mockRepo)

	tests := []struct {
		name       string
		in         domain.ListFilter
		wantLimit  int
		wantOffset int
	}{
		{"defaults", domain.ListFilter{}, 10, 0},
		{"zero limit", domain.ListFilter{Limit: 0}, 10, 0},
		{"over the cap", domain.ListFilter{Limit: 500}, 100, 0},
		{"negative offset", domain.ListFilter{Limit: 20, Offset: -5}, 20, 0},
		{"in range untouched", domain.ListFilter{Limit: 25, Offset: 50}, 25, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo.EXPECT().List(gomock.Any(), int64(1), gomock.Any()).
				DoAndReturn(func(_ context.Context, _ int64, filter domain.ListFilter) ([]domain.Task, error) {
					assert.Equal(t, tt.wantLimit, filter.Limit)
					assert.Equal(t, tt.wantOffset, filter.Offset)
					return nil, nil
				})

			_, err := s.List(context.Background(), 1, tt.in)
			assert.NoError(t, err)
		})
	}
}

func TestTaskService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockTaskRepository(ctrl)
	s := service.NewTaskService(mockRepo)

	t.Run("found", func(t *testing.T) {
		mockRepo.EXPECT().GetByID(gomock.Any(), int64(9), int64(1)).
			Return(&domain.Task{ID: 9, OwnerID: 1, Title: "write report"}, nil)

		task, err := s.Get(context.Background(), 1, 9)
		require.NoError(t, err)
		assert.Equal(t, int64(9), task.ID)
	})

	t.Run("miss", func(t *testing.T) {
		mockRepo.EXPECT().GetByID(gomock.Any(), int64(9), int64(2)).Return(nil, nil)

		task, err := s.Get(context.Background(), 2, 9)
		assert.ErrorIs(t, err, autherror.ErrTaskNotFound)
		assert.Nil(t, task)
	})
}

func TestTaskService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockTaskRepository(ctrl)
	s := service.NewTaskService(mockRepo)

	existing := &domain.Task{ID: 9, OwnerID: 1, Title: "old title", IsDone: false}

	t.Run("applies only provided fields", func(t *testing.T) {
		isDone := true
		mockRepo.EXPECT().GetByID(gomock.Any(), int64(9), int64(1)).Return(existing, nil)
		mockRepo.EXPECT().Update(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, task *domain.Task) error {
				assert.Equal(t, "old title", task.Title) // untouched
				assert.True(t, task.IsDone)
				return nil
			})

		task, err := s.Update(context.Background(), 1, 9, dto.TaskUpdateInput{IsDone: &isDone})
		require.NoError(t, err)
		assert.True(t, task.IsDone)
	})

	t.Run("miss", func(t *testing.T) {
		mockRepo.EXPECT().GetByID(gomock.Any(), int64(9), int64(2)).Return(nil, nil)

		task, err := s.Update(context.Background(), 2, 9, dto.TaskUpdateInput{})
		assert.ErrorIs(t, err, autherror.ErrTaskNotFound)
		assert.Nil(t, task)
	})
}

func TestTaskService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockTaskRepository(ctrl)
	s := service.NewTaskService(mockRepo)

	t.Run("deleted", func(t *testing.T) {
		mockRepo.EXPECT().Delete(gomock.Any(), int64(9), int64(1)).Return(true, nil)
		assert.NoError(t, s.Delete(context.Background(), 1, 9))
	})

	t.Run("miss", func(t *testing.T) {
		mockRepo.EXPECT().Delete(gomock.Any(), int64(9), int64(2)).Return(false, nil)
		assert.ErrorIs(t, s.Delete(context.Background(), 2, 9), autherror.ErrTaskNotFound)
	})
}

func TestTaskService_DueDateFilterPassthrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockTaskRepository(ctrl)
	s := service.NewTaskService(mockRepo)

	dueBefore := time.Now().Add(48 * time.Hour)
	isDone := false

	mockRepo.EXPECT().List(gomock.Any(), int64(1), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, filter domain.ListFilter) ([]domain.Task, error) {
			require.NotNil(t, filter.DueBefore)
			assert.Equal(t, dueBefore, *filter.DueBefore)
			require.NotNil(t, filter.IsDone)
			assert.False(t, *filter.IsDone)
			return []domain.Task{{ID: 1, OwnerID: 1}}, nil
		})

	tasks, err := s.List(context.Background(), 1, domain.ListFilter{IsDone: &isDone, DueBefore: &dueBefore})
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}
