package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taskloop/task-service/internal/task/domain"
)

type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PostgresRepository struct {
	db DB
}

func NewPostgresRepository(db DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, task *domain.Task) error {
	query := `
		INSERT INTO tasks (title, description, due_date, is_done, owner_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id;
	`
	err := r.db.QueryRow(ctx, query,
		task.Title, task.Description, task.DueDate, task.IsDone, task.OwnerID, task.CreatedAt,
	).Scan(&task.ID)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id, ownerID int64) (*domain.Task, error) {
	query := `
		SELECT id, title, description, due_date, is_done, owner_id, created_at
		FROM tasks
		WHERE id = $1 AND owner_id = $2
		LIMIT 1;
	`
	var task domain.Task
	err := r.db.QueryRow(ctx, query, id, ownerID).
		Scan(&task.ID, &task.Title, &task.Description, &task.DueDate, &task.IsDone, &task.OwnerID, &task.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return &task, nil
}

func (r *PostgresRepository) List(ctx context.Context, ownerID int64, filter domain.ListFilter) ([]domain.Task, error) {
	query := `SELECT id, title, description, due_date, is_done, owner_id, created_at
	          FROM tasks
	          WHERE owner_id = $1`
	args := []any{ownerID}

	if filter.IsDone != nil {
		args = append(args, *filter.IsDone)
		query += ` AND is_done = $` + strconv.Itoa(len(args))
	}
	if filter.DueBefore != nil {
		args = append(args, *filter.DueBefore)
		query += ` AND due_date <= $` + strconv.Itoa(len(args))
	}

	args = append(args, filter.Limit)
	query += ` ORDER BY created_at DESC LIMIT $` + strconv.Itoa(len(args))
	args = append(args, filter.Offset)
	query += ` OFFSET $` + strconv.Itoa(len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]domain.Task, 0)
	for rows.Next() {
		var task domain.Task
		if err := rows.Scan(&task.ID, &task.Title, &task.Description, &task.DueDate,
			&task.IsDone, &task.OwnerID, &task.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tasks: %w", err)
	}

	return tasks, nil
}

func (r *PostgresRepository) Update(ctx context.Context, task *domain.Task) error {
	query := `
		UPDATE tasks
		SET title = $1, description = $2, due_date = $3, is_done = $4
		WHERE id = $5 AND owner_id = $6;
	`
	_, err := r.db.Exec(ctx, query,
		task.Title, task.Description, task.DueDate, task.IsDone, task.ID, task.OwnerID)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id, ownerID int64) (bool, error) {
	query := `DELETE FROM tasks WHERE id = $1 AND owner_id = $2`
	tag, err := r.db.Exec(ctx, query, id, ownerID)
	if err != nil {
		return false, fmt.Errorf("failed to delete task: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}
