package domain

import "time"

type Task struct {
	ID          int64
	Title       string
	Description *string
	DueDate     *time.Time
	IsDone      bool
	OwnerID     int64
	CreatedAt   time.Time
}

// ListFilter narrows and pages a task listing. Nil fields are ignored.
type ListFilter struct {
	IsDone    *bool
	DueBefore *time.Time
	Limit     int
	Offset    int
}
