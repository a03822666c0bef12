package models

import "time"

// Task is a to-do item owned by a patient. Completion is one-way: a
// completed task can be deleted but never reopened.
type Task struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"userId"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	DueDate     time.Time  `json:"dueDate"`
	Recurrence  string     `json:"recurrence,omitempty"`
	IsCompleted bool       `json:"isCompleted"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	CompletedBy *int64     `json:"completedBy,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}
