package models

import "time"

// Notification types
const (
	NotificationMedication = "medication"
	NotificationTask       = "task"
	NotificationAssignment = "assignment"
	NotificationSystem     = "system"
)

// Notification is an in-app message for a user. ReferenceID points at the
// related entity (medication, task, assignment) when there is one.
type Notification struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"userId"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Message     string    `json:"message"`
	ReferenceID *int64    `json:"referenceId,omitempty"`
	IsRead      bool      `json:"isRead"`
	CreatedAt   time.Time `json:"createdAt"`
}
