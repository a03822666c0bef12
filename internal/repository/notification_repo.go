package repository

import (
	"database/sql"
	"fmt"
	"time"

	"careconnect/internal/database"
	"careconnect/internal/models"
)

// NotificationRepository handles database operations for notifications
type NotificationRepository struct {
	db *database.DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *database.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// ListByUser returns a user's notifications, newest first
func (r *NotificationRepository) ListByUser(userID int64) ([]*models.Notification, error) {
	query := `
		SELECT id, user_id, type, title, message, reference_id, is_read, created_at
		FROM notifications
		WHERE user_id = ?
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*models.Notification
	for rows.Next() {
		n := &models.Notification{}
		err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.ReferenceID, &n.IsRead, &n.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read notifications: %w", err)
	}
	return notifications, nil
}

// Create inserts a new unread notification
func (r *NotificationRepository) Create(n *models.Notification) (*models.Notification, error) {
	now := time.Now()
	query := `
		INSERT INTO notifications (user_id, type, title, message, reference_id, is_read, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query, n.UserID, n.Type, n.Title, n.Message, n.ReferenceID, false, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	created := *n
	created.ID = id
	created.IsRead = false
	created.CreatedAt = now
	return &created, nil
}

// GetByID retrieves a notification by ID, or nil if it does not exist
func (r *NotificationRepository) GetByID(id int64) (*models.Notification, error) {
	query := `
		SELECT id, user_id, type, title, message, reference_id, is_read, created_at
		FROM notifications
		WHERE id = ?
	`
	n := &models.Notification{}
	err := r.db.QueryRow(query, id).Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.ReferenceID, &n.IsRead, &n.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}
	return n, nil
}

// MarkRead marks a notification as read and returns it, or nil if it does not exist
func (r *NotificationRepository) MarkRead(id int64) (*models.Notification, error) {
	if _, err := r.db.Exec("UPDATE notifications SET is_read = ? WHERE id = ?", true, id); err != nil {
		return nil, fmt.Errorf("failed to mark notification read: %w", err)
	}
	return r.GetByID(id)
}

// Delete removes a notification
func (r *NotificationRepository) Delete(id int64) error {
	if _, err := r.db.Exec("DELETE FROM notifications WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	return nil
}
