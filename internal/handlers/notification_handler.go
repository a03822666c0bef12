package handlers

import (
	"net/http"

	"careconnect/internal/models"
	"careconnect/internal/repository"
)

// NotificationHandler handles in-app notifications
type NotificationHandler struct {
	notificationRepo *repository.NotificationRepository
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationRepo *repository.NotificationRepository) *NotificationHandler {
	return &NotificationHandler{notificationRepo: notificationRepo}
}

// List handles GET /api/notifications, newest first
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	notifications, err := h.notificationRepo.ListByUser(user.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to list notifications", "notification list failed", err)
		return
	}
	if notifications == nil {
		notifications = []*models.Notification{}
	}
	respondJSON(w, http.StatusOK, notifications)
}

// MarkRead handles POST /api/notifications/{id}/read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid notification id", "", nil)
		return
	}

	existing, err := h.notificationRepo.GetByID(id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load notification", "notification load failed", err)
		return
	}
	if existing == nil || existing.UserID != user.ID {
		respondError(w, http.StatusNotFound, "Notification not found", "", nil)
		return
	}

	notification, err := h.notificationRepo.MarkRead(id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to mark notification read", "notification update failed", err)
		return
	}

	respondJSON(w, http.StatusOK, notification)
}

// Delete handles DELETE /api/notifications/{id}
func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid notification id", "", nil)
		return
	}

	existing, err := h.notificationRepo.GetByID(id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load notification", "notification load failed", err)
		return
	}
	if existing == nil || existing.UserID != user.ID {
		respondError(w, http.StatusNotFound, "Notification not found", "", nil)
		return
	}

	if err := h.notificationRepo.Delete(id); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete notification", "notification delete failed", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Notification deleted"})
}
