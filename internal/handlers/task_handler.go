package handlers

import (
	"log"
	"net/http"

	"careconnect/internal/models"
	"careconnect/internal/repository"
	"careconnect/internal/service"
)

// TaskHandler handles task CRUD and completion
type TaskHandler struct {
	taskRepo         *repository.TaskRepository
	assignmentRepo   *repository.AssignmentRepository
	notificationRepo *repository.NotificationRepository
	emailService     *service.EmailService
	scheduler        *service.ReminderScheduler
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskRepo *repository.TaskRepository, assignmentRepo *repository.AssignmentRepository, notificationRepo *repository.NotificationRepository, emailService *service.EmailService, scheduler *service.ReminderScheduler) *TaskHandler {
	return &TaskHandler{
		taskRepo:         taskRepo,
		assignmentRepo:   assignmentRepo,
		notificationRepo: notificationRepo,
		emailService:     emailService,
		scheduler:        scheduler,
	}
}

// List handles GET /api/tasks
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	ownerID := targetUserID(r, user)

	allowed, err := canManagePatient(h.assignmentRepo, user, ownerID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to check access", "access check failed", err)
		return
	}
	if !allowed {
		respondError(w, http.StatusForbidden, "Not authorized for this patient", "", nil)
		return
	}

	tasks, err := h.taskRepo.ListByUser(ownerID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to list tasks", "task list failed", err)
		return
	}
	if tasks == nil {
		tasks = []*models.Task{}
	}
	respondJSON(w, http.StatusOK, tasks)
}

// Create handles POST /api/tasks
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var task models.Task
	if err := decodeJSON(r, &task); err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), "", nil)
		return
	}
	if task.UserID == 0 {
		task.UserID = user.ID
	}

	allowed, err := canManagePatient(h.assignmentRepo, user, task.UserID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to check access", "access check failed", err)
		return
	}
	if !allowed {
		respondError(w, http.StatusForbidden, "Not authorized for this patient", "", nil)
		return
	}

	if task.Title == "" {
		respondError(w, http.StatusBadRequest, "Title is required", "", nil)
		return
	}
	if task.DueDate.IsZero() {
		respondError(w, http.StatusBadRequest, "Due date is required", "", nil)
		return
	}

	created, err := h.taskRepo.Create(&task)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create task", "task create failed", err)
		return
	}

	if err := h.scheduler.ScheduleTaskReminders(created.UserID); err != nil {
		log.Printf("Failed to re-arm task reminders for user %d: %v", created.UserID, err)
	}

	respondJSON(w, http.StatusCreated, created)
}

// Update handles PUT /api/tasks/{id}. Completion state cannot be changed
// here; Complete is the only way to finish a task.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	task, ok := h.authorizedTask(w, r, user)
	if !ok {
		return
	}

	var input models.Task
	if err := decodeJSON(r, &input); err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), "", nil)
		return
	}
	if input.Title == "" {
		respondError(w, http.StatusBadRequest, "Title is required", "", nil)
		return
	}
	if input.DueDate.IsZero() {
		respondError(w, http.StatusBadRequest, "Due date is required", "", nil)
		return
	}

	updated, err := h.taskRepo.Update(task.ID, &input)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update task", "task update failed", err)
		return
	}

	if err := h.scheduler.ScheduleTaskReminders(task.UserID); err != nil {
		log.Printf("Failed to re-arm task reminders for user %d: %v", task.UserID, err)
	}

	respondJSON(w, http.StatusOK, updated)
}

// Complete handles POST /api/tasks/{id}/complete. The transition is
// one-way; completing an already completed task is rejected. Assigned
// caretakers hear about patient self-completions.
func (h *TaskHandler) Complete(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	task, ok := h.authorizedTask(w, r, user)
	if !ok {
		return
	}
	if task.IsCompleted {
		respondError(w, http.StatusConflict, "Task is already completed", "", nil)
		return
	}

	completed, err := h.taskRepo.Complete(task.ID, user.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to complete task", "task complete failed", err)
		return
	}

	if err := h.scheduler.ScheduleTaskReminders(task.UserID); err != nil {
		log.Printf("Failed to re-arm task reminders for user %d: %v", task.UserID, err)
	}

	if user.ID == task.UserID {
		h.notifyCaretakers(r, task, user)
	}

	respondJSON(w, http.StatusOK, completed)
}

// Delete handles DELETE /api/tasks/{id}
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	task, ok := h.authorizedTask(w, r, user)
	if !ok {
		return
	}

	if err := h.taskRepo.Delete(task.ID); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete task", "task delete failed", err)
		return
	}

	if err := h.scheduler.ScheduleTaskReminders(task.UserID); err != nil {
		log.Printf("Failed to re-arm task reminders for user %d: %v", task.UserID, err)
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Task deleted"})
}

// authorizedTask loads the task in the path and checks the requester may
// manage its owner. It writes the error response itself.
func (h *TaskHandler) authorizedTask(w http.ResponseWriter, r *http.Request, user *models.User) (*models.Task, bool) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid task id", "", nil)
		return nil, false
	}

	task, err := h.taskRepo.GetByID(id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load task", "task load failed", err)
		return nil, false
	}
	if task == nil {
		respondError(w, http.StatusNotFound, "Task not found", "", nil)
		return nil, false
	}

	allowed, err := canManagePatient(h.assignmentRepo, user, task.UserID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to check access", "access check failed", err)
		return nil, false
	}
	if !allowed {
		respondError(w, http.StatusForbidden, "Not authorized for this patient", "", nil)
		return nil, false
	}

	return task, true
}

func (h *TaskHandler) notifyCaretakers(r *http.Request, task *models.Task, patient *models.User) {
	assignments, err := h.assignmentRepo.ListByPatient(patient.ID)
	if err != nil {
		log.Printf("Failed to list caretakers for patient %d: %v", patient.ID, err)
		return
	}

	update := patient.FullName + " completed the task " + task.Title
	for _, assignment := range assignments {
		if !assignment.IsActive || assignment.Caretaker == nil {
			continue
		}
		caretaker := assignment.Caretaker
		if err := h.emailService.SendPatientUpdate(r.Context(), caretaker.Email, caretaker.FullName, patient.FullName, update); err != nil {
			log.Printf("Failed to send patient update email to caretaker %d: %v", caretaker.ID, err)
		}
		refID := task.ID
		if _, err := h.notificationRepo.Create(&models.Notification{
			UserID:      caretaker.ID,
			Type:        models.NotificationTask,
			Title:       "Task Completed",
			Message:     update,
			ReferenceID: &refID,
		}); err != nil {
			log.Printf("Failed to create task notification for caretaker %d: %v", caretaker.ID, err)
		}
	}
}
