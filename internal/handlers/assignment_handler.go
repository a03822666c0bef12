package handlers

import (
	"log"
	"net/http"

	"careconnect/internal/models"
	"careconnect/internal/repository"
	"careconnect/internal/service"
)

// AssignmentHandler handles patient-caretaker assignments
type AssignmentHandler struct {
	assignmentRepo   *repository.AssignmentRepository
	userRepo         *repository.UserRepository
	notificationRepo *repository.NotificationRepository
	emailService     *service.EmailService
}

// NewAssignmentHandler creates a new assignment handler
func NewAssignmentHandler(assignmentRepo *repository.AssignmentRepository, userRepo *repository.UserRepository, notificationRepo *repository.NotificationRepository, emailService *service.EmailService) *AssignmentHandler {
	return &AssignmentHandler{
		assignmentRepo:   assignmentRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		emailService:     emailService,
	}
}

type createAssignmentRequest struct {
	CaretakerID int64 `json:"caretakerId"`
}

// Create handles POST /api/assignments. The signed-in patient hires a
// caretaker; the caretaker is told by email and in-app notification.
// Notification failures never roll back the assignment.
func (h *AssignmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	patient := GetUserFromContext(r.Context())

	var req createAssignmentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), "", nil)
		return
	}

	caretaker, err := h.userRepo.GetUserByID(req.CaretakerID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load caretaker", "caretaker load failed", err)
		return
	}
	if caretaker == nil || !caretaker.IsCaretaker() {
		respondError(w, http.StatusNotFound, "Caretaker not found", "", nil)
		return
	}

	active, err := h.assignmentRepo.HasActiveAssignment(caretaker.ID, patient.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to check assignment", "assignment check failed", err)
		return
	}
	if active {
		respondError(w, http.StatusConflict, "Caretaker is already assigned to you", "", nil)
		return
	}

	assignment, err := h.assignmentRepo.Create(patient.ID, caretaker.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create assignment", "assignment create failed", err)
		return
	}

	if err := h.emailService.SendAssignmentNotification(r.Context(), caretaker.Email, caretaker.FullName, patient.FullName); err != nil {
		log.Printf("Failed to send assignment email to caretaker %d: %v", caretaker.ID, err)
	}

	refID := assignment.ID
	if _, err := h.notificationRepo.Create(&models.Notification{
		UserID:      caretaker.ID,
		Type:        models.NotificationAssignment,
		Title:       "New Patient Assignment",
		Message:     "You have been assigned as a caretaker for " + patient.FullName,
		ReferenceID: &refID,
	}); err != nil {
		log.Printf("Failed to create assignment notification for caretaker %d: %v", caretaker.ID, err)
	}

	respondJSON(w, http.StatusCreated, assignment)
}

// ListForPatient handles GET /api/assignments, returning the signed-in
// patient's assignments with caretaker details
func (h *AssignmentHandler) ListForPatient(w http.ResponseWriter, r *http.Request) {
	patient := GetUserFromContext(r.Context())

	assignments, err := h.assignmentRepo.ListByPatient(patient.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to list assignments", "assignment list failed", err)
		return
	}
	if assignments == nil {
		assignments = []*models.Assignment{}
	}
	respondJSON(w, http.StatusOK, assignments)
}

// ListForCaretaker handles GET /api/patients, returning the signed-in
// caretaker's assignments with patient details
func (h *AssignmentHandler) ListForCaretaker(w http.ResponseWriter, r *http.Request) {
	caretaker := GetUserFromContext(r.Context())

	assignments, err := h.assignmentRepo.ListByCaretaker(caretaker.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to list patients", "assignment list failed", err)
		return
	}
	if assignments == nil {
		assignments = []*models.Assignment{}
	}
	respondJSON(w, http.StatusOK, assignments)
}
