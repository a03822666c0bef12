package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"careconnect/internal/models"
	"careconnect/internal/repository"
	"careconnect/internal/service"
	"careconnect/internal/validation"
)

// MedicationHandler handles medication CRUD and dose logging
type MedicationHandler struct {
	medicationRepo   *repository.MedicationRepository
	assignmentRepo   *repository.AssignmentRepository
	notificationRepo *repository.NotificationRepository
	emailService     *service.EmailService
	scheduler        *service.ReminderScheduler
}

// NewMedicationHandler creates a new medication handler
func NewMedicationHandler(medicationRepo *repository.MedicationRepository, assignmentRepo *repository.AssignmentRepository, notificationRepo *repository.NotificationRepository, emailService *service.EmailService, scheduler *service.ReminderScheduler) *MedicationHandler {
	return &MedicationHandler{
		medicationRepo:   medicationRepo,
		assignmentRepo:   assignmentRepo,
		notificationRepo: notificationRepo,
		emailService:     emailService,
		scheduler:        scheduler,
	}
}

// canManagePatient reports whether a user may view and manage a patient's
// medications and tasks: the patient themselves, or a caretaker with an
// active assignment to that patient.
func canManagePatient(assignmentRepo *repository.AssignmentRepository, user *models.User, patientID int64) (bool, error) {
	if user.ID == patientID {
		return true, nil
	}
	if !user.IsCaretaker() {
		return false, nil
	}
	return assignmentRepo.HasActiveAssignment(user.ID, patientID)
}

// targetUserID resolves which patient a request operates on: the userId
// query parameter when present, otherwise the requester
func targetUserID(r *http.Request, user *models.User) int64 {
	if s := r.URL.Query().Get("userId"); s != "" {
		if id, err := strconv.ParseInt(s, 10, 64); err == nil && id > 0 {
			return id
		}
	}
	return user.ID
}

// List handles GET /api/medications
func (h *MedicationHandler) List(w http.ResponseWriter, r *http.Request) {
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

	medications, err := h.medicationRepo.ListByUser(ownerID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to list medications", "medication list failed", err)
		return
	}
	if medications == nil {
		medications = []*models.Medication{}
	}
	respondJSON(w, http.StatusOK, medications)
}

// Create handles POST /api/medications. A caretaker may create for an
// assigned patient by setting userId in the body; it defaults to self.
func (h *MedicationHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var med models.Medication
	if err := decodeJSON(r, &med); err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), "", nil)
		return
	}
	if med.UserID == 0 {
		med.UserID = user.ID
	}

	allowed, err := canManagePatient(h.assignmentRepo, user, med.UserID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to check access", "access check failed", err)
		return
	}
	if !allowed {
		respondError(w, http.StatusForbidden, "Not authorized for this patient", "", nil)
		return
	}

	if med.Name == "" || med.Dosage == "" {
		respondError(w, http.StatusBadRequest, "Name and dosage are required", "", nil)
		return
	}
	if err := validation.ValidateSchedule(med.Schedule); err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), "", nil)
		return
	}

	created, err := h.medicationRepo.Create(&med)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create medication", "medication create failed", err)
		return
	}

	if err := h.scheduler.ScheduleMedicationReminders(created.UserID); err != nil {
		log.Printf("Failed to re-arm medication reminders for user %d: %v", created.UserID, err)
	}

	respondJSON(w, http.StatusCreated, created)
}

// Update handles PUT /api/medications/{id}
func (h *MedicationHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	med, ok := h.authorizedMedication(w, r, user)
	if !ok {
		return
	}

	var input models.Medication
	if err := decodeJSON(r, &input); err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), "", nil)
		return
	}
	if input.Name == "" || input.Dosage == "" {
		respondError(w, http.StatusBadRequest, "Name and dosage are required", "", nil)
		return
	}
	if err := validation.ValidateSchedule(input.Schedule); err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), "", nil)
		return
	}

	updated, err := h.medicationRepo.Update(med.ID, &input)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update medication", "medication update failed", err)
		return
	}

	if err := h.scheduler.ScheduleMedicationReminders(med.UserID); err != nil {
		log.Printf("Failed to re-arm medication reminders for user %d: %v", med.UserID, err)
	}

	respondJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/medications/{id}
func (h *MedicationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	med, ok := h.authorizedMedication(w, r, user)
	if !ok {
		return
	}

	if err := h.medicationRepo.Delete(med.ID); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete medication", "medication delete failed", err)
		return
	}

	if err := h.scheduler.ScheduleMedicationReminders(med.UserID); err != nil {
		log.Printf("Failed to re-arm medication reminders for user %d: %v", med.UserID, err)
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Medication deleted"})
}

type logDoseRequest struct {
	Notes string `json:"notes,omitempty"`
}

// LogDose handles POST /api/medications/{id}/logs, recording that a dose
// was taken. When the patient logs their own dose, assigned caretakers
// are told about it.
func (h *MedicationHandler) LogDose(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	med, ok := h.authorizedMedication(w, r, user)
	if !ok {
		return
	}

	var req logDoseRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), "", nil)
		return
	}

	entry := &models.MedicationLog{
		MedicationID: med.ID,
		TakenAt:      time.Now(),
		Notes:        req.Notes,
	}
	if user.ID != med.UserID {
		takenBy := user.ID
		entry.TakenBy = &takenBy
	}

	created, err := h.medicationRepo.CreateLog(entry)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to log dose", "dose log failed", err)
		return
	}

	if user.ID == med.UserID {
		h.notifyCaretakers(r, med, user)
	}

	respondJSON(w, http.StatusCreated, created)
}

// ListLogs handles GET /api/medications/{id}/logs
func (h *MedicationHandler) ListLogs(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	med, ok := h.authorizedMedication(w, r, user)
	if !ok {
		return
	}

	logs, err := h.medicationRepo.ListLogsByMedication(med.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to list dose logs", "dose log list failed", err)
		return
	}
	if logs == nil {
		logs = []*models.MedicationLog{}
	}
	respondJSON(w, http.StatusOK, logs)
}

// authorizedMedication loads the medication in the path and checks the
// requester may manage its owner. It writes the error response itself.
func (h *MedicationHandler) authorizedMedication(w http.ResponseWriter, r *http.Request, user *models.User) (*models.Medication, bool) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid medication id", "", nil)
		return nil, false
	}

	med, err := h.medicationRepo.GetByID(id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load medication", "medication load failed", err)
		return nil, false
	}
	if med == nil {
		respondError(w, http.StatusNotFound, "Medication not found", "", nil)
		return nil, false
	}

	allowed, err := canManagePatient(h.assignmentRepo, user, med.UserID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to check access", "access check failed", err)
		return nil, false
	}
	if !allowed {
		respondError(w, http.StatusForbidden, "Not authorized for this patient", "", nil)
		return nil, false
	}

	return med, true
}

// notifyCaretakers tells each actively assigned caretaker that the
// patient logged a dose. Failures are logged only.
func (h *MedicationHandler) notifyCaretakers(r *http.Request, med *models.Medication, patient *models.User) {
	assignments, err := h.assignmentRepo.ListByPatient(patient.ID)
	if err != nil {
		log.Printf("Failed to list caretakers for patient %d: %v", patient.ID, err)
		return
	}

	update := patient.FullName + " took " + med.Name + " (" + med.Dosage + ")"
	for _, assignment := range assignments {
		if !assignment.IsActive || assignment.Caretaker == nil {
			continue
		}
		caretaker := assignment.Caretaker
		if err := h.emailService.SendPatientUpdate(r.Context(), caretaker.Email, caretaker.FullName, patient.FullName, update); err != nil {
			log.Printf("Failed to send patient update email to caretaker %d: %v", caretaker.ID, err)
		}
		refID := med.ID
		if _, err := h.notificationRepo.Create(&models.Notification{
			UserID:      caretaker.ID,
			Type:        models.NotificationMedication,
			Title:       "Dose Taken",
			Message:     update,
			ReferenceID: &refID,
		}); err != nil {
			log.Printf("Failed to create dose notification for caretaker %d: %v", caretaker.ID, err)
		}
	}
}
