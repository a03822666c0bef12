package repository

import (
	"fmt"
	"time"

	"careconnect/internal/database"
	"careconnect/internal/models"
)

// AssignmentRepository handles database operations for patient-caretaker assignments
type AssignmentRepository struct {
	db *database.DB
}

// NewAssignmentRepository creates a new assignment repository
func NewAssignmentRepository(db *database.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// Create inserts a new assignment, active from now
func (r *AssignmentRepository) Create(patientID, caretakerID int64) (*models.Assignment, error) {
	now := time.Now()
	query := `
		INSERT INTO assignments (patient_id, caretaker_id, start_date, is_active)
		VALUES (?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query, patientID, caretakerID, now, true)
	if err != nil {
		return nil, fmt.Errorf("failed to create assignment: %w", err)
	}

	return &models.Assignment{
		ID:          id,
		PatientID:   patientID,
		CaretakerID: caretakerID,
		StartDate:   now,
		IsActive:    true,
	}, nil
}

// ListByPatient returns a patient's assignments with the caretaker user attached
func (r *AssignmentRepository) ListByPatient(patientID int64) ([]*models.Assignment, error) {
	query := `
		SELECT a.id, a.patient_id, a.caretaker_id, a.start_date, a.end_date, a.is_active,
			u.id, u.username, u.email, u.full_name, COALESCE(u.phone, ''), u.role, u.created_at
		FROM assignments a
		INNER JOIN users u ON u.id = a.caretaker_id
		WHERE a.patient_id = ?
		ORDER BY a.start_date DESC
	`
	rows, err := r.db.Query(query, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	defer rows.Close()

	var assignments []*models.Assignment
	for rows.Next() {
		assignment := &models.Assignment{}
		caretaker := &models.User{}
		err := rows.Scan(
			&assignment.ID,
			&assignment.PatientID,
			&assignment.CaretakerID,
			&assignment.StartDate,
			&assignment.EndDate,
			&assignment.IsActive,
			&caretaker.ID,
			&caretaker.Username,
			&caretaker.Email,
			&caretaker.FullName,
			&caretaker.Phone,
			&caretaker.Role,
			&caretaker.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		assignment.Caretaker = caretaker
		assignments = append(assignments, assignment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read assignments: %w", err)
	}

	return assignments, nil
}

// ListByCaretaker returns a caretaker's assignments with the patient user attached
func (r *AssignmentRepository) ListByCaretaker(caretakerID int64) ([]*models.Assignment, error) {
	query := `
		SELECT a.id, a.patient_id, a.caretaker_id, a.start_date, a.end_date, a.is_active,
			u.id, u.username, u.email, u.full_name, COALESCE(u.phone, ''), u.role, u.created_at
		FROM assignments a
		INNER JOIN users u ON u.id = a.patient_id
		WHERE a.caretaker_id = ?
		ORDER BY a.start_date DESC
	`
	rows, err := r.db.Query(query, caretakerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	defer rows.Close()

	var assignments []*models.Assignment
	for rows.Next() {
		assignment := &models.Assignment{}
		patient := &models.User{}
		err := rows.Scan(
			&assignment.ID,
			&assignment.PatientID,
			&assignment.CaretakerID,
			&assignment.StartDate,
			&assignment.EndDate,
			&assignment.IsActive,
			&patient.ID,
			&patient.Username,
			&patient.Email,
			&patient.FullName,
			&patient.Phone,
			&patient.Role,
			&patient.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		assignment.Patient = patient
		assignments = append(assignments, assignment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read assignments: %w", err)
	}

	return assignments, nil
}

// HasActiveAssignment reports whether the caretaker is actively assigned
// to the patient. Management rights over the patient's medications and
// tasks hinge on this check.
func (r *AssignmentRepository) HasActiveAssignment(caretakerID, patientID int64) (bool, error) {
	var count int
	query := `
		SELECT COUNT(*)
		FROM assignments
		WHERE caretaker_id = ? AND patient_id = ? AND is_active = ?
	`
	if err := r.db.QueryRow(query, caretakerID, patientID, true).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check assignment: %w", err)
	}
	return count > 0, nil
}
