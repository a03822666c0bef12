package repository

import (
	"database/sql"
	"fmt"
	"time"

	"careconnect/internal/database"
	"careconnect/internal/models"
)

// MedicationRepository handles database operations for medications and their logs
type MedicationRepository struct {
	db *database.DB
}

// NewMedicationRepository creates a new medication repository
func NewMedicationRepository(db *database.DB) *MedicationRepository {
	return &MedicationRepository{db: db}
}

const medicationColumns = `id, user_id, name, dosage, schedule, COALESCE(instructions, ''), created_at, updated_at`

func scanMedication(scan func(dest ...interface{}) error) (*models.Medication, error) {
	med := &models.Medication{}
	err := scan(
		&med.ID,
		&med.UserID,
		&med.Name,
		&med.Dosage,
		&med.Schedule,
		&med.Instructions,
		&med.CreatedAt,
		&med.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return med, nil
}

// ListByUser returns all medications owned by a user
func (r *MedicationRepository) ListByUser(userID int64) ([]*models.Medication, error) {
	query := "SELECT " + medicationColumns + " FROM medications WHERE user_id = ? ORDER BY id"
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list medications: %w", err)
	}
	defer rows.Close()

	var medications []*models.Medication
	for rows.Next() {
		med, err := scanMedication(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan medication: %w", err)
		}
		medications = append(medications, med)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read medications: %w", err)
	}
	return medications, nil
}

// GetByID retrieves a medication by ID
func (r *MedicationRepository) GetByID(id int64) (*models.Medication, error) {
	query := "SELECT " + medicationColumns + " FROM medications WHERE id = ?"
	med, err := scanMedication(r.db.QueryRow(query, id).Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get medication: %w", err)
	}
	return med, nil
}

// Create inserts a new medication
func (r *MedicationRepository) Create(med *models.Medication) (*models.Medication, error) {
	now := time.Now()
	query := `
		INSERT INTO medications (user_id, name, dosage, schedule, instructions, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query,
		med.UserID, med.Name, med.Dosage, med.Schedule, med.Instructions, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create medication: %w", err)
	}

	created := *med
	created.ID = id
	created.CreatedAt = now
	created.UpdatedAt = now
	return &created, nil
}

// Update replaces a medication's editable fields and bumps updated_at
func (r *MedicationRepository) Update(id int64, med *models.Medication) (*models.Medication, error) {
	query := `
		UPDATE medications
		SET name = ?, dosage = ?, schedule = ?, instructions = ?, updated_at = ?
		WHERE id = ?
	`
	_, err := r.db.Exec(query, med.Name, med.Dosage, med.Schedule, med.Instructions, time.Now(), id)
	if err != nil {
		return nil, fmt.Errorf("failed to update medication: %w", err)
	}
	return r.GetByID(id)
}

// Delete removes a medication and its logs in one transaction, so a
// failure between the two deletes never leaves orphaned logs
func (r *MedicationRepository) Delete(id int64) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM medication_logs WHERE medication_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete medication logs: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM medications WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete medication: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to delete medication: %w", err)
	}
	return nil
}

// ListUserIDs returns the distinct owners of all medications. The
// reminder scheduler sweep uses this to re-arm every user's timers.
func (r *MedicationRepository) ListUserIDs() ([]int64, error) {
	rows, err := r.db.Query("SELECT DISTINCT user_id FROM medications")
	if err != nil {
		return nil, fmt.Errorf("failed to list medication owners: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read medication owners: %w", err)
	}
	return ids, nil
}

// CreateLog records a dose being taken
func (r *MedicationRepository) CreateLog(log *models.MedicationLog) (*models.MedicationLog, error) {
	query := `
		INSERT INTO medication_logs (medication_id, taken_at, taken_by, notes)
		VALUES (?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query, log.MedicationID, log.TakenAt, log.TakenBy, log.Notes)
	if err != nil {
		return nil, fmt.Errorf("failed to create medication log: %w", err)
	}

	created := *log
	created.ID = id
	return &created, nil
}

// ListLogsByMedication returns the dose history for a medication
func (r *MedicationRepository) ListLogsByMedication(medicationID int64) ([]*models.MedicationLog, error) {
	query := `
		SELECT id, medication_id, taken_at, taken_by, COALESCE(notes, '')
		FROM medication_logs
		WHERE medication_id = ?
		ORDER BY taken_at DESC
	`
	rows, err := r.db.Query(query, medicationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list medication logs: %w", err)
	}
	defer rows.Close()

	var logs []*models.MedicationLog
	for rows.Next() {
		log := &models.MedicationLog{}
		if err := rows.Scan(&log.ID, &log.MedicationID, &log.TakenAt, &log.TakenBy, &log.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan medication log: %w", err)
		}
		logs = append(logs, log)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read medication logs: %w", err)
	}
	return logs, nil
}
