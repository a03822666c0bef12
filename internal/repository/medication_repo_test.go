package repository

import (
	"path/filepath"
	"testing"
	"time"

	"careconnect/internal/database"
	"careconnect/internal/models"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.Initialize(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	return db
}

func createTestPatient(t *testing.T, db *database.DB) *models.User {
	t.Helper()

	user, err := NewUserRepository(db).CreateUser(&models.User{
		Username:     "pat_doe",
		PasswordHash: "hashedpass",
		Email:        "pat@example.com",
		FullName:     "Pat Doe",
		Role:         models.RolePatient,
	})
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

// TestMedicationDeleteRemovesLogs verifies the medication and its dose
// history disappear together
func TestMedicationDeleteRemovesLogs(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := newTestDB(t)
	user := createTestPatient(t, db)
	meds := NewMedicationRepository(db)

	med, err := meds.Create(&models.Medication{
		UserID:   user.ID,
		Name:     "Donepezil",
		Dosage:   "10mg",
		Schedule: `["08:00"]`,
	})
	if err != nil {
		t.Fatalf("Failed to create medication: %v", err)
	}

	if _, err := meds.CreateLog(&models.MedicationLog{
		MedicationID: med.ID,
		TakenAt:      time.Now(),
	}); err != nil {
		t.Fatalf("Failed to create medication log: %v", err)
	}

	if err := meds.Delete(med.ID); err != nil {
		t.Fatalf("Failed to delete medication: %v", err)
	}

	got, err := meds.GetByID(med.ID)
	if err != nil {
		t.Fatalf("Failed to get medication after delete: %v", err)
	}
	if got != nil {
		t.Error("Expected medication to be gone after delete")
	}

	logs, err := meds.ListLogsByMedication(med.ID)
	if err != nil {
		t.Fatalf("Failed to list logs after delete: %v", err)
	}
	if len(logs) != 0 {
		t.Errorf("Expected 0 logs after delete, got %d", len(logs))
	}
}

// TestMedicationDeleteLeavesOthersIntact verifies the delete is scoped to
// one medication
func TestMedicationDeleteLeavesOthersIntact(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := newTestDB(t)
	user := createTestPatient(t, db)
	meds := NewMedicationRepository(db)

	first, err := meds.Create(&models.Medication{
		UserID: user.ID, Name: "Donepezil", Dosage: "10mg", Schedule: `["08:00"]`,
	})
	if err != nil {
		t.Fatalf("Failed to create first medication: %v", err)
	}
	second, err := meds.Create(&models.Medication{
		UserID: user.ID, Name: "Memantine", Dosage: "5mg", Schedule: `["20:00"]`,
	})
	if err != nil {
		t.Fatalf("Failed to create second medication: %v", err)
	}
	if _, err := meds.CreateLog(&models.MedicationLog{
		MedicationID: second.ID, TakenAt: time.Now(),
	}); err != nil {
		t.Fatalf("Failed to create log for second medication: %v", err)
	}

	if err := meds.Delete(first.ID); err != nil {
		t.Fatalf("Failed to delete first medication: %v", err)
	}

	kept, err := meds.GetByID(second.ID)
	if err != nil {
		t.Fatalf("Failed to get second medication: %v", err)
	}
	if kept == nil {
		t.Fatal("Second medication should survive the delete")
	}
	logs, err := meds.ListLogsByMedication(second.ID)
	if err != nil {
		t.Fatalf("Failed to list logs for second medication: %v", err)
	}
	if len(logs) != 1 {
		t.Errorf("Expected 1 log for the surviving medication, got %d", len(logs))
	}
}

// TestTransactionRollbackLeavesStateUntouched exercises the transaction
// helper directly: a rolled-back write must not be visible afterwards
func TestTransactionRollbackLeavesStateUntouched(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := newTestDB(t)
	user := createTestPatient(t, db)
	meds := NewMedicationRepository(db)

	med, err := meds.Create(&models.Medication{
		UserID: user.ID, Name: "Donepezil", Dosage: "10mg", Schedule: `["08:00"]`,
	})
	if err != nil {
		t.Fatalf("Failed to create medication: %v", err)
	}

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("Failed to begin transaction: %v", err)
	}
	if _, err := tx.Exec("DELETE FROM medications WHERE id = ?", med.ID); err != nil {
		tx.Rollback()
		t.Fatalf("Failed to delete in transaction: %v", err)
	}
	if err := tx.Rollback(); err != nil {
		t.Fatalf("Failed to rollback transaction: %v", err)
	}

	got, err := meds.GetByID(med.ID)
	if err != nil {
		t.Fatalf("Failed to get medication after rollback: %v", err)
	}
	if got == nil {
		t.Error("Medication should still exist after rollback")
	}
}
