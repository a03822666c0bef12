package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Medication belongs to a patient. Schedule is a JSON array of "HH:MM"
// 24-hour time-of-day strings, stored as text.
type Medication struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"userId"`
	Name         string    `json:"name"`
	Dosage       string    `json:"dosage"`
	Schedule     string    `json:"schedule"`
	Instructions string    `json:"instructions,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ScheduleTimes parses the schedule column into its time-of-day strings
func (m *Medication) ScheduleTimes() ([]string, error) {
	var times []string
	if err := json.Unmarshal([]byte(m.Schedule), &times); err != nil {
		return nil, fmt.Errorf("invalid schedule for medication %d: %w", m.ID, err)
	}
	return times, nil
}

// MedicationLog records a dose being taken. TakenBy is nil when the
// patient self-administered.
type MedicationLog struct {
	ID           int64     `json:"id"`
	MedicationID int64     `json:"medicationId"`
	TakenAt      time.Time `json:"takenAt"`
	TakenBy      *int64    `json:"takenBy,omitempty"`
	Notes        string    `json:"notes,omitempty"`
}
