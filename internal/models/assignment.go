package models

import "time"

// Assignment is an active patient-caretaker pairing. It grants the
// caretaker management rights over the patient's medications and tasks.
type Assignment struct {
	ID         int64      `json:"id"`
	PatientID  int64      `json:"patientId"`
	CaretakerID int64     `json:"caretakerId"`
	StartDate  time.Time  `json:"startDate"`
	EndDate    *time.Time `json:"endDate,omitempty"`
	IsActive   bool       `json:"isActive"`

	// Populated on list endpoints depending on the caller's role
	Caretaker *User `json:"caretaker,omitempty"`
	Patient   *User `json:"patient,omitempty"`
}
