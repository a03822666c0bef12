package models

import "time"

// User roles
const (
	RolePatient   = "patient"
	RoleCaretaker = "caretaker"
)

// User represents an account in the system, either a patient or a caretaker
type User struct {
	ID            int64     `json:"id"`
	Username      string    `json:"username"`
	PasswordHash  string    `json:"-"`
	Email         string    `json:"email"`
	FullName      string    `json:"fullName"`
	Phone         string    `json:"phone,omitempty"`
	Role          string    `json:"role"`
	OAuthProvider string    `json:"-"`
	OAuthSubject  string    `json:"-"`
	CreatedAt     time.Time `json:"createdAt"`
}

// IsPatient reports whether the user has the patient role
func (u *User) IsPatient() bool {
	return u.Role == RolePatient
}

// IsCaretaker reports whether the user has the caretaker role
func (u *User) IsCaretaker() bool {
	return u.Role == RoleCaretaker
}

// Session represents an authenticated session
type Session struct {
	ID        string    `json:"-"`
	UserID    int64     `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

// IsExpired checks if the session has expired
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
