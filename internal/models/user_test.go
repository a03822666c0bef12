package models

import (
	"testing"
	"time"
)

func TestUserRoleChecks(t *testing.T) {
	patient := &User{Role: RolePatient}
	if !patient.IsPatient() || patient.IsCaretaker() {
		t.Error("patient role misreported")
	}

	caretaker := &User{Role: RoleCaretaker}
	if !caretaker.IsCaretaker() || caretaker.IsPatient() {
		t.Error("caretaker role misreported")
	}
}

func TestSessionIsExpired(t *testing.T) {
	live := &Session{ExpiresAt: time.Now().Add(time.Hour)}
	if live.IsExpired() {
		t.Error("session expiring in an hour should not be expired")
	}

	stale := &Session{ExpiresAt: time.Now().Add(-time.Minute)}
	if !stale.IsExpired() {
		t.Error("session past its expiry should be expired")
	}
}
