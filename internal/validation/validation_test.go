package validation

import (
	"strings"
	"testing"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"valid", "pat@example.com", false},
		{"valid with plus tag", "pat+care@example.co.uk", false},
		{"trims whitespace", "  pat@example.com  ", false},
		{"empty", "", true},
		{"missing at sign", "patexample.com", true},
		{"missing domain", "pat@", true},
		{"missing tld", "pat@example", true},
		{"too long", strings.Repeat("a", 250) + "@x.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEmail(%q) error = %v, wantErr %v", tt.email, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid", "correcthorse", false},
		{"minimum length", "12345678", false},
		{"too short", "1234567", true},
		{"empty", "", true},
		{"maximum length", strings.Repeat("x", 72), false},
		{"too long", strings.Repeat("x", 73), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePassword() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{"valid", "emma_wilson", false},
		{"digits and separators", "care.taker-42", false},
		{"minimum length", "abc", false},
		{"too short", "ab", true},
		{"too long", strings.Repeat("a", 33), true},
		{"spaces rejected", "emma wilson", true},
		{"symbols rejected", "emma!", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateUsername(%q) error = %v, wantErr %v", tt.username, err, tt.wantErr)
			}
		})
	}
}

func TestValidateName(t *testing.T) {
	if err := ValidateName("Emma Wilson"); err != nil {
		t.Errorf("ValidateName() error = %v", err)
	}
	if err := ValidateName("   "); err == nil {
		t.Error("ValidateName() should reject blank names")
	}
	if err := ValidateName(strings.Repeat("x", 101)); err == nil {
		t.Error("ValidateName() should reject overlong names")
	}
}

func TestValidateRole(t *testing.T) {
	for _, role := range []string{"patient", "caretaker"} {
		if err := ValidateRole(role); err != nil {
			t.Errorf("ValidateRole(%q) error = %v", role, err)
		}
	}
	for _, role := range []string{"", "admin", "Patient", "nurse"} {
		if err := ValidateRole(role); err == nil {
			t.Errorf("ValidateRole(%q) should fail", role)
		}
	}
}

func TestValidateSchedule(t *testing.T) {
	tests := []struct {
		name     string
		schedule string
		wantErr  bool
	}{
		{"single time", `["08:00"]`, false},
		{"multiple times", `["08:00","13:30","20:00"]`, false},
		{"midnight", `["00:00"]`, false},
		{"last minute", `["23:59"]`, false},
		{"empty array", `[]`, true},
		{"not json", `8am and 8pm`, true},
		{"wrong element type", `[800, 2000]`, true},
		{"hour out of range", `["24:00"]`, true},
		{"minute out of range", `["12:60"]`, true},
		{"missing leading zero", `["8:00"]`, true},
		{"seconds not allowed", `["08:00:00"]`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSchedule(tt.schedule)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSchedule(%q) error = %v, wantErr %v", tt.schedule, err, tt.wantErr)
			}
		})
	}
}
