package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// timeOfDayRegexp matches 24-hour "HH:MM" strings
var timeOfDayRegexp = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// ValidateEmail checks that an email address is well formed
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return errors.New("email is required")
	}
	if len(email) > 254 {
		return errors.New("email is too long")
	}
	if !emailRegexp.MatchString(email) {
		return errors.New("invalid email address")
	}
	return nil
}

// ValidatePassword enforces the minimum password policy
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	if len(password) > 72 {
		// bcrypt truncates beyond 72 bytes
		return errors.New("password must be at most 72 characters")
	}
	return nil
}

// ValidateUsername checks that a username is acceptable
func ValidateUsername(username string) error {
	username = strings.TrimSpace(username)
	if len(username) < 3 {
		return errors.New("username must be at least 3 characters")
	}
	if len(username) > 32 {
		return errors.New("username must be at most 32 characters")
	}
	for _, r := range username {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '.' && r != '-' {
			return errors.New("username may only contain letters, digits, '_', '.' and '-'")
		}
	}
	return nil
}

// ValidateName checks a person's display name
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("name is required")
	}
	if len(name) > 100 {
		return errors.New("name is too long")
	}
	return nil
}

// ValidateRole checks a user role value
func ValidateRole(role string) error {
	if role != "patient" && role != "caretaker" {
		return fmt.Errorf("invalid role: %q", role)
	}
	return nil
}

// ValidateSchedule checks that a medication schedule is a JSON array of
// "HH:MM" 24-hour strings with at least one entry
func ValidateSchedule(schedule string) error {
	var times []string
	if err := json.Unmarshal([]byte(schedule), &times); err != nil {
		return fmt.Errorf("schedule must be a JSON array of \"HH:MM\" strings: %w", err)
	}
	if len(times) == 0 {
		return errors.New("schedule must contain at least one time")
	}
	for _, t := range times {
		if !timeOfDayRegexp.MatchString(t) {
			return fmt.Errorf("invalid schedule time %q: expected 24-hour HH:MM", t)
		}
	}
	return nil
}
