package security

import (
	"errors"
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	token, err := issuer.Issue(42, "patient")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := issuer.Validate(token)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Role != "patient" {
		t.Errorf("Role = %q, want patient", claims.Role)
	}
}

func TestTokenIssuerDisabledWithoutSecret(t *testing.T) {
	issuer := NewTokenIssuer("", time.Hour)

	if issuer.Enabled() {
		t.Error("issuer with empty secret should be disabled")
	}
	if _, err := issuer.Issue(1, "patient"); err == nil {
		t.Error("Issue should fail when disabled")
	}
	if _, err := issuer.Validate("anything"); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("Validate error = %v, want ErrTokenInvalid", err)
	}
}

func TestTokenExpired(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", -time.Minute)

	token, err := issuer.Issue(42, "patient")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := issuer.Validate(token); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("Validate error = %v, want ErrTokenExpired", err)
	}
}

func TestTokenTampered(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	token, err := issuer.Issue(42, "patient")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	tampered := token[:len(token)-2] + "xx"
	if _, err := issuer.Validate(tampered); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("Validate error = %v, want ErrTokenInvalid", err)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := NewTokenIssuer("secret-a", time.Hour).Issue(42, "caretaker")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := NewTokenIssuer("secret-b", time.Hour).Validate(token); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("Validate error = %v, want ErrTokenInvalid", err)
	}
}

func TestTokenGarbage(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	for _, garbage := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := issuer.Validate(garbage); !errors.Is(err, ErrTokenInvalid) {
			t.Errorf("Validate(%q) error = %v, want ErrTokenInvalid", garbage, err)
		}
	}
}
