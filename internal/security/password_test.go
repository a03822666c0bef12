package security

import (
	"testing"
	"time"
)

func TestPasswordHashAndCheck(t *testing.T) {
	hash, err := HashPassword("correcthorse")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "correcthorse" {
		t.Fatal("hash must not equal the plaintext")
	}

	if !CheckPassword("correcthorse", hash) {
		t.Error("CheckPassword should accept the original password")
	}
	if CheckPassword("wronghorse", hash) {
		t.Error("CheckPassword should reject a wrong password")
	}
	if CheckPassword("correcthorse", "not-a-bcrypt-hash") {
		t.Error("CheckPassword should reject a malformed hash")
	}
}

func TestRateLimiterAllow(t *testing.T) {
	rl := NewRateLimiter(3, time.Hour)

	for i := 0; i < 3; i++ {
		if !rl.Allow("10.0.0.1") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if rl.Allow("10.0.0.1") {
		t.Error("request over budget should be denied")
	}

	// Other clients have their own budget
	if !rl.Allow("10.0.0.2") {
		t.Error("a different IP should not share the exhausted budget")
	}
}
