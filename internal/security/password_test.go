package security_test

import (
	"errors"
	"testing"

	"github.com/accountd/accountd/internal/security"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := security.HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	if hash == "" || hash == "correct horse" {
		t.Fatalf("hash should be non-empty and not the plaintext, got %q", hash)
	}

	if !security.CheckPassword(hash, "correct horse") {
		t.Fatalf("CheckPassword should accept the original password")
	}

	if security.CheckPassword(hash, "correct  horse") {
		t.Fatalf("CheckPassword should reject a different password")
	}
}

func TestHashPassword_SaltedOutputsDiffer(t *testing.T) {
	first, err := security.HashPassword("password1")
	if err != nil {
		t.Fatalf("first hash failed: %v", err)
	}

	second, err := security.HashPassword("password1")
	if err != nil {
		t.Fatalf("second hash failed: %v", err)
	}

	if first == second {
		t.Fatalf("two hashes of the same password should differ (random salt)")
	}

	if !security.CheckPassword(first, "password1") || !security.CheckPassword(second, "password1") {
		t.Fatalf("both salted hashes should verify against the original password")
	}
}

func TestHashPassword_RejectsShortSecrets(t *testing.T) {
	for _, plain := range []string{"", "short", "1234567"} {
		_, err := security.HashPassword(plain)
		if !errors.Is(err, security.ErrPasswordTooShort) {
			t.Fatalf("HashPassword(%q) = %v, want ErrPasswordTooShort", plain, err)
		}
	}
}

func TestCheckPassword_GarbageHashDoesNotPanic(t *testing.T) {
	if security.CheckPassword("not-a-bcrypt-hash", "whatever1") {
		t.Fatalf("garbage hash should never verify")
	}
}
