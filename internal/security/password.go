package security

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength matches the store-level rule; enforced here too so a
// caller can never persist a hash of a too-short secret.
const MinPasswordLength = 8

var ErrPasswordTooShort = errors.New("password must be at least 8 characters")

// HashPassword hashes a plain text password with bcrypt. The salt is
// generated per call and embedded in the output, so hashing the same
// password twice yields different values.
func HashPassword(plain string) (string, error) {
	if len(plain) < MinPasswordLength {
		return "", ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)

	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// CheckPassword reports whether plain matches the bcrypt hash. bcrypt's
// comparison does not leak where a mismatch occurs.
func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
