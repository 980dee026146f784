package user

import (
	"regexp"
	"time"
)

// User is one account. PasswordHash never serializes; Active only ever
// transitions true -> false (deactivation, no reactivation path).
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // never expose hash in JSON
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"createdAt"`
}

const (
	MinUsernameLength = 4
	MaxUsernameLength = 20
	MinPasswordLength = 8
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// FieldViolation is one failed rule on one input field.
type FieldViolation struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// ValidateCredentials checks the shape of a registration request and
// returns every violation, not just the first. An empty slice means ok.
// Uniqueness is the store's job, not this function's.
func ValidateCredentials(username, password string) []FieldViolation {
	var violations []FieldViolation

	switch {
	case username == "":
		violations = append(violations, FieldViolation{
			Field:   "username",
			Rule:    "required",
			Message: "username is required",
		})
	case len(username) < MinUsernameLength:
		violations = append(violations, FieldViolation{
			Field:   "username",
			Rule:    "min",
			Message: "username must be at least 4 characters",
		})
	case len(username) > MaxUsernameLength:
		violations = append(violations, FieldViolation{
			Field:   "username",
			Rule:    "max",
			Message: "username must be at most 20 characters",
		})
	case !usernamePattern.MatchString(username):
		violations = append(violations, FieldViolation{
			Field:   "username",
			Rule:    "charset",
			Message: "username may only contain letters, numbers and underscores",
		})
	}

	switch {
	case password == "":
		violations = append(violations, FieldViolation{
			Field:   "password",
			Rule:    "required",
			Message: "password is required",
		})
	case len(password) < MinPasswordLength:
		violations = append(violations, FieldViolation{
			Field:   "password",
			Rule:    "min",
			Message: "password must be at least 8 characters",
		})
	}

	return violations
}
