package user_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/accountd/accountd/internal/domain/user"
)

func TestValidateCredentials(t *testing.T) {
	cases := []struct {
		name      string
		username  string
		password  string
		wantField string
		wantRule  string
	}{
		{"username too short", "ab", "whatever1", "username", "min"},
		{"username too long", strings.Repeat("a", 21), "whatever1", "username", "max"},
		{"username bad charset", "bad-name!", "whatever1", "username", "charset"},
		{"username missing", "", "whatever1", "username", "required"},
		{"password too short", "validUser1", "short", "password", "min"},
		{"password missing", "validUser1", "", "password", "required"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			violations := user.ValidateCredentials(tc.username, tc.password)

			if len(violations) == 0 {
				t.Fatalf("expected a violation, got none")
			}

			found := false
			for _, v := range violations {
				if v.Field == tc.wantField && v.Rule == tc.wantRule {
					found = true
					if v.Message == "" {
						t.Fatalf("violation %s/%s should carry a message", v.Field, v.Rule)
					}
				}
			}

			if !found {
				t.Fatalf("missing %s/%s violation in %+v", tc.wantField, tc.wantRule, violations)
			}
		})
	}
}

func TestValidateCredentials_OKInputs(t *testing.T) {
	for _, tc := range []struct{ username, password string }{
		{"alice", "password1"},
		{"user_42", "longenough"},
		{"ABCD", "12345678"},
		{strings.Repeat("a", 20), "whatever1"},
	} {
		if got := user.ValidateCredentials(tc.username, tc.password); len(got) != 0 {
			t.Fatalf("ValidateCredentials(%q, %q) = %+v, want no violations", tc.username, tc.password, got)
		}
	}
}

func TestValidateCredentials_ReportsBothFields(t *testing.T) {
	violations := user.ValidateCredentials("ab", "short")

	if len(violations) != 2 {
		t.Fatalf("expected violations for both fields, got %+v", violations)
	}
}

func TestUser_PasswordHashNeverMarshals(t *testing.T) {
	u := user.User{
		ID:           "id-1",
		Username:     "alice",
		PasswordHash: "$2a$10$secret",
		Active:       true,
		CreatedAt:    time.Now(),
	}

	raw, err := json.Marshal(u)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	if strings.Contains(string(raw), "secret") || strings.Contains(string(raw), "passwordHash") {
		t.Fatalf("serialized user leaked the password hash: %s", raw)
	}
}
