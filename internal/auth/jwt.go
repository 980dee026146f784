package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// The two failure kinds are distinct so callers can log them separately;
// both map to a single 401 at the HTTP edge.
var (
	ErrTokenInvalid = errors.New("session token invalid")
	ErrTokenExpired = errors.New("session token expired")
)

// SessionClaims is the identity payload embedded in a session token.
type SessionClaims struct {
	UserID   string `json:"uid"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Manager issues and verifies HS256-signed session tokens. The secret and
// TTL are fixed at construction; the Manager holds no other state.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Issue signs a token carrying the user's identity, valid for the
// configured TTL from now. Nothing is persisted; the token is the session.
func (m *Manager) Issue(userID, username string) (string, error) {
	now := time.Now().UTC()

	claims := SessionClaims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify checks signature and expiry and returns the embedded claims.
func (m *Manager) Verify(raw string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(raw, &SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		// Enforce HMAC; reject alg-substitution tokens
		_, ok := t.Method.(*jwt.SigningMethodHMAC)

		if !ok {
			return nil, ErrTokenInvalid
		}
		return m.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*SessionClaims)

	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
