package middlewares

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/accountd/accountd/internal/auth"
	"github.com/accountd/accountd/internal/observability"
	"github.com/gin-gonic/gin"
)

// Keep this small interface so tests can fake it easily.
type TokenVerifier interface {
	Verify(token string) (*auth.SessionClaims, error)
}

type SessionMiddleware struct {
	jwt        TokenVerifier
	cookieName string
	log        *slog.Logger
	prom       *observability.Prom
}

func NewSessionMiddleware(jwt TokenVerifier, cookieName string, log *slog.Logger, prom *observability.Prom) *SessionMiddleware {
	return &SessionMiddleware{jwt: jwt, cookieName: cookieName, log: log, prom: prom}
}

// RequireSession authenticates a request from the session cookie, falling
// back to a Bearer header for non-browser clients. The client always gets
// the same undifferentiated 401; expired vs tampered is only visible in
// logs and metrics.
func (m *SessionMiddleware) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := m.tokenFrom(c)

		if raw == "" {
			m.prom.ObserveAuth("verify", "rejected")
			abortUnauthenticated(c, "Missing session credential")
			return
		}

		claims, err := m.jwt.Verify(raw)
		if err != nil {
			// distinct failure kinds internally, one answer to the client
			kind := "invalid"
			if errors.Is(err, auth.ErrTokenExpired) {
				kind = "expired"
			}
			m.log.DebugContext(c.Request.Context(), "session token rejected", "kind", kind)
			m.prom.ObserveAuth("verify", "rejected")

			abortUnauthenticated(c, "Invalid or expired session")
			return
		}

		m.prom.ObserveAuth("verify", "ok")

		// Stash identity on the context for handlers downstream
		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxUsername, claims.Username)
		c.Set(CtxClaims, claims)

		c.Next()
	}
}

func (m *SessionMiddleware) tokenFrom(c *gin.Context) string {
	if raw, err := c.Cookie(m.cookieName); err == nil && raw != "" {
		return raw
	}

	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
	}

	return ""
}

func abortUnauthenticated(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{
			"code":    "unauthenticated",
			"message": message,
		},
	})
}

// Optional helpers so handlers don't need to know the magic keys.

func UserIDFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(CtxUserID)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}

func ClaimsFromContext(c *gin.Context) (*auth.SessionClaims, bool) {
	v, ok := c.Get(CtxClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.SessionClaims)
	return claims, ok
}
