package middlewares_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/accountd/accountd/internal/auth"
	"github.com/accountd/accountd/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

type fakeVerifier struct {
	claims *auth.SessionClaims
	err    error
}

func (f *fakeVerifier) Verify(token string) (*auth.SessionClaims, error) {
	return f.claims, f.err
}

func newSessionRouter(v middlewares.TokenVerifier) *gin.Engine {
	gin.SetMode(gin.TestMode)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := middlewares.NewSessionMiddleware(v, "session_token", log, nil)

	r := gin.New()
	r.GET("/protected", m.RequireSession(), func(c *gin.Context) {
		id, _ := middlewares.UserIDFromContext(c)
		c.JSON(http.StatusOK, gin.H{"id": id})
	})
	return r
}

func TestRequireSession_NoCredential(t *testing.T) {
	r := newSessionRouter(&fakeVerifier{err: auth.ErrTokenInvalid})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestRequireSession_RejectedToken(t *testing.T) {
	for _, err := range []error{auth.ErrTokenInvalid, auth.ErrTokenExpired} {
		r := newSessionRouter(&fakeVerifier{err: err})

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.AddCookie(&http.Cookie{Name: "session_token", Value: "some-token"})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("status for %v = %d, want 401", err, w.Code)
		}
	}
}

func TestRequireSession_StashesIdentity(t *testing.T) {
	claims := &auth.SessionClaims{UserID: "user-1", Username: "alice"}
	r := newSessionRouter(&fakeVerifier{claims: claims})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "session_token", Value: "some-token"})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", w.Code, w.Body.String())
	}
	if w.Body.String() != `{"id":"user-1"}` {
		t.Fatalf("handler should see the stashed user id, got %s", w.Body.String())
	}
}
