package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/accountd/accountd/internal/auth"
	"github.com/accountd/accountd/internal/cache"
	"github.com/accountd/accountd/internal/config"
	"github.com/accountd/accountd/internal/domain/user"
	"github.com/accountd/accountd/internal/http/middlewares"
	"github.com/accountd/accountd/internal/observability"
	"github.com/accountd/accountd/internal/repo"
	"github.com/accountd/accountd/internal/security"
	"github.com/gin-gonic/gin"
)

// SessionCookieName is the opaque credential handle the client carries.
const SessionCookieName = "session_token"

type UserReader interface {
	GetByUsername(ctx context.Context, username string) (user.User, error)
}

type UserWriter interface {
	Create(ctx context.Context, username, passwordHash string) (user.User, error)
}

// AuthHandler is the session boundary: the one place where uniqueness,
// credential verification and error shaping live.
type AuthHandler struct {
	users      UserReader
	userWriter UserWriter
	jwt        *auth.Manager
	listCache  cache.UserList
	cfg        config.Config
	log        *slog.Logger
	prom       *observability.Prom
}

func NewAuthHandler(users UserReader, userWriter UserWriter, jwtManager *auth.Manager, listCache cache.UserList, cfg config.Config, log *slog.Logger, prom *observability.Prom) *AuthHandler {
	return &AuthHandler{
		users:      users,
		userWriter: userWriter,
		jwt:        jwtManager,
		listCache:  listCache,
		cfg:        cfg,
		log:        log,
		prom:       prom,
	}
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Register(ctx *gin.Context) {
	var req RegisterRequest

	if !BindJSON(ctx, &req) {
		return
	}

	if violations := user.ValidateCredentials(req.Username, req.Password); len(violations) > 0 {
		h.prom.ObserveAuth("register", "rejected")
		RespondBadRequest(ctx, "invalid_request", "Invalid username or password shape", gin.H{"fields": violations})
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	// pre-check for a friendly answer; the store constraint is what
	// actually decides races
	_, err := h.users.GetByUsername(cctx, req.Username)

	if err == nil {
		h.prom.ObserveAuth("register", "rejected")
		RespondBadRequest(ctx, "username_taken", "Username is already in use.", nil)
		return
	}

	if !errors.Is(err, repo.ErrUserNotFound) {
		h.log.ErrorContext(ctx.Request.Context(), "register lookup failed", "err", err)
		h.prom.ObserveAuth("register", "error")
		RespondInternal(ctx, "Could not create user")
		return
	}

	hash, err := security.HashPassword(req.Password)

	if err != nil {
		// length is validated above, so this is a real hashing failure
		h.log.ErrorContext(ctx.Request.Context(), "password hashing failed", "err", err)
		h.prom.ObserveAuth("register", "error")
		RespondInternal(ctx, "Could not create user")
		return
	}

	u, err := h.userWriter.Create(cctx, req.Username, hash)

	if err != nil {
		if errors.Is(err, repo.ErrUsernameTaken) {
			h.prom.ObserveAuth("register", "rejected")
			RespondBadRequest(ctx, "username_taken", "Username is already in use.", nil)
			return
		}

		h.log.ErrorContext(ctx.Request.Context(), "user insert failed", "err", err)
		h.prom.ObserveAuth("register", "error")
		RespondInternal(ctx, "Could not create user")
		return
	}

	h.listCache.Invalidate(cctx)
	h.prom.ObserveAuth("register", "ok")

	// public projection only; the hash stays behind this boundary
	ctx.JSON(http.StatusCreated, gin.H{
		"id":        u.ID,
		"username":  u.Username,
		"createdAt": u.CreatedAt,
	})
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	foundUser, err := h.users.GetByUsername(cctx, req.Username)

	if err != nil {
		if !errors.Is(err, repo.ErrUserNotFound) {
			h.log.ErrorContext(ctx.Request.Context(), "login lookup failed", "err", err)
			h.prom.ObserveAuth("login", "error")
			RespondInternal(ctx, "Could not log in")
			return
		}

		// same answer as a wrong password, no username enumeration
		h.prom.ObserveAuth("login", "rejected")
		RespondUnauthorized(ctx, "invalid_credentials", "Username or password is incorrect.")
		return
	}

	if !security.CheckPassword(foundUser.PasswordHash, req.Password) {
		h.prom.ObserveAuth("login", "rejected")
		RespondUnauthorized(ctx, "invalid_credentials", "Username or password is incorrect.")
		return
	}

	token, err := h.jwt.Issue(foundUser.ID, foundUser.Username)

	if err != nil {
		h.log.ErrorContext(ctx.Request.Context(), "token issuance failed", "err", err)
		h.prom.ObserveAuth("login", "error")
		RespondInternal(ctx, "Could not create session")
		return
	}

	h.setSessionCookie(ctx, token)
	h.prom.ObserveAuth("login", "ok")

	ctx.JSON(http.StatusOK, gin.H{
		"id":       foundUser.ID,
		"username": foundUser.Username,
		"message":  "Login successful",
	})
}

// Profile returns the identity decoded from the presented token. The
// session middleware has already verified it.
func (h *AuthHandler) Profile(ctx *gin.Context) {
	claims, ok := middlewares.ClaimsFromContext(ctx)

	if !ok {
		// only reachable if the route was wired without RequireSession
		RespondUnauthorized(ctx, "unauthenticated", "Missing session credential")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"id":        claims.UserID,
		"username":  claims.Username,
		"issuedAt":  claims.IssuedAt,
		"expiresAt": claims.ExpiresAt,
	})
}

// Logout clears the client-held credential. Sessions are stateless, so
// there is nothing server-side to invalidate; an already-issued token
// stays valid until expiry. Documented limitation, not a bug.
func (h *AuthHandler) Logout(ctx *gin.Context) {
	h.clearSessionCookie(ctx)

	ctx.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (h *AuthHandler) setSessionCookie(ctx *gin.Context, token string) {
	secure := h.cfg.Env == "prod"

	ctx.SetSameSite(http.SameSiteStrictMode)

	ctx.SetCookie(
		SessionCookieName,
		token,
		int(h.jwt.TTL().Seconds()),
		"/",
		"",
		secure,
		true, // HttpOnly.
	)
}

func (h *AuthHandler) clearSessionCookie(ctx *gin.Context) {
	secure := h.cfg.Env == "prod"
	ctx.SetSameSite(http.SameSiteStrictMode)
	ctx.SetCookie(
		SessionCookieName,
		"",
		-1,
		"/",
		"",
		secure,
		true,
	)
}
