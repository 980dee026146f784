package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/accountd/accountd/internal/cache"
	"github.com/accountd/accountd/internal/config"
	"github.com/accountd/accountd/internal/domain/user"
	"github.com/accountd/accountd/internal/repo"
	"github.com/gin-gonic/gin"
)

type UserLister interface {
	ListActive(ctx context.Context) ([]user.User, error)
}

type UserDeactivator interface {
	SetActive(ctx context.Context, id string, active bool) (user.User, error)
}

type UsersHandler struct {
	lister      UserLister
	deactivator UserDeactivator
	listCache   cache.UserList
	log         *slog.Logger
}

func NewUsersHandler(lister UserLister, deactivator UserDeactivator, listCache cache.UserList, log *slog.Logger) *UsersHandler {
	return &UsersHandler{
		lister:      lister,
		deactivator: deactivator,
		listCache:   listCache,
		log:         log,
	}
}

// ListUsers returns active users, newest first. The projection never
// contains password hashes (user.User marshals without the hash, and the
// store query does not even select it).
func (h *UsersHandler) ListUsers(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	if users, ok := h.listCache.Get(cctx); ok {
		ctx.JSON(http.StatusOK, users)
		return
	}

	users, err := h.lister.ListActive(cctx)

	if err != nil {
		h.log.ErrorContext(ctx.Request.Context(), "user listing failed", "err", err)
		RespondInternal(ctx, "Could not list users")
		return
	}

	if users == nil {
		users = []user.User{}
	}

	h.listCache.Set(cctx, users)

	ctx.JSON(http.StatusOK, users)
}

// Deactivate flips active to false. It does not revoke tokens the user
// already holds; those run out with their expiry.
func (h *UsersHandler) Deactivate(ctx *gin.Context) {
	id := ctx.Param("id")

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	_, err := h.deactivator.SetActive(cctx, id, false)

	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			RespondNotFound(ctx, "User not found")
			return
		}

		h.log.ErrorContext(ctx.Request.Context(), "user deactivation failed", "err", err, "id", id)
		RespondInternal(ctx, "Could not deactivate user")
		return
	}

	h.listCache.Invalidate(cctx)

	ctx.JSON(http.StatusOK, gin.H{"message": "User deactivated"})
}
