package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/accountd/accountd/internal/domain/user"
	"github.com/accountd/accountd/internal/observability"
	"github.com/accountd/accountd/internal/repo"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UsersRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewUsersRepo(pool *pgxpool.Pool, prom *observability.Prom) *UsersRepo {
	return &UsersRepo{pool: pool, prom: prom}
}

func (r *UsersRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	return false
}

func (r *UsersRepo) GetByUsername(ctx context.Context, username string) (user.User, error) {
	var u user.User

	err := r.observe("users.get_by_username", func() error {
		return r.pool.QueryRow(
			ctx,
			`SELECT id, username, password_hash, active, created_at
             FROM users
             WHERE username = $1`,
			username,
		).Scan(
			&u.ID,
			&u.Username,
			&u.PasswordHash,
			&u.Active,
			&u.CreatedAt,
		)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, repo.ErrUserNotFound
		}

		return user.User{}, err
	}
	return u, nil
}

// Create inserts a new active user. The users.username UNIQUE constraint is
// what settles concurrent registrations; a 23505 comes back as
// repo.ErrUsernameTaken even when the caller's pre-check passed.
func (r *UsersRepo) Create(ctx context.Context, username, passwordHash string) (user.User, error) {
	u := user.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: passwordHash,
		Active:       true,
		CreatedAt:    time.Now().UTC(),
	}

	err := r.observe("users.create", func() error {
		_, execErr := r.pool.Exec(
			ctx,
			`INSERT INTO users (id, username, password_hash, active, created_at)
             VALUES ($1, $2, $3, $4, $5)`,
			u.ID, u.Username, u.PasswordHash, u.Active, u.CreatedAt,
		)
		return execErr
	})

	if err != nil {
		if IsUniqueViolation(err) {
			return user.User{}, repo.ErrUsernameTaken
		}

		return user.User{}, err
	}

	return u, nil
}

func (r *UsersRepo) SetActive(ctx context.Context, id string, active bool) (user.User, error) {
	var u user.User

	err := r.observe("users.set_active", func() error {
		return r.pool.QueryRow(
			ctx,
			`UPDATE users
             SET active = $2
             WHERE id = $1
             RETURNING id, username, password_hash, active, created_at`,
			id, active,
		).Scan(
			&u.ID,
			&u.Username,
			&u.PasswordHash,
			&u.Active,
			&u.CreatedAt,
		)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, repo.ErrUserNotFound
		}

		return user.User{}, err
	}

	return u, nil
}

// ListActive returns active users newest first. The projection deliberately
// leaves password_hash out.
func (r *UsersRepo) ListActive(ctx context.Context) ([]user.User, error) {
	var users []user.User

	err := r.observe("users.list_active", func() error {
		rows, queryErr := r.pool.Query(
			ctx,
			`SELECT id, username, active, created_at
             FROM users
             WHERE active
             ORDER BY created_at DESC`,
		)
		if queryErr != nil {
			return queryErr
		}
		defer rows.Close()

		for rows.Next() {
			var u user.User
			if scanErr := rows.Scan(&u.ID, &u.Username, &u.Active, &u.CreatedAt); scanErr != nil {
				return scanErr
			}
			users = append(users, u)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return users, nil
}
