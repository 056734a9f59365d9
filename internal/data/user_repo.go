package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/confide/confide/internal/data/pgxutil"
	"github.com/confide/confide/internal/domain/model"
	apperrors "github.com/confide/confide/internal/errors"
)

const userColumns = "id, email, password, secret"

// UserRepo provides database operations for user accounts. All cross-request
// coordination (duplicate registration, concurrent federated callbacks)
// is delegated to the unique constraint on users.email; the repo holds no
// in-process locks.
type UserRepo struct {
	DB *sql.DB
}

// NewUserRepo creates a new UserRepo.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db}
}

// FindByEmail returns the user row for email, or ErrUserNotFound.
// Emails are matched exactly as stored.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var out model.User
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx,
			`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", apperrors.MapDBError(err))
	}
	return &out, nil
}

// CreateLocal inserts a locally registered user with a password hash.
// A duplicate email yields ErrEmailTaken.
func (r *UserRepo) CreateLocal(ctx context.Context, email, passwordHash string) (*model.User, error) {
	var out model.User
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO users (email, password)
			VALUES ($1, $2)
			RETURNING `+userColumns,
			email, passwordHash)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
		return err
	})
	if err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create local user: %w", apperrors.MapDBError(err))
	}
	return &out, nil
}

// FindOrCreateFederated returns the existing row for email or inserts a
// new one with a NULL password (the federated-only marker).
//
// ON CONFLICT DO NOTHING keeps the insert race-free under concurrent
// callbacks for the same new email: the loser of the race gets zero rows
// back and re-fetches the winner's row. A unique-violation surfacing
// anyway (e.g. a concurrent insert through a different code path) is
// handled the same way.
func (r *UserRepo) FindOrCreateFederated(ctx context.Context, email string) (*model.User, error) {
	var out model.User
	var inserted bool
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO users (email, password)
			VALUES ($1, NULL)
			ON CONFLICT (email) DO NOTHING
			RETURNING `+userColumns,
			email)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
		if err == nil {
			inserted = true
			return nil
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return err
	})
	if err != nil && !apperrors.IsUniqueViolation(err) {
		return nil, fmt.Errorf("find-or-create federated user: %w", apperrors.MapDBError(err))
	}
	if inserted {
		return &out, nil
	}

	// Row already existed (possibly created a moment ago by a concurrent
	// callback); treat as found.
	existing, err := r.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("find-or-create federated user: %w", err)
	}
	return existing, nil
}

// UpdateSecret replaces the user's secret and returns the updated row.
// Last write wins; no history is kept.
func (r *UserRepo) UpdateSecret(ctx context.Context, email, secret string) (*model.User, error) {
	var out model.User
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			UPDATE users SET secret = $2
			WHERE email = $1
			RETURNING `+userColumns,
			email, secret)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("update secret: %w", apperrors.MapDBError(err))
	}
	return &out, nil
}
