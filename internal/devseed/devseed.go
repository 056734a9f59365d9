// Package devseed seeds a local development database with a known demo
// account so the login flow can be exercised immediately after startup.
package devseed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/confide/confide/internal/adapters/password"
	"github.com/confide/confide/internal/data"
)

const (
	// DemoEmail and DemoPassword are the credentials of the seeded dev
	// account. Development only; Run must never execute in production.
	DemoEmail    = "dev@example.com"
	DemoPassword = "password"
)

// Run ensures the demo account exists. Re-running against an already
// seeded database is a no-op.
func Run(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	users := data.NewUserRepo(db)
	hasher := password.NewBcryptHasher(password.DefaultCost)

	hash, err := hasher.Hash(ctx, DemoPassword)
	if err != nil {
		return fmt.Errorf("hash demo password: %w", err)
	}

	_, err = users.CreateLocal(ctx, DemoEmail, hash)
	switch {
	case err == nil:
		logger.InfoContext(ctx, "seeded dev account", "email", DemoEmail)
	case errors.Is(err, data.ErrEmailTaken):
		logger.InfoContext(ctx, "dev account already present", "email", DemoEmail)
	default:
		return fmt.Errorf("seed dev account: %w", err)
	}

	return nil
}
