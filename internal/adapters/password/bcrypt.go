package password

// Package password provides the bcrypt-backed PasswordHasher adapter.

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrMalformedHash is returned by Verify when the stored digest cannot be
// parsed as a bcrypt hash. A plain mismatch is not an error.
var ErrMalformedHash = errors.New("malformed password hash")

// DefaultCost is the bcrypt work factor used for new hashes.
const DefaultCost = 10

// BcryptHasher implements ports.PasswordHasher using bcrypt. bcrypt embeds
// a random salt per call, so hashing the same input twice yields distinct
// digests.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher constructs a hasher with the given cost. Costs outside
// bcrypt's valid range fall back to DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(_ context.Context, plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt hash: %w", err)
	}
	return string(digest), nil
}

func (h *BcryptHasher) Verify(_ context.Context, plaintext, digest string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		// Anything else means the stored digest itself is unusable.
		return false, fmt.Errorf("%w: %w", ErrMalformedHash, err)
	}
}
