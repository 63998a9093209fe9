package auth

import (
	"errors"
	"fmt"

	"github.com/kuba1e/food-delivery/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher hashes and verifies passwords with bcrypt.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher clamps cost into bcrypt's accepted range; zero selects
// bcrypt.DefaultCost.
func NewPasswordHasher(cost int) *PasswordHasher {
	switch {
	case cost == 0:
		cost = bcrypt.DefaultCost
	case cost < bcrypt.MinCost:
		cost = bcrypt.MinCost
	case cost > bcrypt.MaxCost:
		cost = bcrypt.MaxCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash returns a salted bcrypt hash. Empty or over-long passwords are
// rejected as bad input; any other failure must abort the caller.
func (h *PasswordHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("%w: password is required", common.ErrBadInput)
	}

	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", common.WithMessage(common.ErrBadInput, "Password must not exceed 72 bytes.")
		}
		return "", fmt.Errorf("hash password: %w", err)
	}

	return string(b), nil
}

// Verify reports whether password matches hash. A malformed hash is simply
// a mismatch.
func (h *PasswordHasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
