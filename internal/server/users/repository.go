package users

import (
	"context"
)

// Directory is the persistent store of activated users.
//
// Lookups return common.ErrorNotFound when nothing matches. Create returns
// common.ErrConflict when the email or phone number is already taken.
type Directory interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByPhone(ctx context.Context, phone int64) (*User, error)
	Create(ctx context.Context, user *User) (*User, error)
	List(ctx context.Context) ([]*User, error)
}
