// Package models defines the account view the CLI works with.
package models

import (
	"fmt"
	"time"

	pb "github.com/kuba1e/food-delivery/internal/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// User is an account as returned by the server. It never carries the
// password hash.
type User struct {
	ID          string
	Name        string
	Email       string
	PhoneNumber int64
	Address     string
	Role        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// UserFromStruct decodes a user object from a response message. A nil
// object yields a nil user.
func UserFromStruct(s *structpb.Struct) (*User, error) {
	if s == nil {
		return nil, nil
	}

	u := &User{
		ID:          pb.String(s, pb.FieldID),
		Name:        pb.String(s, pb.FieldName),
		Email:       pb.String(s, pb.FieldEmail),
		PhoneNumber: pb.Int(s, pb.FieldPhoneNumber),
		Address:     pb.String(s, pb.FieldAddress),
		Role:        pb.String(s, pb.FieldRole),
	}

	var err error
	if u.CreatedAt, err = parseTime(s, pb.FieldCreatedAt); err != nil {
		return nil, err
	}
	if u.UpdatedAt, err = parseTime(s, pb.FieldUpdatedAt); err != nil {
		return nil, err
	}

	return u, nil
}

func parseTime(s *structpb.Struct, key string) (time.Time, error) {
	v := pb.String(s, key)
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("decode %s: %w", key, err)
	}
	return t, nil
}

// String renders the user for terminal output.
func (u *User) String() string {
	return fmt.Sprintf("%s <%s> phone=%d role=%s address=%q id=%s",
		u.Name, u.Email, u.PhoneNumber, u.Role, u.Address, u.ID)
}
