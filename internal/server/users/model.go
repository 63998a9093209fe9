package users

import "time"

// User is an activated account. The Email/PasswordHash pair is the login
// credential; PasswordHash is a bcrypt hash and never leaves the service.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	PhoneNumber  int64
	Address      string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// LoginResult is the outcome of a login attempt. A credential mismatch is
// reported through Error with User and tokens left empty.
type LoginResult struct {
	User         *User
	AccessToken  string
	RefreshToken string
	Error        string
}
