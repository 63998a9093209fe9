// Package common defines shared constants and sentinel errors used across
// the server and client layers. Callers should use errors.Is to match these
// values; services wrap them with context via fmt.Errorf("...: %w", err).
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrConflict   = errors.New("already exists")

	// Service-level errors.
	ErrorInternal = errors.New("internal error")
	ErrBadInput   = errors.New("bad input")
	ErrDependency = errors.New("dependency unavailable")

	// Credential errors.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")

	// Token errors. Raw jwt errors are never returned past the auth package.
	ErrInvalidCode      = errors.New("invalid activation code")
	ErrInvalidSignature = errors.New("invalid token")
	ErrTokenExpired     = errors.New("token expired")
)

// MessageError attaches a client-facing message to one of the sentinels
// above. errors.Is sees through it to Kind; Error returns only Message.
type MessageError struct {
	Kind    error
	Message string
}

func (e *MessageError) Error() string { return e.Message }
func (e *MessageError) Unwrap() error { return e.Kind }

// WithMessage wraps kind with a message that is safe to show to clients.
func WithMessage(kind error, msg string) error {
	return &MessageError{Kind: kind, Message: msg}
}

// PublicMessage returns the client-facing message carried by err, if any.
func PublicMessage(err error) (string, bool) {
	var me *MessageError
	if errors.As(err, &me) {
		return me.Message, true
	}
	return "", false
}
