package client

import "errors"

var (
	ErrUnavailable        = errors.New("server unavailable")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrRejected           = errors.New("request rejected")
	ErrRateLimited        = errors.New("rate limited")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
