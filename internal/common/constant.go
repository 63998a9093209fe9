// Package common contains shared constants and sentinel errors used across
// the users service and its client.
package common

// AccessTokenHeaderName and RefreshTokenHeaderName are the gRPC metadata keys
// carrying the session token pair in both directions.
const (
	AccessTokenHeaderName  = "access_token"
	RefreshTokenHeaderName = "refresh_token"
)

// DefaultUserRole is assigned to every account created through activation.
const DefaultUserRole = "User"
