// Package client is the gRPC client of users.v1.UserService.
//
// GRPCClient keeps the session token pair in memory, attaches it to every
// call and picks up the rotated pair the server returns in response
// headers. Logging out discards the pair.
package client
