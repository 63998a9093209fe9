package grpc

import (
	"context"
	"errors"

	"github.com/kuba1e/food-delivery/internal/common"
	"github.com/kuba1e/food-delivery/internal/server/guard"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var defaultMessages = map[codes.Code]string{
	codes.InvalidArgument:    "invalid request",
	codes.AlreadyExists:      "already exists",
	codes.FailedPrecondition: "token expired",
	codes.Unauthenticated:    guard.RejectMessage,
	codes.NotFound:           "not found",
	codes.Unavailable:        "service temporarily unavailable",
	codes.Canceled:           "request canceled",
	codes.DeadlineExceeded:   "request timed out",
	codes.Internal:           "internal error",
}

func codeOf(err error) codes.Code {
	switch {
	case errors.Is(err, common.ErrBadInput), errors.Is(err, common.ErrInvalidCode):
		return codes.InvalidArgument
	case errors.Is(err, common.ErrConflict):
		return codes.AlreadyExists
	case errors.Is(err, common.ErrTokenExpired):
		return codes.FailedPrecondition
	case errors.Is(err, common.ErrInvalidSignature), errors.Is(err, common.ErrUnauthenticated),
		errors.Is(err, common.ErrInvalidCredentials):
		return codes.Unauthenticated
	case errors.Is(err, common.ErrorNotFound):
		return codes.NotFound
	case errors.Is(err, common.ErrDependency):
		return codes.Unavailable
	case errors.Is(err, context.Canceled):
		return codes.Canceled
	case errors.Is(err, context.DeadlineExceeded):
		return codes.DeadlineExceeded
	default:
		return codes.Internal
	}
}

// toStatus converts a service error into a gRPC status. Only messages
// attached with common.WithMessage reach the client verbatim.
func toStatus(err error) error {
	code := codeOf(err)

	msg, ok := common.PublicMessage(err)
	if !ok {
		msg = defaultMessages[code]
	}

	return status.Error(code, msg)
}
