package grpc

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/kuba1e/food-delivery/internal/common"
	"github.com/kuba1e/food-delivery/internal/server/guard"
	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestToStatus_Codes(t *testing.T) {
	tests := []struct {
		err  error
		code codes.Code
	}{
		{common.ErrBadInput, codes.InvalidArgument},
		{common.ErrInvalidCode, codes.InvalidArgument},
		{common.ErrConflict, codes.AlreadyExists},
		{common.ErrTokenExpired, codes.FailedPrecondition},
		{common.ErrInvalidSignature, codes.Unauthenticated},
		{common.ErrUnauthenticated, codes.Unauthenticated},
		{common.ErrorNotFound, codes.NotFound},
		{fmt.Errorf("find: %w: %w", common.ErrDependency, context.DeadlineExceeded), codes.Unavailable},
		{context.Canceled, codes.Canceled},
		{errors.New("boom"), codes.Internal},
	}

	for _, tt := range tests {
		st := toStatus(fmt.Errorf("op: %w", tt.err))
		assert.Equal(t, tt.code, status.Code(st), "%v", tt.err)
	}
}

func TestToStatus_Messages(t *testing.T) {
	st := status.Convert(toStatus(common.WithMessage(common.ErrConflict, "User already exist with this email.")))
	assert.Equal(t, "User already exist with this email.", st.Message())

	st = status.Convert(toStatus(errors.New("pq: password authentication failed for user postgres")))
	assert.Equal(t, codes.Internal, st.Code())
	assert.Equal(t, "internal error", st.Message(), "internal details must not leak")

	st = status.Convert(toStatus(common.ErrUnauthenticated))
	assert.Equal(t, guard.RejectMessage, st.Message())
}
