package grpc

import (
	"context"
	"time"

	"github.com/kuba1e/food-delivery/internal/common"
	pb "github.com/kuba1e/food-delivery/internal/proto"
	"github.com/kuba1e/food-delivery/internal/server/guard"
	"github.com/kuba1e/food-delivery/internal/server/users"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

func userToMap(u *users.User) map[string]any {
	if u == nil {
		return nil
	}
	return map[string]any{
		pb.FieldID:          u.ID,
		pb.FieldName:        u.Name,
		pb.FieldEmail:       u.Email,
		pb.FieldPhoneNumber: u.PhoneNumber,
		pb.FieldAddress:     u.Address,
		pb.FieldRole:        u.Role,
		pb.FieldCreatedAt:   u.CreatedAt.UTC().Format(time.RFC3339Nano),
		pb.FieldUpdatedAt:   u.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

// optional maps empty strings to null.
func optional(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func (s *GRPCServer) reply(ctx context.Context, fields map[string]any) (*structpb.Struct, error) {
	resp, err := structpb.NewStruct(fields)
	if err != nil {
		s.logger.Error(ctx, "response encoding failed", "error", err)
		return nil, status.Error(codes.Internal, defaultMessages[codes.Internal])
	}
	return resp, nil
}

// fail logs err at a level matching its severity and converts it to a status.
func (s *GRPCServer) fail(ctx context.Context, method string, err error) error {
	st := toStatus(err)

	switch status.Code(st) {
	case codes.Internal, codes.Unavailable:
		s.logger.Error(ctx, "request failed", "method", method, "error", err)
	default:
		s.logger.Info(ctx, "request refused", "method", method, "error", err)
	}

	return st
}

func (s *GRPCServer) Register(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	s.logger.Info(ctx, "Registration request")

	token, err := s.users.Register(ctx, users.RegisterInput{
		Name:        pb.String(req, pb.FieldName),
		Email:       pb.String(req, pb.FieldEmail),
		Password:    pb.String(req, pb.FieldPassword),
		PhoneNumber: pb.Int(req, pb.FieldPhoneNumber),
		Address:     pb.String(req, pb.FieldAddress),
	})
	if err != nil {
		return nil, s.fail(ctx, pb.UserService_Register_FullMethodName, err)
	}

	return s.reply(ctx, map[string]any{pb.FieldActivationToken: token})
}

func (s *GRPCServer) Activate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	user, err := s.users.Activate(ctx,
		pb.String(req, pb.FieldActivationToken),
		pb.String(req, pb.FieldActivationCode),
	)
	if err != nil {
		return nil, s.fail(ctx, pb.UserService_Activate_FullMethodName, err)
	}

	return s.reply(ctx, map[string]any{pb.FieldUser: userToMap(user)})
}

func (s *GRPCServer) Login(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	result, err := s.users.Login(ctx, pb.String(req, pb.FieldEmail), pb.String(req, pb.FieldPassword))
	if err != nil {
		return nil, s.fail(ctx, pb.UserService_Login_FullMethodName, err)
	}

	var user any
	if result.User != nil {
		user = userToMap(result.User)
	}

	return s.reply(ctx, map[string]any{
		pb.FieldUser:         user,
		pb.FieldAccessToken:  optional(result.AccessToken),
		pb.FieldRefreshToken: optional(result.RefreshToken),
		pb.FieldError:        optional(result.Error),
	})
}

func (s *GRPCServer) GetLoggedInUser(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {

	ac, ok := guard.FromContext(ctx)
	if !ok {
		return nil, s.fail(ctx, pb.UserService_GetLoggedInUser_FullMethodName, common.ErrUnauthenticated)
	}

	return s.reply(ctx, map[string]any{
		pb.FieldUser:         userToMap(ac.User),
		pb.FieldAccessToken:  ac.Tokens.AccessToken,
		pb.FieldRefreshToken: ac.Tokens.RefreshToken,
	})
}

func (s *GRPCServer) Logout(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {

	ac, ok := guard.FromContext(ctx)
	if !ok {
		return nil, s.fail(ctx, pb.UserService_Logout_FullMethodName, common.ErrUnauthenticated)
	}

	msg := s.users.Logout(ctx, ac.User)

	cleared := metadata.Pairs(common.AccessTokenHeaderName, "", common.RefreshTokenHeaderName, "")
	if err := grpc.SetHeader(ctx, cleared); err != nil {
		s.logger.Warn(ctx, "token headers not cleared", "error", err)
	}

	return s.reply(ctx, map[string]any{pb.FieldMessage: msg})
}

func (s *GRPCServer) ListUsers(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {

	list, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, s.fail(ctx, pb.UserService_ListUsers_FullMethodName, err)
	}

	items := make([]any, 0, len(list))
	for _, u := range list {
		items = append(items, userToMap(u))
	}

	return s.reply(ctx, map[string]any{pb.FieldUsers: items})
}
