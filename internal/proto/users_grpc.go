// Package proto holds the wire contract of users.v1.UserService.
//
// Messages are google.protobuf.Struct values whose keys are listed in
// fields.go; the service descriptor and client stub below are written in the
// shape protoc-gen-go-grpc would produce.
package proto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const UserService_ServiceName = "users.v1.UserService"

const (
	UserService_Register_FullMethodName        = "/users.v1.UserService/Register"
	UserService_Activate_FullMethodName        = "/users.v1.UserService/Activate"
	UserService_Login_FullMethodName           = "/users.v1.UserService/Login"
	UserService_GetLoggedInUser_FullMethodName = "/users.v1.UserService/GetLoggedInUser"
	UserService_Logout_FullMethodName          = "/users.v1.UserService/Logout"
	UserService_ListUsers_FullMethodName       = "/users.v1.UserService/ListUsers"
)

// UserServiceServer is the server API for UserService.
type UserServiceServer interface {
	Register(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Activate(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Login(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetLoggedInUser(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Logout(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListUsers(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// UnimplementedUserServiceServer can be embedded for forward compatibility.
type UnimplementedUserServiceServer struct{}

func (UnimplementedUserServiceServer) Register(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method Register not implemented")
}
func (UnimplementedUserServiceServer) Activate(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method Activate not implemented")
}
func (UnimplementedUserServiceServer) Login(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method Login not implemented")
}
func (UnimplementedUserServiceServer) GetLoggedInUser(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method GetLoggedInUser not implemented")
}
func (UnimplementedUserServiceServer) Logout(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method Logout not implemented")
}
func (UnimplementedUserServiceServer) ListUsers(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method ListUsers not implemented")
}

func RegisterUserServiceServer(s grpc.ServiceRegistrar, srv UserServiceServer) {
	s.RegisterService(&UserService_ServiceDesc, srv)
}

type unaryCall func(UserServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call unaryCall) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(UserServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(UserServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// UserService_ServiceDesc is the grpc.ServiceDesc for UserService.
var UserService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: UserService_ServiceName,
	HandlerType: (*UserServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Register", Handler: unaryHandler(UserService_Register_FullMethodName, UserServiceServer.Register)},
		{MethodName: "Activate", Handler: unaryHandler(UserService_Activate_FullMethodName, UserServiceServer.Activate)},
		{MethodName: "Login", Handler: unaryHandler(UserService_Login_FullMethodName, UserServiceServer.Login)},
		{MethodName: "GetLoggedInUser", Handler: unaryHandler(UserService_GetLoggedInUser_FullMethodName, UserServiceServer.GetLoggedInUser)},
		{MethodName: "Logout", Handler: unaryHandler(UserService_Logout_FullMethodName, UserServiceServer.Logout)},
		{MethodName: "ListUsers", Handler: unaryHandler(UserService_ListUsers_FullMethodName, UserServiceServer.ListUsers)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "users/v1/users.proto",
}

// UserServiceClient is the client API for UserService.
type UserServiceClient interface {
	Register(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Activate(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Login(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetLoggedInUser(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Logout(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	ListUsers(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type userServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewUserServiceClient(cc grpc.ClientConnInterface) UserServiceClient {
	return &userServiceClient{cc}
}

func (c *userServiceClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts []grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *userServiceClient) Register(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, UserService_Register_FullMethodName, in, opts)
}
func (c *userServiceClient) Activate(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, UserService_Activate_FullMethodName, in, opts)
}
func (c *userServiceClient) Login(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, UserService_Login_FullMethodName, in, opts)
}
func (c *userServiceClient) GetLoggedInUser(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, UserService_GetLoggedInUser_FullMethodName, in, opts)
}
func (c *userServiceClient) Logout(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, UserService_Logout_FullMethodName, in, opts)
}
func (c *userServiceClient) ListUsers(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, UserService_ListUsers_FullMethodName, in, opts)
}
