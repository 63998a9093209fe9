// Package grpc exposes the users service over gRPC.
package grpc

import (
	"context"
	"net"

	pb "github.com/kuba1e/food-delivery/internal/proto"
	"github.com/kuba1e/food-delivery/internal/logging"
	"github.com/kuba1e/food-delivery/internal/server/guard"
	"github.com/kuba1e/food-delivery/internal/server/users"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type userSvc interface {
	Register(ctx context.Context, in users.RegisterInput) (string, error)
	Activate(ctx context.Context, token, code string) (*users.User, error)
	Login(ctx context.Context, email, password string) (*users.LoginResult, error)
	ListUsers(ctx context.Context) ([]*users.User, error)
	Logout(ctx context.Context, user *users.User) string
}

type authenticator interface {
	Authenticate(ctx context.Context, creds guard.Credentials) (*guard.AuthContext, error)
}

type GRPCServer struct {
	pb.UnimplementedUserServiceServer
	address string
	users   userSvc
	guard   authenticator
	limiter *peerLimiter
	logger  logging.Logger
}

type Option func(*GRPCServer)

// WithRateLimit limits unauthenticated RPCs per client address. A
// non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *GRPCServer) {
		if rps > 0 {
			s.limiter = newPeerLimiter(rps, burst)
		}
	}
}

func NewGRPCServer(a string, l logging.Logger, us userSvc, g authenticator, opts ...Option) (*GRPCServer, error) {
	s := &GRPCServer{
		address: a,
		logger:  l.With("module", "grpc_server"),
		users:   us,
		guard:   g,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *GRPCServer) newServer() (*grpc.Server, *health.Server) {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(
		s.loggingInterceptor,
		s.rateLimitInterceptor,
		s.authInterceptor,
	))

	pb.RegisterUserServiceServer(srv, s)

	hs := health.NewServer()
	hs.SetServingStatus(pb.UserService_ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, hs)

	return srv, hs
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is cancelled.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv, hs := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		hs.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}
