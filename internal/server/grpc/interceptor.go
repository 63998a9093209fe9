package grpc

import (
	"context"
	"net"
	"strings"
	"time"

	"github.com/kuba1e/food-delivery/internal/common"
	pb "github.com/kuba1e/food-delivery/internal/proto"
	"github.com/kuba1e/food-delivery/internal/server/guard"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

const rateLimitedMessage = "Too many requests, please try again later."

// protectedMethods require a session; the rest are rate limited instead.
var protectedMethods = map[string]bool{
	pb.UserService_GetLoggedInUser_FullMethodName: true,
	pb.UserService_Logout_FullMethodName:          true,
	pb.UserService_ListUsers_FullMethodName:       true,
}

func firstValue(md metadata.MD, key string) string {
	if values := md.Get(key); len(values) > 0 {
		return values[0]
	}
	return ""
}

func credentialsFromContext(ctx context.Context) guard.Credentials {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return guard.Credentials{}
	}
	return guard.Credentials{
		AccessToken:  firstValue(md, common.AccessTokenHeaderName),
		RefreshToken: firstValue(md, common.RefreshTokenHeaderName),
	}
}

func (s *GRPCServer) authInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if !protectedMethods[info.FullMethod] {
		return handler(ctx, req)
	}

	ac, err := s.guard.Authenticate(ctx, credentialsFromContext(ctx))
	if err != nil {
		return nil, s.fail(ctx, info.FullMethod, err)
	}

	// Logout clears the tokens itself.
	if info.FullMethod != pb.UserService_Logout_FullMethodName {
		header := metadata.Pairs(
			common.AccessTokenHeaderName, ac.Tokens.AccessToken,
			common.RefreshTokenHeaderName, ac.Tokens.RefreshToken,
		)
		if err := grpc.SetHeader(ctx, header); err != nil {
			s.logger.Warn(ctx, "rotated tokens not sent in header", "method", info.FullMethod, "error", err)
		}
	}

	return handler(guard.WithAuthContext(ctx, ac), req)
}

func peerKey(ctx context.Context) string {
	p, ok := peer.FromContext(ctx)
	if !ok || p.Addr == nil {
		return "unknown"
	}
	addr := p.Addr.String()
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}

// healthPrefix matches every method of the gRPC health service.
var healthPrefix = "/" + healthpb.Health_ServiceDesc.ServiceName + "/"

func rateLimited(fullMethod string) bool {
	return !protectedMethods[fullMethod] && !strings.HasPrefix(fullMethod, healthPrefix)
}

func (s *GRPCServer) rateLimitInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if s.limiter == nil || !rateLimited(info.FullMethod) {
		return handler(ctx, req)
	}

	key := peerKey(ctx)
	if !s.limiter.Allow(key) {
		s.logger.Warn(ctx, "rate limit exceeded", "peer", key, "method", info.FullMethod)
		return nil, status.Error(codes.ResourceExhausted, rateLimitedMessage)
	}

	return handler(ctx, req)
}

func (s *GRPCServer) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)

	s.logger.Debug(ctx, "request handled",
		"method", info.FullMethod,
		"code", status.Code(err).String(),
		"duration", time.Since(start),
	)

	return resp, err
}
