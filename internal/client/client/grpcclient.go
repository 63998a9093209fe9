package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kuba1e/food-delivery/internal/client/models"
	"github.com/kuba1e/food-delivery/internal/common"
	pb "github.com/kuba1e/food-delivery/internal/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// Registration is the sign-up form sent to Register.
type Registration struct {
	Name        string
	Email       string
	Password    string
	PhoneNumber int64
	Address     string
}

type GRPCClient struct {
	endpointURL string
	timeout     time.Duration
	conn        *grpc.ClientConn
	client      pb.UserServiceClient

	mu           sync.Mutex
	accessToken  string
	refreshToken string
}

// NewUserClient connects to the users service at endpointURL. Every call is
// bounded by timeout when it is positive. Extra dial options are appended
// after the defaults.
func NewUserClient(endpointURL string, timeout time.Duration, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, timeout: timeout}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.sessionInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, dialOpts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.client = pb.NewUserServiceClient(conn)
	return c, nil
}

func (c *GRPCClient) Close() error {
	return c.conn.Close()
}

// LoggedIn reports whether a session pair is held.
func (c *GRPCClient) LoggedIn() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accessToken != "" && c.refreshToken != ""
}

func (c *GRPCClient) tokens() (string, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accessToken, c.refreshToken
}

func (c *GRPCClient) setTokens(access, refresh string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = access
	c.refreshToken = refresh
}

func withSession(ctx context.Context, access, refresh string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AccessTokenHeaderName, access)
	md.Set(common.RefreshTokenHeaderName, refresh)

	return metadata.NewOutgoingContext(ctx, md)
}

func headerValue(md metadata.MD, key string) string {
	if v := md.Get(key); len(v) > 0 {
		return v[0]
	}
	return ""
}

// sessionInterceptor sends the held pair, stores the rotated one and drops
// the session once the server stops accepting it.
func (c *GRPCClient) sessionInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	access, refresh := c.tokens()
	if access != "" || refresh != "" {
		ctx = withSession(ctx, access, refresh)
	}

	var header metadata.MD
	opts = append(opts, grpc.Header(&header))

	err := invoker(ctx, method, req, reply, cc, opts...)

	if status.Code(err) == codes.Unauthenticated {
		c.setTokens("", "")
		return err
	}

	newAccess := headerValue(header, common.AccessTokenHeaderName)
	newRefresh := headerValue(header, common.RefreshTokenHeaderName)
	if newAccess != "" && newRefresh != "" {
		c.setTokens(newAccess, newRefresh)
	}

	return err
}

func (c *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return fmt.Errorf("%w: %s", ErrUnauthorized, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return fmt.Errorf("%w: %s", ErrUnavailable, st.Message())
	case codes.ResourceExhausted:
		return fmt.Errorf("%w: %s", ErrRateLimited, st.Message())
	case codes.InvalidArgument, codes.AlreadyExists, codes.NotFound, codes.FailedPrecondition:
		return fmt.Errorf("%w: %s", ErrRejected, st.Message())
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}

func request(fields map[string]any) (*structpb.Struct, error) {
	req, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	return req, nil
}

// Register submits the sign-up form and returns the activation token that
// must accompany the emailed code.
func (c *GRPCClient) Register(ctx context.Context, r Registration) (string, error) {
	req, err := request(map[string]any{
		pb.FieldName:        r.Name,
		pb.FieldEmail:       r.Email,
		pb.FieldPassword:    r.Password,
		pb.FieldPhoneNumber: r.PhoneNumber,
		pb.FieldAddress:     r.Address,
	})
	if err != nil {
		return "", err
	}

	resp, err := c.client.Register(ctx, req)
	if err != nil {
		return "", c.mapError(err)
	}

	return pb.String(resp, pb.FieldActivationToken), nil
}

func (c *GRPCClient) Activate(ctx context.Context, token, code string) (*models.User, error) {
	req, err := request(map[string]any{
		pb.FieldActivationToken: token,
		pb.FieldActivationCode:  code,
	})
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Activate(ctx, req)
	if err != nil {
		return nil, c.mapError(err)
	}

	return models.UserFromStruct(pb.Struct(resp, pb.FieldUser))
}

// Login opens a session. A password mismatch is reported by the server as
// a successful reply carrying an error text, surfaced here as
// ErrInvalidCredentials.
func (c *GRPCClient) Login(ctx context.Context, email, password string) (*models.User, error) {
	req, err := request(map[string]any{
		pb.FieldEmail:    email,
		pb.FieldPassword: password,
	})
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Login(ctx, req)
	if err != nil {
		return nil, c.mapError(err)
	}

	if msg := pb.String(resp, pb.FieldError); msg != "" {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCredentials, msg)
	}

	user, err := models.UserFromStruct(pb.Struct(resp, pb.FieldUser))
	if err != nil {
		return nil, err
	}

	c.setTokens(pb.String(resp, pb.FieldAccessToken), pb.String(resp, pb.FieldRefreshToken))

	return user, nil
}

// Me returns the account behind the current session.
func (c *GRPCClient) Me(ctx context.Context) (*models.User, error) {
	resp, err := c.client.GetLoggedInUser(ctx, &structpb.Struct{})
	if err != nil {
		return nil, c.mapError(err)
	}

	if access, refresh := pb.String(resp, pb.FieldAccessToken), pb.String(resp, pb.FieldRefreshToken); access != "" && refresh != "" {
		c.setTokens(access, refresh)
	}

	return models.UserFromStruct(pb.Struct(resp, pb.FieldUser))
}

// Logout ends the session on the server and discards the local pair even
// when the call fails.
func (c *GRPCClient) Logout(ctx context.Context) (string, error) {
	defer c.setTokens("", "")

	resp, err := c.client.Logout(ctx, &structpb.Struct{})
	if err != nil {
		return "", c.mapError(err)
	}

	return pb.String(resp, pb.FieldMessage), nil
}

func (c *GRPCClient) ListUsers(ctx context.Context) ([]*models.User, error) {
	resp, err := c.client.ListUsers(ctx, &structpb.Struct{})
	if err != nil {
		return nil, c.mapError(err)
	}

	items := resp.GetFields()[pb.FieldUsers].GetListValue().GetValues()
	list := make([]*models.User, 0, len(items))
	for _, item := range items {
		u, err := models.UserFromStruct(item.GetStructValue())
		if err != nil {
			return nil, err
		}
		if u != nil {
			list = append(list, u)
		}
	}

	return list, nil
}
