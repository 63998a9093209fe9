// Package guard authenticates session-bearing requests.
//
// Every request walks the same steps: Extract → ValidateAccess → Rotate →
// Admit. ValidateAccess only records what it saw; the refresh token is what
// actually admits a request, and a fresh token pair is minted on every call.
package guard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kuba1e/food-delivery/internal/common"
	"github.com/kuba1e/food-delivery/internal/logging"
	"github.com/kuba1e/food-delivery/internal/server/auth"
	"github.com/kuba1e/food-delivery/internal/server/metrics"
	"github.com/kuba1e/food-delivery/internal/server/users"
)

// RejectMessage is shown to clients whenever a request is not admitted.
const RejectMessage = "Please login to access this resource."

// Step names a state of the guard.
type Step string

const (
	StepExtract        Step = "extract"
	StepValidateAccess Step = "validate_access"
	StepRotate         Step = "rotate"
	StepAdmit          Step = "admit"
	StepReject         Step = "reject"
)

// AccessOutcome is what ValidateAccess observed about the access token.
type AccessOutcome string

const (
	AccessValid   AccessOutcome = "valid"
	AccessExpired AccessOutcome = "expired"
	AccessInvalid AccessOutcome = "invalid"
)

// Credentials is the token pair presented with a request.
type Credentials struct {
	AccessToken  string
	RefreshToken string
}

// AuthContext is the result of an admitted request.
type AuthContext struct {
	User   *users.User
	Tokens auth.TokenPair
	Access AccessOutcome
	Steps  []Step
}

type SessionIssuer interface {
	Issue(identity auth.Identity) (auth.TokenPair, error)
	VerifyAccess(token string) (auth.Identity, error)
	VerifyRefresh(token string) (auth.Identity, error)
}

type UserFinder interface {
	FindByEmail(ctx context.Context, email string) (*users.User, error)
}

type Guard struct {
	issuer        SessionIssuer
	users         UserFinder
	logger        logging.Logger
	metrics       metrics.AuthRecorder
	lookupTimeout time.Duration
}

type Option func(*Guard)

// WithLookupTimeout bounds each user directory lookup. Zero means no bound.
func WithLookupTimeout(d time.Duration) Option {
	return func(g *Guard) { g.lookupTimeout = d }
}

func New(issuer SessionIssuer, finder UserFinder, l logging.Logger, m metrics.AuthRecorder, opts ...Option) *Guard {
	if l == nil {
		l = logging.Nop{}
	}
	if m == nil {
		m = metrics.Nop{}
	}
	g := &Guard{issuer: issuer, users: finder, logger: l.With("module", "guard"), metrics: m}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// run is the per-request state carried between steps.
type run struct {
	creds   Credentials
	access  auth.Identity
	refresh auth.Identity
	result  AuthContext
	err     error
}

type stepFunc func(ctx context.Context, r *run) Step

// Authenticate runs the guard for one request. A rejection wraps
// common.ErrUnauthenticated, except that a failing user directory surfaces
// as common.ErrDependency.
func (g *Guard) Authenticate(ctx context.Context, creds Credentials) (*AuthContext, error) {
	steps := map[Step]stepFunc{
		StepExtract:        g.extract,
		StepValidateAccess: g.validateAccess,
		StepRotate:         g.rotate,
	}

	r := &run{creds: creds}
	step := StepExtract

	for {
		r.result.Steps = append(r.result.Steps, step)

		switch step {
		case StepAdmit:
			g.metrics.RecordGuard(metrics.OutcomeOK)
			return &r.result, nil
		case StepReject:
			g.metrics.RecordGuard(metrics.Outcome(r.err))
			g.logger.Info(ctx, "request rejected", "reason", r.err.Error(), "steps", r.result.Steps)
			return nil, r.err
		}

		step = steps[step](ctx, r)
	}
}

func (g *Guard) extract(_ context.Context, r *run) Step {
	if r.creds.AccessToken == "" || r.creds.RefreshToken == "" {
		r.err = reject("missing session tokens")
		return StepReject
	}
	return StepValidateAccess
}

func (g *Guard) validateAccess(ctx context.Context, r *run) Step {
	id, err := g.issuer.VerifyAccess(r.creds.AccessToken)

	switch {
	case err == nil:
		r.result.Access = AccessValid
		r.access = id
	case errors.Is(err, common.ErrTokenExpired):
		r.result.Access = AccessExpired
	default:
		r.result.Access = AccessInvalid
	}

	g.logger.Debug(ctx, "access token checked", "outcome", string(r.result.Access))

	return StepRotate
}

func (g *Guard) rotate(ctx context.Context, r *run) Step {
	id, err := g.issuer.VerifyRefresh(r.creds.RefreshToken)
	if err != nil {
		r.err = reject(fmt.Sprintf("refresh token: %v", err))
		return StepReject
	}
	r.refresh = id

	// A still-valid access token must belong to the same session.
	if r.result.Access == AccessValid && r.access.ID != r.refresh.ID {
		r.err = reject("access and refresh tokens name different users")
		return StepReject
	}

	user, err := g.findUser(ctx, id.Email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			r.err = reject("user no longer exists")
		} else {
			r.err = fmt.Errorf("resolve user: %w: %w", common.ErrDependency, err)
		}
		return StepReject
	}
	if user.ID != id.ID {
		r.err = reject("refresh token names a replaced account")
		return StepReject
	}

	pair, err := g.issuer.Issue(auth.Identity{ID: user.ID, Email: user.Email})
	if err != nil {
		r.err = reject(fmt.Sprintf("issue session: %v", err))
		return StepReject
	}

	r.result.User = user
	r.result.Tokens = pair

	return StepAdmit
}

func (g *Guard) findUser(ctx context.Context, email string) (*users.User, error) {
	if g.lookupTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.lookupTimeout)
		defer cancel()
	}
	return g.users.FindByEmail(ctx, email)
}

func reject(reason string) error {
	return fmt.Errorf("%w: %s", common.WithMessage(common.ErrUnauthenticated, RejectMessage), reason)
}

type ctxKey struct{}

// WithAuthContext stores ac in ctx.
func WithAuthContext(ctx context.Context, ac *AuthContext) context.Context {
	return context.WithValue(ctx, ctxKey{}, ac)
}

// FromContext returns the AuthContext stored by WithAuthContext.
func FromContext(ctx context.Context) (*AuthContext, bool) {
	ac, ok := ctx.Value(ctxKey{}).(*AuthContext)
	return ac, ok && ac != nil
}
