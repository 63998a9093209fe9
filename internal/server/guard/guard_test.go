package guard

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/kuba1e/food-delivery/internal/common"
	"github.com/kuba1e/food-delivery/internal/logging"
	"github.com/kuba1e/food-delivery/internal/server/auth"
	"github.com/kuba1e/food-delivery/internal/server/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ now time.Time }

func (c *clock) Now() time.Time          { return c.now }
func (c *clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type failingFinder struct{ err error }

func (f failingFinder) FindByEmail(context.Context, string) (*users.User, error) { return nil, f.err }

// blockingFinder waits until the lookup context is done.
type blockingFinder struct{}

func (blockingFinder) FindByEmail(ctx context.Context, _ string) (*users.User, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

type fixture struct {
	guard  *Guard
	issuer *auth.SessionIssuer
	clock  *clock
	dir    *users.MemoryRepository
	alice  *users.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		clock: &clock{now: time.Unix(1_700_000_000, 0)},
		dir:   users.NewMemoryRepository(),
	}
	f.issuer = auth.NewSessionIssuer(auth.Settings{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
	}, auth.WithClock(f.clock.Now))
	f.guard = New(f.issuer, f.dir, logging.Nop{}, nil)

	alice, err := f.dir.Create(context.Background(), &users.User{Name: "Alice", Email: "alice@x.com", PhoneNumber: 555123})
	require.NoError(t, err)
	f.alice = alice

	return f
}

func (f *fixture) login(t *testing.T, u *users.User) auth.TokenPair {
	t.Helper()
	pair, err := f.issuer.Issue(auth.Identity{ID: u.ID, Email: u.Email})
	require.NoError(t, err)
	return pair
}

func tamper(token string) string {
	parts := strings.Split(token, ".")
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	parts[2] = string(sig)
	return strings.Join(parts, ".")
}

func TestAuthenticate_ValidPairAlwaysRotates(t *testing.T) {
	f := newFixture(t)
	pair := f.login(t, f.alice)

	ac, err := f.guard.Authenticate(context.Background(), Credentials{pair.AccessToken, pair.RefreshToken})
	require.NoError(t, err)

	assert.Equal(t, AccessValid, ac.Access)
	assert.Equal(t, f.alice.ID, ac.User.ID)
	assert.Equal(t, []Step{StepExtract, StepValidateAccess, StepRotate, StepAdmit}, ac.Steps)

	assert.NotEqual(t, pair.AccessToken, ac.Tokens.AccessToken)
	assert.NotEqual(t, pair.RefreshToken, ac.Tokens.RefreshToken)

	id, err := f.issuer.VerifyAccess(ac.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, f.alice.ID, id.ID)
}

func TestAuthenticate_ExpiredAccessWithValidRefreshAdmits(t *testing.T) {
	f := newFixture(t)
	pair := f.login(t, f.alice)

	f.clock.Advance(auth.DefaultAccessTTL + time.Minute)

	ac, err := f.guard.Authenticate(context.Background(), Credentials{pair.AccessToken, pair.RefreshToken})
	require.NoError(t, err)
	assert.Equal(t, AccessExpired, ac.Access)
	assert.Equal(t, f.alice.ID, ac.User.ID)
}

func TestAuthenticate_TamperedAccessWithValidRefreshAdmits(t *testing.T) {
	f := newFixture(t)
	pair := f.login(t, f.alice)

	ac, err := f.guard.Authenticate(context.Background(), Credentials{tamper(pair.AccessToken), pair.RefreshToken})
	require.NoError(t, err)
	assert.Equal(t, AccessInvalid, ac.Access)
	assert.Contains(t, ac.Steps, StepRotate)
}

func TestAuthenticate_Rejections(t *testing.T) {
	f := newFixture(t)
	pair := f.login(t, f.alice)

	tests := []struct {
		name  string
		creds Credentials
	}{
		{"no tokens", Credentials{}},
		{"missing refresh", Credentials{AccessToken: pair.AccessToken}},
		{"missing access", Credentials{RefreshToken: pair.RefreshToken}},
		{"tampered refresh", Credentials{pair.AccessToken, tamper(pair.RefreshToken)}},
		{"access presented as refresh", Credentials{pair.AccessToken, pair.AccessToken}},
		{"garbage", Credentials{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ac, err := f.guard.Authenticate(context.Background(), tt.creds)
			assert.Nil(t, ac)
			require.ErrorIs(t, err, common.ErrUnauthenticated)

			msg, ok := common.PublicMessage(err)
			assert.True(t, ok)
			assert.Equal(t, RejectMessage, msg)
		})
	}
}

func TestAuthenticate_ExpiredRefreshRejects(t *testing.T) {
	f := newFixture(t)
	pair := f.login(t, f.alice)

	f.clock.Advance(auth.DefaultRefreshTTL + time.Second)

	_, err := f.guard.Authenticate(context.Background(), Credentials{pair.AccessToken, pair.RefreshToken})
	assert.ErrorIs(t, err, common.ErrUnauthenticated)
}

func TestAuthenticate_MismatchedSubjectsReject(t *testing.T) {
	f := newFixture(t)
	bob, err := f.dir.Create(context.Background(), &users.User{Name: "Bob", Email: "bob@x.com", PhoneNumber: 777})
	require.NoError(t, err)

	alicePair := f.login(t, f.alice)
	bobPair := f.login(t, bob)

	_, err = f.guard.Authenticate(context.Background(), Credentials{alicePair.AccessToken, bobPair.RefreshToken})
	assert.ErrorIs(t, err, common.ErrUnauthenticated)
}

func TestAuthenticate_UnknownUserRejects(t *testing.T) {
	f := newFixture(t)
	ghost := &users.User{ID: "ghost", Email: "ghost@x.com"}
	pair := f.login(t, ghost)

	_, err := f.guard.Authenticate(context.Background(), Credentials{pair.AccessToken, pair.RefreshToken})
	assert.ErrorIs(t, err, common.ErrUnauthenticated)
}

func TestAuthenticate_ReplacedAccountRejects(t *testing.T) {
	f := newFixture(t)
	stale := &users.User{ID: "old-id", Email: f.alice.Email}
	pair := f.login(t, stale)

	_, err := f.guard.Authenticate(context.Background(), Credentials{pair.AccessToken, pair.RefreshToken})
	assert.ErrorIs(t, err, common.ErrUnauthenticated)
}

func TestAuthenticate_DirectoryFailureIsDependency(t *testing.T) {
	f := newFixture(t)
	pair := f.login(t, f.alice)
	g := New(f.issuer, failingFinder{err: errors.New("db down")}, nil, nil)

	_, err := g.Authenticate(context.Background(), Credentials{pair.AccessToken, pair.RefreshToken})
	assert.ErrorIs(t, err, common.ErrDependency)
	assert.NotErrorIs(t, err, common.ErrUnauthenticated)
}

func TestAuthenticate_StalledDirectoryTimesOut(t *testing.T) {
	f := newFixture(t)
	pair := f.login(t, f.alice)
	g := New(f.issuer, blockingFinder{}, nil, nil, WithLookupTimeout(50*time.Millisecond))

	start := time.Now()
	_, err := g.Authenticate(context.Background(), Credentials{pair.AccessToken, pair.RefreshToken})

	assert.ErrorIs(t, err, common.ErrDependency)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestContextRoundTrip(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	ac := &AuthContext{User: &users.User{ID: "u-1"}}
	got, ok := FromContext(WithAuthContext(context.Background(), ac))
	require.True(t, ok)
	assert.Same(t, ac, got)
}
