package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/kuba1e/food-delivery/internal/common"
)

// Identity is the subject embedded in both session tokens.
type Identity struct {
	ID    string
	Email string
}

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type sessionClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"id"`
	Email  string `json:"email"`
}

type tokenKind struct {
	secret []byte
	ttl    time.Duration
}

// SessionIssuer mints and verifies session tokens. Access and refresh tokens
// use different secrets, so one can never be presented as the other.
type SessionIssuer struct {
	access  tokenKind
	refresh tokenKind
	now     func() time.Time
}

func NewSessionIssuer(s Settings, opts ...Option) *SessionIssuer {
	s = s.withDefaults()
	o := buildOptions(opts)

	return &SessionIssuer{
		access:  tokenKind{secret: []byte(s.AccessSecret), ttl: s.AccessTTL},
		refresh: tokenKind{secret: []byte(s.RefreshSecret), ttl: s.RefreshTTL},
		now:     o.now,
	}
}

// Issue mints a fresh access/refresh pair for identity.
func (i *SessionIssuer) Issue(identity Identity) (TokenPair, error) {
	if identity.ID == "" {
		return TokenPair{}, fmt.Errorf("%w: identity id is required", common.ErrBadInput)
	}

	now := i.now()

	access, err := i.mint(i.access, identity, now)
	if err != nil {
		return TokenPair{}, err
	}

	refresh, err := i.mint(i.refresh, identity, now)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// VerifyAccess resolves the identity carried by an access token.
func (i *SessionIssuer) VerifyAccess(token string) (Identity, error) {
	return i.verify(i.access, token)
}

// VerifyRefresh resolves the identity carried by a refresh token.
func (i *SessionIssuer) VerifyRefresh(token string) (Identity, error) {
	return i.verify(i.refresh, token)
}

func (i *SessionIssuer) mint(kind tokenKind, identity Identity, now time.Time) (string, error) {
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(kind.ttl)),
			ID:        uuid.NewString(),
		},
		UserID: identity.ID,
		Email:  identity.Email,
	}

	return signHS256(claims, kind.secret)
}

func (i *SessionIssuer) verify(kind tokenKind, token string) (Identity, error) {
	claims := &sessionClaims{}
	if err := parseHS256(token, claims, kind.secret, i.now); err != nil {
		return Identity{}, err
	}

	id := claims.UserID
	if id == "" {
		id = claims.Subject
	}
	if id == "" {
		return Identity{}, common.ErrInvalidSignature
	}

	return Identity{ID: id, Email: claims.Email}, nil
}
