package auth

import (
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/kuba1e/food-delivery/internal/common"
)

const (
	activationCodeMin = 1000
	activationCodeMax = 9999
)

// PendingRegistration is a validated sign-up that has not been persisted.
// It only ever exists inside a signed activation token.
type PendingRegistration struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"password"`
	PhoneNumber  int64  `json:"phone_number"`
	Address      string `json:"address"`
}

type activationClaims struct {
	jwt.RegisteredClaims
	User           PendingRegistration `json:"user"`
	ActivationCode string              `json:"activationCode"`
}

// ActivationCodec seals a PendingRegistration together with a 4-digit code.
// Possession of the token proves the data; knowledge of the code, which is
// only delivered by email, proves control of the mailbox.
type ActivationCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	code   func() (string, error)
}

func NewActivationCodec(s Settings, opts ...Option) *ActivationCodec {
	s = s.withDefaults()
	o := buildOptions(opts)

	return &ActivationCodec{
		secret: []byte(s.ActivationSecret),
		ttl:    s.ActivationTTL,
		now:    o.now,
		code: func() (string, error) {
			return common.RandomNumericCode(activationCodeMin, activationCodeMax)
		},
	}
}

// Encode returns the signed activation token and the code to deliver out of band.
func (c *ActivationCodec) Encode(pending PendingRegistration) (token string, code string, err error) {
	code, err = c.code()
	if err != nil {
		return "", "", fmt.Errorf("generate activation code: %w", err)
	}

	now := c.now()
	claims := activationClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
		User:           pending,
		ActivationCode: code,
	}

	token, err = signHS256(claims, c.secret)
	if err != nil {
		return "", "", err
	}

	return token, code, nil
}

// Decode checks signature and expiry, then the code. It returns
// common.ErrInvalidSignature, common.ErrTokenExpired or common.ErrInvalidCode
// on failure.
func (c *ActivationCodec) Decode(token, suppliedCode string) (PendingRegistration, error) {
	claims := &activationClaims{}
	if err := parseHS256(token, claims, c.secret, c.now); err != nil {
		return PendingRegistration{}, err
	}

	if subtle.ConstantTimeCompare([]byte(claims.ActivationCode), []byte(suppliedCode)) != 1 {
		return PendingRegistration{}, common.ErrInvalidCode
	}

	return claims.User, nil
}
