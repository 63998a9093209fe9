// Package users implements account registration, activation and login on
// top of the auth primitives and the user directory.
//
// An account moves Unregistered → PendingActivation → Active. The pending
// state lives only inside the signed activation token handed back to the
// client; the directory is written exactly once, on successful activation.
package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kuba1e/food-delivery/internal/common"
	"github.com/kuba1e/food-delivery/internal/ids"
	"github.com/kuba1e/food-delivery/internal/logging"
	"github.com/kuba1e/food-delivery/internal/server/auth"
	"github.com/kuba1e/food-delivery/internal/server/mail"
	"github.com/kuba1e/food-delivery/internal/server/metrics"
)

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

type ActivationCodec interface {
	Encode(pending auth.PendingRegistration) (token string, code string, err error)
	Decode(token, code string) (auth.PendingRegistration, error)
}

type SessionIssuer interface {
	Issue(identity auth.Identity) (auth.TokenPair, error)
}

type Service struct {
	directory        Directory
	mailer           mail.Dispatcher
	hasher           PasswordHasher
	codec            ActivationCodec
	issuer           SessionIssuer
	logger           logging.Logger
	metrics          metrics.AuthRecorder
	directoryTimeout time.Duration
	mailTimeout      time.Duration
}

type ServiceOption func(*Service)

func WithLogger(l logging.Logger) ServiceOption {
	return func(s *Service) { s.logger = l }
}

func WithMetrics(m metrics.AuthRecorder) ServiceOption {
	return func(s *Service) { s.metrics = m }
}

// WithTimeouts bounds every directory call and every email send. Zero
// leaves the caller's deadline alone.
func WithTimeouts(directory, mail time.Duration) ServiceOption {
	return func(s *Service) {
		s.directoryTimeout = directory
		s.mailTimeout = mail
	}
}

func NewService(directory Directory, mailer mail.Dispatcher, hasher PasswordHasher,
	codec ActivationCodec, issuer SessionIssuer, opts ...ServiceOption) *Service {

	s := &Service{
		directory: directory,
		mailer:    mailer,
		hasher:    hasher,
		codec:     codec,
		issuer:    issuer,
		logger:    logging.Nop{},
		metrics:   metrics.Nop{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("module", "users")

	return s
}

// Register validates a sign-up and returns the activation token for it. The
// activation code is emailed; nothing is persisted.
func (s *Service) Register(ctx context.Context, in RegisterInput) (token string, err error) {
	defer func() { s.metrics.RecordRegistration(metrics.Outcome(err)) }()

	in = in.normalized()
	if err := in.Validate(); err != nil {
		return "", badInput(err)
	}

	if err := s.ensureAvailable(ctx, in.Email, in.PhoneNumber); err != nil {
		return "", err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	pending := auth.PendingRegistration{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		PhoneNumber:  in.PhoneNumber,
		Address:      in.Address,
	}

	token, code, err := s.codec.Encode(pending)
	if err != nil {
		return "", fmt.Errorf("encode activation token: %w", err)
	}

	s.sendActivationEmail(ctx, pending, code)

	s.logger.Info(ctx, "registration pending activation", "email", in.Email)

	return token, nil
}

// Activate redeems an activation token and code, creating the account.
func (s *Service) Activate(ctx context.Context, token, code string) (user *User, err error) {
	defer func() { s.metrics.RecordActivation(metrics.Outcome(err)) }()

	in := ActivateInput{ActivationToken: token, ActivationCode: code}
	if err := in.Validate(); err != nil {
		return nil, badInput(err)
	}

	pending, err := s.codec.Decode(in.ActivationToken, in.ActivationCode)
	if err != nil {
		return nil, activationError(err)
	}

	// Another activation may have claimed the email or phone since Register.
	if err := s.ensureAvailable(ctx, pending.Email, pending.PhoneNumber); err != nil {
		return nil, err
	}

	dctx, cancel := s.directoryContext(ctx)
	defer cancel()

	user, err = s.directory.Create(dctx, &User{
		ID:           ids.New(),
		Name:         pending.Name,
		Email:        pending.Email,
		PasswordHash: pending.PasswordHash,
		PhoneNumber:  pending.PhoneNumber,
		Address:      pending.Address,
		Role:         common.DefaultUserRole,
	})
	if err != nil {
		return nil, dependency("create user", err)
	}

	s.logger.Info(ctx, "account activated", "user_id", user.ID, "email", user.Email)

	return user, nil
}

// Login checks a credential and issues a session token pair. A password
// mismatch is not an error: it yields a LoginResult carrying only Error.
func (s *Service) Login(ctx context.Context, email, password string) (result *LoginResult, err error) {
	defer func() {
		if err == nil && result != nil && result.Error != "" {
			s.metrics.RecordLogin(metrics.OutcomeInvalidCredentials)
			return
		}
		s.metrics.RecordLogin(metrics.Outcome(err))
	}()

	in := LoginInput{Email: normalizeEmail(email), Password: password}
	if err := in.Validate(); err != nil {
		return nil, badInput(err)
	}

	user, err := s.findByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.WithMessage(common.ErrorNotFound, UserNotFoundMessage)
		}
		return nil, err
	}

	if !s.hasher.Verify(in.Password, user.PasswordHash) {
		s.logger.Info(ctx, "login rejected", "user_id", user.ID)
		return &LoginResult{Error: InvalidCredentialsMessage}, nil
	}

	pair, err := s.issuer.Issue(auth.Identity{ID: user.ID, Email: user.Email})
	if err != nil {
		return nil, fmt.Errorf("issue session: %w", err)
	}

	s.logger.Info(ctx, "user logged in", "user_id", user.ID)

	return &LoginResult{User: user, AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}, nil
}

// ListUsers returns every activated account.
func (s *Service) ListUsers(ctx context.Context) ([]*User, error) {
	dctx, cancel := s.directoryContext(ctx)
	defer cancel()

	list, err := s.directory.List(dctx)
	if err != nil {
		return nil, dependency("list users", err)
	}
	return list, nil
}

// Logout is stateless: session tokens are not stored, so the client simply
// discards them.
func (s *Service) Logout(ctx context.Context, user *User) string {
	if user != nil {
		s.logger.Info(ctx, "user logged out", "user_id", user.ID)
	}
	return LogoutMessage
}

func (s *Service) ensureAvailable(ctx context.Context, email string, phone int64) error {
	if _, err := s.findByEmail(ctx, email); err == nil {
		return common.WithMessage(common.ErrConflict, EmailTakenMessage)
	} else if !errors.Is(err, common.ErrorNotFound) {
		return err
	}

	dctx, cancel := s.directoryContext(ctx)
	defer cancel()

	if _, err := s.directory.FindByPhone(dctx, phone); err == nil {
		return common.WithMessage(common.ErrConflict, PhoneTakenMessage)
	} else if !errors.Is(err, common.ErrorNotFound) {
		return dependency("find user by phone", err)
	}

	return nil
}

func (s *Service) findByEmail(ctx context.Context, email string) (*User, error) {
	dctx, cancel := s.directoryContext(ctx)
	defer cancel()

	u, err := s.directory.FindByEmail(dctx, email)
	if err != nil {
		return nil, dependency("find user by email", err)
	}
	return u, nil
}

func (s *Service) sendActivationEmail(ctx context.Context, pending auth.PendingRegistration, code string) {
	mctx, cancel := withTimeout(ctx, s.mailTimeout)
	defer cancel()

	err := s.mailer.Send(mctx, mail.Message{
		To:       pending.Email,
		Subject:  ActivationSubject,
		Template: mail.ActivationTemplate,
		Data: map[string]any{
			"name":           pending.Name,
			"activationCode": code,
		},
	})
	s.metrics.RecordEmail(metrics.Outcome(err))

	if err != nil {
		s.logger.Error(ctx, "activation email not sent", "email", pending.Email, "error", err)
	}
}

func (s *Service) directoryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return withTimeout(ctx, s.directoryTimeout)
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}

// dependency passes directory sentinels through and marks anything else as
// a collaborator failure.
func dependency(op string, err error) error {
	if errors.Is(err, common.ErrorNotFound) || errors.Is(err, common.ErrConflict) {
		return err
	}
	return fmt.Errorf("%s: %w: %w", op, common.ErrDependency, err)
}

func activationError(err error) error {
	switch {
	case errors.Is(err, common.ErrInvalidCode):
		return common.WithMessage(err, InvalidCodeMessage)
	case errors.Is(err, common.ErrTokenExpired):
		return common.WithMessage(err, ActivationExpiredMessage)
	case errors.Is(err, common.ErrInvalidSignature):
		return common.WithMessage(err, ActivationInvalidMessage)
	default:
		return err
	}
}
