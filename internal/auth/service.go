package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/questlog/questlog/internal/platform/httpx"
)

var (
	comparePassword = bcrypt.CompareHashAndPassword
	// absentHash is compared against when the email is unknown so both
	// login failures cost one bcrypt comparison.
	absentHash = sync.OnceValue(func() []byte {
		hash, err := bcrypt.GenerateFromPassword([]byte("questlog:absent-account"), bcrypt.DefaultCost)
		if err != nil {
			panic(fmt.Sprintf("auth: absent hash: %v", err))
		}
		return hash
	})
)

// Notifier is told about newly registered accounts.
type Notifier interface {
	WelcomeUser(ctx context.Context, user *User) error
}

// Service wraps authentication business rules.
type Service struct {
	repo     Repository
	verifier *Verifier
	notifier Notifier
	logger   *slog.Logger
}

// NewService constructs a new Service. notifier may be nil.
func NewService(repo Repository, verifier *Verifier, notifier Notifier, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, verifier: verifier, notifier: notifier, logger: logger}
}

// RegisterInput is the payload for creating an account.
type RegisterInput struct {
	Email    string
	Username string
	Password string
}

// Register creates an account with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, fmt.Errorf("%w: password too long", httpx.ErrValidation)
		}
		return nil, fmt.Errorf("auth: hash password: %w", err)
	}
	user, err := s.repo.CreateUser(ctx, NewUser{
		Email:        in.Email,
		Username:     in.Username,
		PasswordHash: string(hash),
	})
	if err != nil {
		return nil, err
	}
	if s.notifier != nil {
		if err := s.notifier.WelcomeUser(ctx, user); err != nil {
			s.logger.Warn("welcome notification", slog.Int64("user_id", user.ID), slog.Any("error", err))
		}
	}
	return user, nil
}

// Authenticate validates email/password credentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			_ = comparePassword(absentHash(), []byte(password))
			return nil, ErrInvalidLogin
		}
		return nil, err
	}
	if err := comparePassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidLogin
	}
	return user, nil
}

// Login authenticates the user and issues a bearer token.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	token, expiresAt, err := s.verifier.Issue(user.Principal())
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// Current loads the account behind a resolved principal.
func (s *Service) Current(ctx context.Context, p *Principal) (*User, error) {
	if p == nil {
		return nil, ErrPrincipalNotFound
	}
	user, err := s.repo.FindByEmail(ctx, p.Email)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return nil, ErrPrincipalNotFound
		}
		return nil, err
	}
	return user, nil
}
