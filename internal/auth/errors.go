package auth

import (
	"errors"
	"fmt"

	"github.com/questlog/questlog/internal/platform/httpx"
)

var (
	// ErrMissingSecret is returned at startup when no verification secret is configured.
	ErrMissingSecret = errors.New("auth: verification secret must be provided")

	// ErrInvalidCredential covers malformed tokens and bad signatures.
	ErrInvalidCredential = fmt.Errorf("auth: invalid credential: %w", httpx.ErrUnauthorized)
	// ErrCredentialExpired is returned for a correctly signed token past its expiry.
	ErrCredentialExpired = fmt.Errorf("auth: credential expired: %w", httpx.ErrUnauthorized)
	// ErrPrincipalNotFound is returned when the token refers to a missing account.
	ErrPrincipalNotFound = fmt.Errorf("auth: principal not found: %w", httpx.ErrUnauthorized)
	// ErrInvalidLogin indicates an email/password mismatch.
	ErrInvalidLogin = fmt.Errorf("auth: invalid email or password: %w", httpx.ErrUnauthorized)

	// ErrUserNotFound is returned by repositories when no account matches.
	ErrUserNotFound = fmt.Errorf("auth: user not found: %w", httpx.ErrNotFound)
	// ErrEmailTaken is returned when registering an email that already exists.
	ErrEmailTaken = fmt.Errorf("auth: email already registered: %w", httpx.ErrDuplicate)
	// ErrUsernameTaken is returned when registering a username that already exists.
	ErrUsernameTaken = fmt.Errorf("auth: username already taken: %w", httpx.ErrDuplicate)
)
