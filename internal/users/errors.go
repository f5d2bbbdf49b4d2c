package users

import (
	"fmt"

	"github.com/questlog/questlog/internal/platform/httpx"
)

var (
	// ErrUserNotFound is returned when no account has the requested id.
	ErrUserNotFound = fmt.Errorf("users: user not found: %w", httpx.ErrNotFound)
	// ErrUsernameTaken is returned when a profile update collides with another username.
	ErrUsernameTaken = fmt.Errorf("users: username already taken: %w", httpx.ErrDuplicate)
	// ErrNothingToUpdate is returned for an update without fields.
	ErrNothingToUpdate = fmt.Errorf("users: no fields to update: %w", httpx.ErrValidation)
)
