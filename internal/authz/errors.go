package authz

import (
	"errors"
	"fmt"

	"github.com/questlog/questlog/internal/platform/httpx"
)

var (
	// ErrUnauthenticated is returned when no principal is available.
	ErrUnauthenticated = fmt.Errorf("authz: unauthenticated: %w", httpx.ErrUnauthorized)
	// ErrUnregisteredKind is returned for kinds without an owner lookup.
	ErrUnregisteredKind = fmt.Errorf("authz: resource kind not registered: %w", httpx.ErrForbidden)
	// ErrNotOwner is returned when a non-admin principal does not own the resource.
	ErrNotOwner = fmt.Errorf("authz: principal does not own resource: %w", httpx.ErrForbidden)
	// ErrResourceNotFound is returned by owner lookups when the resource is missing.
	ErrResourceNotFound = fmt.Errorf("authz: resource not found: %w", httpx.ErrNotFound)
	// ErrDuplicateKind is returned when a kind is registered twice.
	ErrDuplicateKind = errors.New("authz: kind already registered")
)
