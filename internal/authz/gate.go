package authz

import (
	"context"
	"errors"
	"fmt"

	"github.com/questlog/questlog/internal/auth"
	"github.com/questlog/questlog/internal/platform/httpx"
)

// Gate applies the ownership-or-admin rule.
type Gate struct {
	registry *Registry
}

// NewGate constructs a gate over registry.
func NewGate(registry *Registry) *Gate {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Gate{registry: registry}
}

// Evaluate returns the decision for principal acting on resource. The error
// is non-nil only when an owner lookup failed for a reason other than a
// missing resource; the decision is then DenyForbidden.
func (g *Gate) Evaluate(ctx context.Context, principal *auth.Principal, resource Resource) (Decision, error) {
	decision, err := g.decide(ctx, principal, resource)
	if decision == Allow || isDenial(err) {
		return decision, nil
	}
	return decision, err
}

// Authorize is Evaluate expressed as an error: nil on Allow, otherwise one of
// ErrUnauthenticated, ErrUnregisteredKind, ErrNotOwner, ErrResourceNotFound or
// the lookup failure.
func (g *Gate) Authorize(ctx context.Context, principal *auth.Principal, resource Resource) error {
	_, err := g.decide(ctx, principal, resource)
	return err
}

func (g *Gate) decide(ctx context.Context, principal *auth.Principal, resource Resource) (Decision, error) {
	if principal == nil {
		return DenyUnauthenticated, ErrUnauthenticated
	}
	if principal.IsAdmin() {
		return Allow, nil
	}
	lookup, ok := g.registry.Lookup(resource.Kind)
	if !ok {
		return DenyForbidden, fmt.Errorf("%w: %s", ErrUnregisteredKind, resource.Kind)
	}
	owner, err := lookup.OwnerID(ctx, resource.ID)
	if err != nil {
		if errors.Is(err, ErrResourceNotFound) || errors.Is(err, httpx.ErrNotFound) {
			return DenyNotFound, fmt.Errorf("%w: %s", ErrResourceNotFound, resource)
		}
		return DenyForbidden, fmt.Errorf("authz: resolve owner of %s: %w", resource, err)
	}
	if owner != principal.ID {
		return DenyForbidden, ErrNotOwner
	}
	return Allow, nil
}

func isDenial(err error) bool {
	return errors.Is(err, ErrUnauthenticated) ||
		errors.Is(err, ErrUnregisteredKind) ||
		errors.Is(err, ErrNotOwner) ||
		errors.Is(err, ErrResourceNotFound)
}
