package authz

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
)

// OwnerLookup reports the owning principal id of a resource. Implementations
// return an error wrapping ErrResourceNotFound (or httpx.ErrNotFound) when the
// resource does not exist.
type OwnerLookup interface {
	OwnerID(ctx context.Context, id int64) (int64, error)
}

// OwnerLookupFunc adapts a function to OwnerLookup.
type OwnerLookupFunc func(ctx context.Context, id int64) (int64, error)

// OwnerID implements OwnerLookup.
func (f OwnerLookupFunc) OwnerID(ctx context.Context, id int64) (int64, error) {
	return f(ctx, id)
}

// Registry maps each resource kind to exactly one owner lookup.
type Registry struct {
	mu      sync.RWMutex
	lookups map[Kind]OwnerLookup
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{lookups: make(map[Kind]OwnerLookup)}
}

// Register binds lookup to kind. A kind may be registered only once.
func (r *Registry) Register(kind Kind, lookup OwnerLookup) error {
	if kind == "" {
		return errors.New("authz: kind is required")
	}
	if lookup == nil {
		return fmt.Errorf("authz: nil owner lookup for %s", kind)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.lookups[kind]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateKind, kind)
	}
	r.lookups[kind] = lookup
	return nil
}

// MustRegister is Register for startup wiring; it panics on error.
func (r *Registry) MustRegister(kind Kind, lookup OwnerLookup) {
	if err := r.Register(kind, lookup); err != nil {
		panic(err)
	}
}

// Lookup returns the owner lookup for kind.
func (r *Registry) Lookup(kind Kind) (OwnerLookup, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	lookup, ok := r.lookups[kind]
	return lookup, ok
}

// Kinds lists registered kinds in sorted order.
func (r *Registry) Kinds() []Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]Kind, 0, len(r.lookups))
	for k := range r.lookups {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}
