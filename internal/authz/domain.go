// Package authz decides whether a principal may mutate a resource: admins
// always may, everyone else only when they own it.
package authz

import "strconv"

// Kind names a category of protected resource.
type Kind string

// Resource kinds guarded by ownership.
const (
	KindPost        Kind = "POST"
	KindComment     Kind = "COMMENT"
	KindUserProfile Kind = "USER_PROFILE"
	// KindGame is read-only and intentionally has no owner lookup.
	KindGame Kind = "GAME"
)

// Resource identifies the target of a protected operation.
type Resource struct {
	Kind Kind
	ID   int64
}

func (r Resource) String() string {
	return string(r.Kind) + "#" + strconv.FormatInt(r.ID, 10)
}

// Decision is the outcome of evaluating the gate.
type Decision int

// Gate outcomes. Every value other than Allow is terminal.
const (
	DenyForbidden Decision = iota
	Allow
	DenyUnauthenticated
	DenyNotFound
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case DenyUnauthenticated:
		return "deny_unauthenticated"
	case DenyNotFound:
		return "deny_not_found"
	default:
		return "deny_forbidden"
	}
}
