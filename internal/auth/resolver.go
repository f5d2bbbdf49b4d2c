package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/questlog/questlog/internal/platform/httpx"
)

// UserFinder loads accounts by email.
type UserFinder interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
}

// Resolver turns a bearer credential into a persisted Principal.
type Resolver struct {
	verifier *Verifier
	users    UserFinder
}

// NewResolver constructs a Resolver.
func NewResolver(verifier *Verifier, users UserFinder) *Resolver {
	return &Resolver{verifier: verifier, users: users}
}

// Resolve verifies credential and loads the account named by its email claim.
// Store failures other than a missing account do not wrap the unauthorized
// sentinel, so they surface as server errors.
func (r *Resolver) Resolve(ctx context.Context, credential string) (*Principal, error) {
	claims, err := r.verifier.Verify(credential)
	if err != nil {
		return nil, err
	}
	user, err := r.users.FindByEmail(ctx, claims.Email)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			return nil, ErrPrincipalNotFound
		}
		return nil, fmt.Errorf("auth: load principal: %w", err)
	}
	return user.Principal(), nil
}

// ResolveRequest resolves the bearer credential carried by req.
func (r *Resolver) ResolveRequest(req *http.Request) (*Principal, error) {
	token, err := BearerToken(req)
	if err != nil {
		return nil, err
	}
	return r.Resolve(req.Context(), token)
}

// BearerToken extracts the credential from the Authorization header.
func BearerToken(r *http.Request) (string, error) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", ErrInvalidCredential
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrInvalidCredential
	}
	return token, nil
}
