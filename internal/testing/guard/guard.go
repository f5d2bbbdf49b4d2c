// Package guard builds a real authorization guard for handler tests. Importing
// it also switches the process into test mode.
package guard

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/questlog/questlog/internal/auth"
	"github.com/questlog/questlog/internal/authz"
	"github.com/questlog/questlog/internal/docs"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("QUESTLOG_TEST_MODE") == "" {
			_ = os.Setenv("QUESTLOG_TEST_MODE", "1")
		}
	})
}

const secret = "handler-test-secret"

// Accounts known to every fixture.
var (
	Admin  = &auth.User{ID: 1, Email: "admin@example.com", Username: "admin", Roles: []auth.Role{auth.RoleAdmin}}
	Alice  = &auth.User{ID: 5, Email: "alice@example.com", Username: "alice"}
	Bob    = &auth.User{ID: 7, Email: "bob@example.com", Username: "bob"}
	Ghost  = &auth.User{ID: 404, Email: "ghost@example.com", Username: "ghost"}
	people = []*auth.User{Admin, Alice, Bob}
)

// Fixture holds a guard backed by an in-memory account store.
type Fixture struct {
	Guard    *authz.Guard
	Registry *authz.Registry
	Docs     *docs.Document
	verifier *auth.Verifier
}

// New builds a fixture. Ghost has a valid token but no account.
func New(t testing.TB) *Fixture {
	t.Helper()
	verifier, err := auth.NewVerifier(secret, "questlog-test", time.Hour)
	if err != nil {
		t.Fatalf("verifier: %v", err)
	}
	store := accounts{}
	for _, u := range people {
		store[u.Email] = u
	}
	registry := authz.NewRegistry()
	doc := docs.New("questlog-test", "test", "")
	return &Fixture{
		Guard: authz.NewGuard(authz.GuardParams{
			Resolver: auth.NewResolver(verifier, store),
			Gate:     authz.NewGate(registry),
			Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
			Docs:     doc,
		}),
		Registry: registry,
		Docs:     doc,
		verifier: verifier,
	}
}

// Token issues a bearer credential for u.
func (f *Fixture) Token(t testing.TB, u *auth.User) string {
	t.Helper()
	token, _, err := f.verifier.Issue(u.Principal())
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}

// Bearer returns the Authorization header value for u.
func (f *Fixture) Bearer(t testing.TB, u *auth.User) string {
	return "Bearer " + f.Token(t, u)
}

type accounts map[string]*auth.User

func (a accounts) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	if u, ok := a[auth.NormalizeEmail(email)]; ok {
		return u, nil
	}
	return nil, auth.ErrUserNotFound
}
