package authz_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/questlog/questlog/internal/auth"
	"github.com/questlog/questlog/internal/authz"
	"github.com/questlog/questlog/internal/docs"
	"github.com/questlog/questlog/internal/platform/httpx"
)

const (
	secret      = "guard-test-secret"
	// outageEmail makes the user store fail as if the database were down.
	outageEmail = "outage@example.com"
)

type userStore map[string]*auth.User

func (s userStore) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	if email == outageEmail {
		return nil, errors.New("pool exhausted")
	}
	if u, ok := s[email]; ok {
		return u, nil
	}
	return nil, auth.ErrUserNotFound
}

type guardFixture struct {
	router   chi.Router
	verifier *auth.Verifier
	posts    *countingLookup
	comments *countingLookup
	log      *decisionLog
	doc      *docs.Document
	hits     int
}

func newGuardFixture(t *testing.T) *guardFixture {
	t.Helper()
	verifier, err := auth.NewVerifier(secret, "questlog", time.Hour)
	require.NoError(t, err)
	users := userStore{
		"member@example.com": {ID: 5, Email: "member@example.com"},
		"admin@example.com":  {ID: 1, Email: "admin@example.com", Roles: []auth.Role{auth.RoleAdmin}},
	}

	f := &guardFixture{
		router:   chi.NewRouter(),
		verifier: verifier,
		posts:    newLookup(map[int64]int64{1: 99, 2: 5}),
		comments: newLookup(map[int64]int64{10: 5, 11: 7}),
		log:      &decisionLog{},
		doc:      docs.New("test", "0", ""),
	}
	reg := authz.NewRegistry()
	reg.MustRegister(authz.KindPost, f.posts)
	reg.MustRegister(authz.KindComment, f.comments)

	guard := authz.NewGuard(authz.GuardParams{
		Resolver: auth.NewResolver(verifier, users),
		Gate:     authz.NewGate(reg),
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Recorder: f.log,
		Docs:     f.doc,
	})

	handler := func(w http.ResponseWriter, r *http.Request) {
		f.hits++
		p, ok := auth.PrincipalFromContext(r.Context())
		if !ok {
			http.Error(w, "no principal", http.StatusInternalServerError)
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]int64{"principal": p.ID})
	}

	posts := guard.Routes(f.router, "/api/posts", "posts")
	posts.Public(http.MethodGet, "/{id}", handler)
	posts.Authenticated(http.MethodPost, "/", handler)
	posts.Owned(http.MethodPut, "/{id}", authz.KindPost, handler)
	posts.Owned(http.MethodDelete, "/{id}", authz.KindPost, handler)

	comments := guard.Routes(f.router, "/api/comments", "comments")
	comments.Owned(http.MethodPut, "/{id}", authz.KindComment, handler)

	games := guard.Routes(f.router, "/api/games", "games")
	games.Owned(http.MethodPut, "/{id}", authz.KindGame, handler)
	return f
}

func (f *guardFixture) token(t *testing.T, email string) string {
	t.Helper()
	token, _, err := f.verifier.Issue(&auth.Principal{Email: email})
	require.NoError(t, err)
	return token
}

func (f *guardFixture) do(method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestGuardOwnerReachesHandler(t *testing.T) {
	f := newGuardFixture(t)
	rec := f.do(http.MethodPut, "/api/comments/10", f.token(t, "member@example.com"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"principal":5}`, rec.Body.String())
	assert.Equal(t, []string{"COMMENT:allow"}, f.log.entries)
}

func TestGuardNonOwnerForbidden(t *testing.T) {
	f := newGuardFixture(t)
	rec := f.do(http.MethodPut, "/api/comments/11", f.token(t, "member@example.com"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
	assert.Zero(t, f.hits)
	assert.Equal(t, []string{"COMMENT:deny_forbidden"}, f.log.entries)
}

func TestGuardAdminBypassesLookup(t *testing.T) {
	f := newGuardFixture(t)
	admin := f.token(t, "admin@example.com")

	rec := f.do(http.MethodDelete, "/api/posts/1", admin)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = f.do(http.MethodPut, "/api/games/3", admin)
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.Zero(t, f.posts.Calls())
	assert.Equal(t, 2, f.hits)
}

func TestGuardExpiredCredentialNeverReachesGate(t *testing.T) {
	f := newGuardFixture(t)
	past := time.Now().Add(-3 * time.Hour)
	stale, err := auth.NewVerifier(secret, "questlog", time.Hour, auth.WithClock(func() time.Time { return past }))
	require.NoError(t, err)
	token, _, err := stale.Issue(&auth.Principal{Email: "member@example.com"})
	require.NoError(t, err)

	rec := f.do(http.MethodPut, "/api/posts/2", token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Header().Get("WWW-Authenticate"), "Bearer")
	assert.Zero(t, f.posts.Calls())
	assert.Zero(t, f.hits)
	assert.Equal(t, []string{"POST:deny_unauthenticated"}, f.log.entries)
}

func TestGuardUnauthenticatedBodiesMatch(t *testing.T) {
	f := newGuardFixture(t)
	past := time.Now().Add(-3 * time.Hour)
	stale, err := auth.NewVerifier(secret, "questlog", time.Hour, auth.WithClock(func() time.Time { return past }))
	require.NoError(t, err)
	expired, _, err := stale.Issue(&auth.Principal{Email: "member@example.com"})
	require.NoError(t, err)

	bodies := map[string]string{}
	for name, token := range map[string]string{
		"missing":   "",
		"malformed": "abc",
		"expired":   expired,
		"deleted":   f.token(t, "ghost@example.com"),
	} {
		rec := f.do(http.MethodPut, "/api/posts/2", token)
		require.Equal(t, http.StatusUnauthorized, rec.Code, name)
		bodies[name] = rec.Body.String()
	}
	for name, body := range bodies {
		assert.Equal(t, bodies["missing"], body, name)
	}
}

func TestGuardMissingResourceIsNotFound(t *testing.T) {
	f := newGuardFixture(t)
	rec := f.do(http.MethodPut, "/api/posts/404", f.token(t, "member@example.com"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Zero(t, f.hits)
}

func TestGuardUnregisteredKindForbidden(t *testing.T) {
	f := newGuardFixture(t)
	rec := f.do(http.MethodPut, "/api/games/3", f.token(t, "member@example.com"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Zero(t, f.hits)
}

func TestGuardInvalidIDAfterIdentity(t *testing.T) {
	f := newGuardFixture(t)
	rec := f.do(http.MethodPut, "/api/posts/abc", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(http.MethodPut, "/api/posts/abc", f.token(t, "member@example.com"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, f.posts.Calls())
}

func TestGuardUserStoreOutageRecordedAsError(t *testing.T) {
	f := newGuardFixture(t)
	rec := f.do(http.MethodPut, "/api/posts/2", f.token(t, outageEmail))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, []string{"POST:error"}, f.log.entries)
	assert.Zero(t, f.posts.Calls())
	assert.Zero(t, f.hits)
}

func TestGuardLookupFailureIsServerError(t *testing.T) {
	f := newGuardFixture(t)
	f.posts.err = errors.New("connection reset")
	rec := f.do(http.MethodPut, "/api/posts/2", f.token(t, "member@example.com"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, []string{"POST:error"}, f.log.entries)
	assert.Zero(t, f.hits)
}

func TestGuardAuthenticatedAndPublicRoutes(t *testing.T) {
	f := newGuardFixture(t)

	rec := f.do(http.MethodPost, "/api/posts/", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(http.MethodPost, "/api/posts/", f.token(t, "member@example.com"))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(http.MethodGet, "/api/posts/1", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code, "public handler sees no principal")
	assert.Empty(t, f.log.entries)
}

func TestRoutesDocumentOperations(t *testing.T) {
	f := newGuardFixture(t)

	op, ok := f.doc.Operation(http.MethodPut, "/api/posts/{id}")
	require.True(t, ok)
	assert.Equal(t, []string{"posts"}, op.Tags)
	require.NotEmpty(t, op.Security)
	assert.Contains(t, op.Responses.StatusCodeResponses, http.StatusForbidden)
	assert.Contains(t, op.Responses.StatusCodeResponses, http.StatusOK)

	op, ok = f.doc.Operation(http.MethodGet, "/api/posts/{id}")
	require.True(t, ok)
	assert.Empty(t, op.Security)
}

func TestOwnedRouteRequiresParameter(t *testing.T) {
	verifier, err := auth.NewVerifier(secret, "", time.Hour)
	require.NoError(t, err)
	guard := authz.NewGuard(authz.GuardParams{
		Resolver: auth.NewResolver(verifier, userStore{}),
		Gate:     authz.NewGate(nil),
	})
	routes := guard.Routes(chi.NewRouter(), "/api/posts", "posts")
	assert.Panics(t, func() {
		routes.Owned(http.MethodPost, "/", authz.KindPost, func(http.ResponseWriter, *http.Request) {})
	})
}
