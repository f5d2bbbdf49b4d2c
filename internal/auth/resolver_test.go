package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/questlog/questlog/internal/auth"
	"github.com/questlog/questlog/internal/platform/httpx"
)

func TestResolveMaterializesPrincipal(t *testing.T) {
	repo := newFakeRepo(&auth.User{ID: 5, Email: "ana@example.com", Roles: []auth.Role{auth.RoleAdmin}})
	v := newVerifier(t)
	resolver := auth.NewResolver(v, repo)

	token, _, err := v.Issue(&auth.Principal{ID: 5, Email: "ana@example.com"})
	require.NoError(t, err)

	p, err := resolver.Resolve(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, int64(5), p.ID)
	assert.Equal(t, "ana@example.com", p.Email)
	assert.True(t, p.IsAdmin())
}

func TestResolveRolesComeFromStoreNotToken(t *testing.T) {
	repo := newFakeRepo(&auth.User{ID: 5, Email: "ana@example.com"})
	v := newVerifier(t)
	token, _, err := v.Issue(&auth.Principal{ID: 5, Email: "ana@example.com", Roles: []auth.Role{auth.RoleAdmin}})
	require.NoError(t, err)

	p, err := auth.NewResolver(v, repo).Resolve(context.Background(), token)
	require.NoError(t, err)
	assert.False(t, p.IsAdmin())
}

func TestResolveDeletedAccount(t *testing.T) {
	repo := newFakeRepo()
	v := newVerifier(t)
	token, _, err := v.Issue(&auth.Principal{ID: 9, Email: "gone@example.com"})
	require.NoError(t, err)

	_, err = auth.NewResolver(v, repo).Resolve(context.Background(), token)
	assert.ErrorIs(t, err, auth.ErrPrincipalNotFound)
	assert.ErrorIs(t, err, httpx.ErrUnauthorized)
}

func TestResolveStoreFailureIsNotUnauthenticated(t *testing.T) {
	repo := newFakeRepo()
	repo.findErr = errStoreDown
	v := newVerifier(t)
	token, _, err := v.Issue(&auth.Principal{ID: 9, Email: "a@example.com"})
	require.NoError(t, err)

	_, err = auth.NewResolver(v, repo).Resolve(context.Background(), token)
	require.Error(t, err)
	assert.ErrorIs(t, err, errStoreDown)
	assert.NotErrorIs(t, err, httpx.ErrUnauthorized)
}

func TestResolveExpiredSkipsStore(t *testing.T) {
	repo := newFakeRepo(&auth.User{ID: 1, Email: "a@example.com"})
	past := time.Now().Add(-48 * time.Hour)
	token := mustIssue(t, newVerifier(t, auth.WithClock(func() time.Time { return past })))

	_, err := auth.NewResolver(newVerifier(t), repo).Resolve(context.Background(), token)
	assert.ErrorIs(t, err, auth.ErrCredentialExpired)
	assert.Zero(t, repo.calls)
}

func TestBearerToken(t *testing.T) {
	cases := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi", true},
		{"bearer   abc", "abc", true},
		{"", "", false},
		{"Bearer", "", false},
		{"Bearer   ", "", false},
		{"Basic dXNlcjpwYXNz", "", false},
		{"abc.def.ghi", "", false},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		got, err := auth.BearerToken(req)
		if tc.ok {
			require.NoError(t, err, tc.header)
			assert.Equal(t, tc.want, got)
		} else {
			assert.ErrorIs(t, err, auth.ErrInvalidCredential, tc.header)
		}
	}
}

func TestResolveRequest(t *testing.T) {
	repo := newFakeRepo(&auth.User{ID: 3, Email: "c@example.com"})
	v := newVerifier(t)
	resolver := auth.NewResolver(v, repo)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := resolver.ResolveRequest(req)
	assert.ErrorIs(t, err, auth.ErrInvalidCredential)

	token, _, err := v.Issue(&auth.Principal{ID: 3, Email: "c@example.com"})
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	p, err := resolver.ResolveRequest(req)
	require.NoError(t, err)
	assert.Equal(t, int64(3), p.ID)
}

func TestPrincipalContext(t *testing.T) {
	_, ok := auth.PrincipalFromContext(context.Background())
	assert.False(t, ok)

	ctx := auth.ContextWithPrincipal(context.Background(), &auth.Principal{ID: 2})
	p, ok := auth.PrincipalFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, int64(2), p.ID)
}
