package authz

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/questlog/questlog/internal/docs"
)

// Routes declares endpoints under a path prefix. Each declaration mounts the
// handler behind the matching middleware and documents the operation.
type Routes struct {
	guard  *Guard
	router chi.Router
	prefix string
	tag    string
}

// Routes returns a declaration helper mounting onto r.
func (g *Guard) Routes(r chi.Router, prefix, tag string) *Routes {
	return &Routes{guard: g, router: r, prefix: prefix, tag: tag}
}

// Public declares an endpoint that needs no credential.
func (rt *Routes) Public(method, pattern string, h http.HandlerFunc, opts ...docs.Option) {
	path := rt.prefix + pattern
	rt.router.Method(method, path, h)
	rt.guard.docs.Add(method, path, rt.tag, opts...)
}

// Authenticated declares an endpoint that needs a valid credential but no
// ownership check.
func (rt *Routes) Authenticated(method, pattern string, h http.HandlerFunc, opts ...docs.Option) {
	path := rt.prefix + pattern
	rt.router.With(rt.guard.Authenticate()).Method(method, path, h)
	rt.guard.docs.Add(method, path, rt.tag, append([]docs.Option{
		docs.Secured(),
		docs.Returns(http.StatusUnauthorized, "Missing, invalid or expired credential"),
	}, opts...)...)
}

// Owned declares an endpoint on a resource of kind identified by the last
// parameter of pattern. Only the owner or an admin reaches h.
func (rt *Routes) Owned(method, pattern string, kind Kind, h http.HandlerFunc, opts ...docs.Option) {
	params := docs.PathParams(pattern)
	if len(params) == 0 {
		panic(fmt.Sprintf("authz: owned route %s %s has no resource parameter", method, pattern))
	}
	path := rt.prefix + pattern
	rt.router.With(rt.guard.Protect(kind, params[len(params)-1])).Method(method, path, h)
	rt.guard.docs.Add(method, path, rt.tag, append([]docs.Option{
		docs.Secured(),
		docs.Description(fmt.Sprintf("Restricted to the owner of the %s or an administrator.", kind)),
		docs.Returns(http.StatusBadRequest, "Invalid identifier"),
		docs.Returns(http.StatusUnauthorized, "Missing, invalid or expired credential"),
		docs.Returns(http.StatusForbidden, "Caller does not own the resource"),
		docs.Returns(http.StatusNotFound, "Resource not found"),
	}, opts...)...)
}
