package authz

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/questlog/questlog/internal/auth"
	"github.com/questlog/questlog/internal/docs"
	"github.com/questlog/questlog/internal/platform/httpx"
)

// IdentityResolver resolves the caller of a request.
type IdentityResolver interface {
	ResolveRequest(r *http.Request) (*auth.Principal, error)
}

// DecisionRecorder observes gate outcomes, typically as metrics.
type DecisionRecorder interface {
	RecordDecision(kind, outcome string)
}

// GuardParams wires a Guard.
type GuardParams struct {
	Resolver IdentityResolver
	Gate     *Gate
	Logger   *slog.Logger
	Recorder DecisionRecorder
	Docs     *docs.Document
}

// Guard composes identity resolution and the gate into chi middleware.
type Guard struct {
	resolver IdentityResolver
	gate     *Gate
	logger   *slog.Logger
	recorder DecisionRecorder
	docs     *docs.Document
}

// NewGuard constructs a Guard. Resolver and Gate are required.
func NewGuard(p GuardParams) *Guard {
	if p.Resolver == nil || p.Gate == nil {
		panic("authz: guard requires a resolver and a gate")
	}
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Guard{
		resolver: p.Resolver,
		gate:     p.Gate,
		logger:   logger,
		recorder: p.Recorder,
		docs:     p.Docs,
	}
}

// Authenticate resolves the caller and stores the principal in the request
// context. It never consults the gate.
func (g *Guard) Authenticate() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, err := g.identify(w, r)
			if err != nil {
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.ContextWithPrincipal(r.Context(), principal)))
		})
	}
}

// Protect resolves the caller, then lets the request through only when the
// gate allows it to act on the resource of kind named by the URL parameter.
func (g *Guard) Protect(kind Kind, param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, err := g.identify(w, r)
			if err != nil {
				if errors.Is(err, httpx.ErrUnauthorized) {
					g.record(kind, DenyUnauthenticated.String())
				} else {
					g.record(kind, "error")
				}
				return
			}
			id, err := httpx.IDParam(r, param)
			if err != nil {
				httpx.RespondError(w, err)
				return
			}
			resource := Resource{Kind: kind, ID: id}
			decision, err := g.gate.decide(r.Context(), principal, resource)
			if decision == Allow {
				g.record(kind, decision.String())
				next.ServeHTTP(w, r.WithContext(auth.ContextWithPrincipal(r.Context(), principal)))
				return
			}
			if !isDenial(err) {
				g.record(kind, "error")
				g.logger.Error("authz owner lookup",
					slog.String("resource", resource.String()),
					slog.Int64("principal_id", principal.ID),
					slog.Any("error", err))
				httpx.RespondError(w, err)
				return
			}
			g.record(kind, decision.String())
			g.logger.Debug("authz denied",
				slog.String("resource", resource.String()),
				slog.Int64("principal_id", principal.ID),
				slog.String("decision", decision.String()))
			httpx.RespondError(w, err)
		})
	}
}

// identify resolves the principal or writes the failure response and
// returns the resolution error.
func (g *Guard) identify(w http.ResponseWriter, r *http.Request) (*auth.Principal, error) {
	principal, err := g.resolver.ResolveRequest(r)
	if err == nil {
		return principal, nil
	}
	if errors.Is(err, httpx.ErrUnauthorized) {
		g.logger.Debug("authn rejected", slog.String("path", r.URL.Path), slog.Any("error", err))
	} else {
		g.logger.Error("authn resolve principal", slog.String("path", r.URL.Path), slog.Any("error", err))
	}
	httpx.RespondError(w, err)
	return nil, err
}

func (g *Guard) record(kind Kind, outcome string) {
	if g.recorder != nil {
		g.recorder.RecordDecision(string(kind), outcome)
	}
}
