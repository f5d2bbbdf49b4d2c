package app

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"

	authhttp "github.com/questlog/questlog/internal/auth/http"
	"github.com/questlog/questlog/internal/comments"
	"github.com/questlog/questlog/internal/docs"
	"github.com/questlog/questlog/internal/games"
	"github.com/questlog/questlog/internal/observability"
	"github.com/questlog/questlog/internal/platform/httpx"
	"github.com/questlog/questlog/internal/posts"
	"github.com/questlog/questlog/internal/users"
	"github.com/questlog/questlog/jobs"
)

// HealthCheck probes one dependency.
type HealthCheck func(ctx context.Context) error

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger  *slog.Logger
	Config  *Config
	Metrics *observability.Metrics
	Docs    *docs.Document
	Health  map[string]HealthCheck

	AuthHandler     *authhttp.Handler
	PostsHandler    *posts.Handler
	CommentsHandler *comments.Handler
	UsersHandler    *users.Handler
	GamesHandler    *games.Handler
	JobHandler      *jobs.Handler
}

// NewRouter constructs the chi.Router with questlog defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httpx.RespondError(w, httpx.ErrNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httpx.Problem(w, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed), "")
	})

	r.Get("/healthz", healthHandler(params.Health))

	if params.AuthHandler != nil {
		params.AuthHandler.MountRoutes(r)
	}
	if params.UsersHandler != nil {
		params.UsersHandler.MountRoutes(r)
	}
	if params.PostsHandler != nil {
		params.PostsHandler.MountRoutes(r)
	}
	if params.CommentsHandler != nil {
		params.CommentsHandler.MountRoutes(r)
	}
	if params.GamesHandler != nil {
		params.GamesHandler.MountRoutes(r)
	}
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}
	if params.Docs != nil && (params.Config == nil || params.Config.DocsEnabled) {
		r.Method(http.MethodGet, "/swagger/doc.json", params.Docs)
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	}

	return r
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func healthHandler(checks map[string]HealthCheck) http.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		out := healthResponse{Status: "ok"}
		status := http.StatusOK
		if len(names) > 0 {
			out.Checks = make(map[string]string, len(names))
		}
		for _, name := range names {
			if err := checks[name](ctx); err != nil {
				out.Checks[name] = "down"
				out.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			out.Checks[name] = "ok"
		}
		httpx.JSON(w, status, out)
	}
}
