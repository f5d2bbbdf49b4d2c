package games

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/questlog/questlog/internal/authz"
	"github.com/questlog/questlog/internal/docs"
	"github.com/questlog/questlog/internal/platform/httpx"
)

// Handler exposes the catalogue.
type Handler struct {
	logger  *slog.Logger
	service *Service
	guard   *authz.Guard
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, guard *authz.Guard) *Handler {
	return &Handler{logger: logger, service: service, guard: guard}
}

// MountRoutes registers game routes.
func (h *Handler) MountRoutes(r chi.Router) {
	routes := h.guard.Routes(r, "/api/games", "games")
	routes.Public(http.MethodGet, "", h.list, docs.Summary("List the game catalogue"))
	routes.Public(http.MethodGet, "/{id}", h.get,
		docs.Summary("Get a game"),
		docs.Returns(http.StatusNotFound, "Game not found"))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list games", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, items)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	game, err := h.service.Get(r.Context(), id)
	if err != nil {
		if httpx.StatusFor(err) >= http.StatusInternalServerError {
			h.logger.Error("get game", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, game)
}
