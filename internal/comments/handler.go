package comments

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/questlog/questlog/internal/auth"
	"github.com/questlog/questlog/internal/authz"
	"github.com/questlog/questlog/internal/docs"
	"github.com/questlog/questlog/internal/platform/httpx"
)

// Handler exposes comment endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	guard     *authz.Guard
	validator *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, guard *authz.Guard) *Handler {
	return &Handler{logger: logger, service: service, guard: guard, validator: httpx.NewValidator()}
}

// MountRoutes registers comment routes, including the ones nested under posts.
func (h *Handler) MountRoutes(r chi.Router) {
	thread := h.guard.Routes(r, "/api/posts/{id}/comments", "comments")
	thread.Public(http.MethodGet, "", h.list,
		docs.Summary("List the comments of a post"),
		docs.Returns(http.StatusNotFound, "Post not found"))
	thread.Authenticated(http.MethodPost, "", h.create,
		docs.Summary("Comment on a post"),
		docs.Body("Comment content"),
		docs.Returns(http.StatusCreated, "Created"),
		docs.Returns(http.StatusNotFound, "Post not found"))

	routes := h.guard.Routes(r, "/api/comments", "comments")
	routes.Owned(http.MethodPut, "/{id}", authz.KindComment, h.update,
		docs.Summary("Edit a comment"),
		docs.Body("Comment content"))
	routes.Owned(http.MethodDelete, "/{id}", authz.KindComment, h.delete,
		docs.Summary("Delete a comment"),
		docs.Returns(http.StatusNoContent, "Deleted"))
}

type commentRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	postID, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	items, err := h.service.ListByPost(r.Context(), postID)
	if err != nil {
		h.fail(w, "list comments", err)
		return
	}
	httpx.JSON(w, http.StatusOK, items)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())
	postID, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	comment, err := h.service.Create(r.Context(), NewComment{PostID: postID, UserID: principal.ID, Content: req.Content})
	if err != nil {
		h.fail(w, "create comment", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, comment)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	comment, err := h.service.Update(r.Context(), id, req.Content)
	if err != nil {
		h.fail(w, "update comment", err)
		return
	}
	httpx.JSON(w, http.StatusOK, comment)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.fail(w, "delete comment", err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (commentRequest, bool) {
	var req commentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return req, false
	}
	if err := httpx.Validate(h.validator, req); err != nil {
		httpx.RespondError(w, err)
		return req, false
	}
	return req, true
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	if httpx.StatusFor(err) >= http.StatusInternalServerError {
		h.logger.Error(op, slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}
