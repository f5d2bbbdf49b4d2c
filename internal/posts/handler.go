package posts

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/questlog/questlog/internal/auth"
	"github.com/questlog/questlog/internal/authz"
	"github.com/questlog/questlog/internal/docs"
	"github.com/questlog/questlog/internal/platform/httpx"
	"github.com/questlog/questlog/internal/shared"
)

// Handler exposes post endpoints.
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

// MountRoutes registers post routes.
func (h *Handler) MountRoutes(r chi.Router) {
	routes := h.guard.Routes(r, "/api/posts", "posts")
	routes.Public(http.MethodGet, "", h.list,
		docs.Summary("List posts, newest first"),
		docs.Query("page", "Page number, starting at 1"),
		docs.Query("per_page", "Page size, at most 100"))
	routes.Public(http.MethodGet, "/{id}", h.get,
		docs.Summary("Get a post"),
		docs.Returns(http.StatusNotFound, "Post not found"))
	routes.Authenticated(http.MethodPost, "", h.create,
		docs.Summary("Publish a post"),
		docs.Body("Post title, content and optional image URL"),
		docs.Returns(http.StatusCreated, "Created"),
		docs.Returns(http.StatusBadRequest, "Invalid payload"))
	routes.Owned(http.MethodPut, "/{id}", authz.KindPost, h.update,
		docs.Summary("Edit a post"),
		docs.Body("Fields to change"))
	routes.Owned(http.MethodDelete, "/{id}", authz.KindPost, h.delete,
		docs.Summary("Delete a post and its comments"),
		docs.Returns(http.StatusNoContent, "Deleted"))
}

type createPostRequest struct {
	Title    string `json:"title" validate:"required,max=200"`
	Content  string `json:"content" validate:"required"`
	ImageURL string `json:"image_url" validate:"omitempty,url"`
}

type updatePostRequest struct {
	Title    *string `json:"title" validate:"omitempty,min=1,max=200"`
	Content  *string `json:"content" validate:"omitempty,min=1"`
	ImageURL *string `json:"image_url" validate:"omitempty,url"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page, err := shared.ParsePageRequest(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	result, err := h.service.List(r.Context(), page)
	if err != nil {
		h.fail(w, "list posts", err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	post, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.fail(w, "get post", err)
		return
	}
	httpx.JSON(w, http.StatusOK, post)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())
	var req createPostRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := httpx.Validate(h.validator, req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	post, err := h.service.Create(r.Context(), NewPost{
		UserID:   principal.ID,
		Title:    req.Title,
		Content:  req.Content,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		h.fail(w, "create post", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, post)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var req updatePostRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := httpx.Validate(h.validator, req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	post, err := h.service.Update(r.Context(), id, PostUpdate{
		Title:    req.Title,
		Content:  req.Content,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		h.fail(w, "update post", err)
		return
	}
	httpx.JSON(w, http.StatusOK, post)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.fail(w, "delete post", err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	if httpx.StatusFor(err) >= http.StatusInternalServerError {
		h.logger.Error(op, slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}
