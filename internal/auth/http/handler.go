// Package authhttp exposes account registration, login and the current-user
// endpoint.
package authhttp

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"

	"github.com/questlog/questlog/internal/auth"
	"github.com/questlog/questlog/internal/authz"
	"github.com/questlog/questlog/internal/docs"
	"github.com/questlog/questlog/internal/platform/httpx"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger      *slog.Logger
	service     *auth.Service
	guard       *authz.Guard
	validator   *validator.Validate
	loginPerMin int
}

// NewHandler constructs a Handler. loginPerMinute caps register and login
// attempts per client IP; zero disables the limit.
func NewHandler(logger *slog.Logger, service *auth.Service, guard *authz.Guard, loginPerMinute int) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:      logger,
		service:     service,
		guard:       guard,
		validator:   httpx.NewValidator(),
		loginPerMin: loginPerMinute,
	}
}

// MountRoutes registers auth routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	routes := h.guard.Routes(r, "/api/auth", "auth")
	routes.Public(http.MethodPost, "/register", h.limit(h.register),
		docs.Summary("Create an account"),
		docs.Body("Email, username and password"),
		docs.Returns(http.StatusCreated, "Created"),
		docs.Returns(http.StatusBadRequest, "Invalid payload"),
		docs.Returns(http.StatusConflict, "Email or username already registered"),
		docs.Returns(http.StatusTooManyRequests, "Rate limited"))
	routes.Public(http.MethodPost, "/login", h.limit(h.login),
		docs.Summary("Exchange email and password for a bearer token"),
		docs.Body("Email and password"),
		docs.Returns(http.StatusUnauthorized, "Invalid email or password"),
		docs.Returns(http.StatusTooManyRequests, "Rate limited"))
	routes.Authenticated(http.MethodGet, "/me", h.me,
		docs.Summary("Current account"))
}

func (h *Handler) limit(next http.HandlerFunc) http.HandlerFunc {
	if h.loginPerMin <= 0 {
		return next
	}
	return httprate.LimitByIP(h.loginPerMin, time.Minute)(next).ServeHTTP
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Username string `json:"username" validate:"required,alphanum,min=3,max=32"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Bio       string    `json:"bio"`
	AvatarURL string    `json:"avatar_url"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionResponse carries an issued bearer token.
type SessionResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

func toUserResponse(u *auth.User) UserResponse {
	roles := make([]string, 0, len(u.Roles))
	for _, role := range u.Roles {
		roles = append(roles, string(role))
	}
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		Bio:       u.Bio,
		AvatarURL: u.AvatarURL,
		Roles:     roles,
		CreatedAt: u.CreatedAt,
	}
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := httpx.Validate(h.validator, req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	user, err := h.service.Register(r.Context(), auth.RegisterInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		h.fail(w, "register", err)
		return
	}
	h.logger.Info("account registered", slog.Int64("user_id", user.ID))
	httpx.JSON(w, http.StatusCreated, toUserResponse(user))
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := httpx.Validate(h.validator, req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	session, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(w, "login", err)
		return
	}
	httpx.JSON(w, http.StatusOK, SessionResponse{
		Token:     session.Token,
		TokenType: "Bearer",
		ExpiresAt: session.ExpiresAt,
		User:      toUserResponse(session.User),
	})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	principal, _ := auth.PrincipalFromContext(r.Context())
	user, err := h.service.Current(r.Context(), principal)
	if err != nil {
		h.fail(w, "current user", err)
		return
	}
	httpx.JSON(w, http.StatusOK, toUserResponse(user))
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	if httpx.StatusFor(err) >= http.StatusInternalServerError {
		h.logger.Error(op, slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}
