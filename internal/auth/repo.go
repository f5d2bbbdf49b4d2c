package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/questlog/questlog/internal/platform/db"
)

const (
	constraintUsersEmail    = "users_email_key"
	constraintUsersUsername = "users_username_key"

	userColumns = `id, email, username, password_hash, bio, avatar_url, roles, created_at, updated_at`
)

// Repository defines persistence operations for auth module.
type Repository interface {
	UserFinder
	CreateUser(ctx context.Context, in NewUser) (*User, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	db db.Querier
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(q db.Querier) *PGRepository {
	return &PGRepository{db: q}
}

// FindByEmail fetches a user by email.
func (r *PGRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, NormalizeEmail(email))
	user, err := scanUser(row)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("auth: find user by email: %w", err)
	}
	return user, nil
}

// CreateUser inserts a new account.
func (r *PGRepository) CreateUser(ctx context.Context, in NewUser) (*User, error) {
	roles := make([]string, 0, len(in.Roles))
	for _, role := range in.Roles {
		roles = append(roles, string(role))
	}
	row := r.db.QueryRow(ctx, `INSERT INTO users (email, username, password_hash, roles)
		VALUES ($1, $2, $3, $4)
		RETURNING `+userColumns,
		NormalizeEmail(in.Email), strings.TrimSpace(in.Username), in.PasswordHash, roles)
	user, err := scanUser(row)
	if err != nil {
		switch {
		case db.IsUniqueViolation(err, constraintUsersEmail):
			return nil, ErrEmailTaken
		case db.IsUniqueViolation(err, constraintUsersUsername):
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("auth: create user: %w", err)
	}
	return user, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*User, error) {
	var (
		user  User
		roles []string
	)
	if err := row.Scan(&user.ID, &user.Email, &user.Username, &user.PasswordHash, &user.Bio, &user.AvatarURL, &roles, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return nil, err
	}
	user.Roles = make([]Role, 0, len(roles))
	for _, role := range roles {
		user.Roles = append(user.Roles, Role(role))
	}
	return &user, nil
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var _ Repository = (*PGRepository)(nil)
