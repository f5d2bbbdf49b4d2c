package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/questlog/questlog/internal/platform/db"
)

const profileColumns = `id, username, bio, avatar_url, created_at, updated_at`

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	db db.Querier
}

// NewRepository constructs a repository.
func NewRepository(q db.Querier) *Repository {
	return &Repository{db: q}
}

// FindProfile loads the public profile of id.
func (r *Repository) FindProfile(ctx context.Context, id int64) (*Profile, error) {
	row := r.db.QueryRow(ctx, `SELECT `+profileColumns+` FROM users WHERE id = $1`, id)
	profile, err := scanProfile(row)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("users: find profile: %w", err)
	}
	return profile, nil
}

// UpdateProfile applies the non-nil fields of in.
func (r *Repository) UpdateProfile(ctx context.Context, id int64, in ProfileUpdate) (*Profile, error) {
	var username *string
	if in.Username != nil {
		trimmed := strings.TrimSpace(*in.Username)
		username = &trimmed
	}
	row := r.db.QueryRow(ctx, `UPDATE users SET
			username = COALESCE($2, username),
			bio = COALESCE($3, bio),
			avatar_url = COALESCE($4, avatar_url),
			updated_at = NOW()
		WHERE id = $1
		RETURNING `+profileColumns,
		id, username, in.Bio, in.AvatarURL)
	profile, err := scanProfile(row)
	if err != nil {
		switch {
		case db.IsNoRows(err):
			return nil, ErrUserNotFound
		case db.IsUniqueViolation(err, "users_username_key"):
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("users: update profile: %w", err)
	}
	return profile, nil
}

// OwnerID reports the owner of a profile, which is the account itself.
func (r *Repository) OwnerID(ctx context.Context, id int64) (int64, error) {
	var owner int64
	if err := r.db.QueryRow(ctx, `SELECT id FROM users WHERE id = $1`, id).Scan(&owner); err != nil {
		if db.IsNoRows(err) {
			return 0, ErrUserNotFound
		}
		return 0, fmt.Errorf("users: owner lookup: %w", err)
	}
	return owner, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (*Profile, error) {
	var p Profile
	if err := row.Scan(&p.ID, &p.Username, &p.Bio, &p.AvatarURL, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}
