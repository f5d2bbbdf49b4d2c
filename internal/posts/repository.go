package posts

import (
	"context"
	"fmt"

	"github.com/questlog/questlog/internal/platform/db"
	"github.com/questlog/questlog/internal/platform/httpx"
)

const postSelect = `SELECT p.id, p.user_id, u.username, p.title, p.slug, p.content, p.image_url, p.created_at, p.updated_at
	FROM posts p JOIN users u ON u.id = p.user_id`

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	db db.Querier
}

// NewRepository constructs a repository.
func NewRepository(q db.Querier) *Repository {
	return &Repository{db: q}
}

// List returns a page of posts, newest first, and the total count.
func (r *Repository) List(ctx context.Context, limit, offset int) ([]Post, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM posts`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("posts: count: %w", err)
	}
	rows, err := r.db.Query(ctx, postSelect+` ORDER BY p.created_at DESC, p.id DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("posts: list: %w", err)
	}
	defer rows.Close()
	var out []Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("posts: scan: %w", err)
		}
		out = append(out, *post)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("posts: list: %w", err)
	}
	return out, total, nil
}

// Get loads a post by id.
func (r *Repository) Get(ctx context.Context, id int64) (*Post, error) {
	post, err := scanPost(r.db.QueryRow(ctx, postSelect+` WHERE p.id = $1`, id))
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("posts: get: %w", err)
	}
	return post, nil
}

// Create inserts a post and returns it with its author name.
func (r *Repository) Create(ctx context.Context, in NewPost, slug string) (*Post, error) {
	var id int64
	err := r.db.QueryRow(ctx, `INSERT INTO posts (user_id, title, slug, content, image_url)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		in.UserID, in.Title, slug, in.Content, in.ImageURL).Scan(&id)
	if err != nil {
		if db.IsForeignKeyViolation(err, "") {
			return nil, fmt.Errorf("posts: author %d does not exist: %w", in.UserID, httpx.ErrNotFound)
		}
		return nil, fmt.Errorf("posts: create: %w", err)
	}
	return r.Get(ctx, id)
}

// Update applies the non-nil fields of in. A nil slug keeps the current one.
func (r *Repository) Update(ctx context.Context, id int64, in PostUpdate, slug *string) (*Post, error) {
	tag, err := r.db.Exec(ctx, `UPDATE posts SET
			title = COALESCE($2, title),
			slug = COALESCE($3, slug),
			content = COALESCE($4, content),
			image_url = COALESCE($5, image_url),
			updated_at = NOW()
		WHERE id = $1`,
		id, in.Title, slug, in.Content, in.ImageURL)
	if err != nil {
		return nil, fmt.Errorf("posts: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrPostNotFound
	}
	return r.Get(ctx, id)
}

// Delete removes a post and, by cascade, its comments.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("posts: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPostNotFound
	}
	return nil
}

// Exists reports whether a post with id exists.
func (r *Repository) Exists(ctx context.Context, id int64) (bool, error) {
	var ok bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM posts WHERE id = $1)`, id).Scan(&ok); err != nil {
		return false, fmt.Errorf("posts: exists: %w", err)
	}
	return ok, nil
}

// OwnerID reports the author of a post.
func (r *Repository) OwnerID(ctx context.Context, id int64) (int64, error) {
	var owner int64
	if err := r.db.QueryRow(ctx, `SELECT user_id FROM posts WHERE id = $1`, id).Scan(&owner); err != nil {
		if db.IsNoRows(err) {
			return 0, ErrPostNotFound
		}
		return 0, fmt.Errorf("posts: owner lookup: %w", err)
	}
	return owner, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*Post, error) {
	var p Post
	if err := row.Scan(&p.ID, &p.UserID, &p.Author, &p.Title, &p.Slug, &p.Content, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}
