package comments

import (
	"context"
	"fmt"

	"github.com/questlog/questlog/internal/platform/db"
)

const commentSelect = `SELECT c.id, c.post_id, c.user_id, u.username, c.content, c.created_at, c.updated_at
	FROM comments c JOIN users u ON u.id = c.user_id`

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	db db.Querier
}

// NewRepository constructs a repository.
func NewRepository(q db.Querier) *Repository {
	return &Repository{db: q}
}

// ListByPost returns the comments of a post in posting order. A missing post
// yields ErrPostNotFound.
func (r *Repository) ListByPost(ctx context.Context, postID int64) ([]Comment, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM posts WHERE id = $1)`, postID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("comments: post lookup: %w", err)
	}
	if !exists {
		return nil, ErrPostNotFound
	}
	rows, err := r.db.Query(ctx, commentSelect+` WHERE c.post_id = $1 ORDER BY c.created_at, c.id`, postID)
	if err != nil {
		return nil, fmt.Errorf("comments: list: %w", err)
	}
	defer rows.Close()
	out := []Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("comments: scan: %w", err)
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("comments: list: %w", err)
	}
	return out, nil
}

// Get loads a comment by id.
func (r *Repository) Get(ctx context.Context, id int64) (*Comment, error) {
	c, err := scanComment(r.db.QueryRow(ctx, commentSelect+` WHERE c.id = $1`, id))
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrCommentNotFound
		}
		return nil, fmt.Errorf("comments: get: %w", err)
	}
	return c, nil
}

// Create inserts a comment. A missing post yields ErrPostNotFound.
func (r *Repository) Create(ctx context.Context, in NewComment) (*Comment, error) {
	var id int64
	err := r.db.QueryRow(ctx, `INSERT INTO comments (post_id, user_id, content) VALUES ($1, $2, $3) RETURNING id`,
		in.PostID, in.UserID, in.Content).Scan(&id)
	if err != nil {
		if db.IsForeignKeyViolation(err, "comments_post_id_fkey") {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("comments: create: %w", err)
	}
	return r.Get(ctx, id)
}

// UpdateContent replaces the text of a comment.
func (r *Repository) UpdateContent(ctx context.Context, id int64, content string) (*Comment, error) {
	tag, err := r.db.Exec(ctx, `UPDATE comments SET content = $2, updated_at = NOW() WHERE id = $1`, id, content)
	if err != nil {
		return nil, fmt.Errorf("comments: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrCommentNotFound
	}
	return r.Get(ctx, id)
}

// Delete removes a comment.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("comments: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCommentNotFound
	}
	return nil
}

// OwnerID reports the author of a comment.
func (r *Repository) OwnerID(ctx context.Context, id int64) (int64, error) {
	var owner int64
	if err := r.db.QueryRow(ctx, `SELECT user_id FROM comments WHERE id = $1`, id).Scan(&owner); err != nil {
		if db.IsNoRows(err) {
			return 0, ErrCommentNotFound
		}
		return 0, fmt.Errorf("comments: owner lookup: %w", err)
	}
	return owner, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanComment(row rowScanner) (*Comment, error) {
	var c Comment
	if err := row.Scan(&c.ID, &c.PostID, &c.UserID, &c.Author, &c.Content, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
