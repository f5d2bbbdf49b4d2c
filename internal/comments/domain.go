package comments

import "time"

// Comment is a reply to a post.
type Comment struct {
	ID        int64     `json:"id"`
	PostID    int64     `json:"post_id"`
	UserID    int64     `json:"user_id"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewComment is the input for commenting on a post.
type NewComment struct {
	PostID  int64
	UserID  int64
	Content string
}
