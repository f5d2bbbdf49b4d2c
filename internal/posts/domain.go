package posts

import "time"

// Post is a blog entry authored by a user.
type Post struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Author    string    `json:"author"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Content   string    `json:"content"`
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewPost is the input for publishing a post.
type NewPost struct {
	UserID   int64
	Title    string
	Content  string
	ImageURL string
}

// PostUpdate carries optional post changes; nil fields are left as is.
type PostUpdate struct {
	Title    *string
	Content  *string
	ImageURL *string
}

// Empty reports whether the update changes nothing.
func (u PostUpdate) Empty() bool {
	return u.Title == nil && u.Content == nil && u.ImageURL == nil
}
