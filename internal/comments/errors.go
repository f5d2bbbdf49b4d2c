package comments

import (
	"fmt"

	"github.com/questlog/questlog/internal/platform/httpx"
)

var (
	// ErrCommentNotFound is returned when no comment has the requested id.
	ErrCommentNotFound = fmt.Errorf("comments: comment not found: %w", httpx.ErrNotFound)
	// ErrPostNotFound is returned when commenting on a missing post.
	ErrPostNotFound = fmt.Errorf("comments: post not found: %w", httpx.ErrNotFound)
	// ErrEmptyContent is returned when a comment is blank after trimming.
	ErrEmptyContent = fmt.Errorf("comments: content must not be blank: %w", httpx.ErrValidation)
)
