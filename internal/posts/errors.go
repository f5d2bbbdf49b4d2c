package posts

import (
	"fmt"

	"github.com/questlog/questlog/internal/platform/httpx"
)

var (
	// ErrPostNotFound is returned when no post has the requested id.
	ErrPostNotFound = fmt.Errorf("posts: post not found: %w", httpx.ErrNotFound)
	// ErrNothingToUpdate is returned for an update without fields.
	ErrNothingToUpdate = fmt.Errorf("posts: no fields to update: %w", httpx.ErrValidation)
	// ErrEmptySlug is returned when a title yields no usable slug.
	ErrEmptySlug = fmt.Errorf("posts: title must contain letters or digits: %w", httpx.ErrValidation)
	// ErrEmptyContent is returned when the post body is only whitespace.
	ErrEmptyContent = fmt.Errorf("posts: content must not be blank: %w", httpx.ErrValidation)
)
