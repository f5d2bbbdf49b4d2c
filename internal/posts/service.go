package posts

import (
	"context"
	"strings"

	"github.com/questlog/questlog/internal/shared"
)

// RepositoryPort defines data access methods for posts.
type RepositoryPort interface {
	List(ctx context.Context, limit, offset int) ([]Post, int, error)
	Get(ctx context.Context, id int64) (*Post, error)
	Create(ctx context.Context, in NewPost, slug string) (*Post, error)
	Update(ctx context.Context, id int64, in PostUpdate, slug *string) (*Post, error)
	Delete(ctx context.Context, id int64) error
}

// Service implements the post use cases. Ownership is enforced before
// Update and Delete are called.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// List returns one page of posts.
func (s *Service) List(ctx context.Context, page shared.PageRequest) (shared.Page[Post], error) {
	items, total, err := s.repo.List(ctx, page.PerPage, page.Offset())
	if err != nil {
		return shared.Page[Post]{}, err
	}
	return shared.NewPage(items, page, total), nil
}

// Get returns a single post.
func (s *Service) Get(ctx context.Context, id int64) (*Post, error) {
	return s.repo.Get(ctx, id)
}

// Create publishes a post for in.UserID.
func (s *Service) Create(ctx context.Context, in NewPost) (*Post, error) {
	if strings.TrimSpace(in.Content) == "" {
		return nil, ErrEmptyContent
	}
	in.Title = strings.TrimSpace(in.Title)
	slug := Slugify(in.Title)
	if slug == "" {
		return nil, ErrEmptySlug
	}
	return s.repo.Create(ctx, in, slug)
}

// Update edits a post, regenerating the slug when the title changes.
func (s *Service) Update(ctx context.Context, id int64, in PostUpdate) (*Post, error) {
	if in.Empty() {
		return nil, ErrNothingToUpdate
	}
	if in.Content != nil && strings.TrimSpace(*in.Content) == "" {
		return nil, ErrEmptyContent
	}
	var slug *string
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		next := Slugify(title)
		if next == "" {
			return nil, ErrEmptySlug
		}
		in.Title = &title
		slug = &next
	}
	return s.repo.Update(ctx, id, in, slug)
}

// Delete removes a post.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
