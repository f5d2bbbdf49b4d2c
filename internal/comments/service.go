package comments

import (
	"context"
	"strings"
)

// RepositoryPort defines data access methods for comments.
type RepositoryPort interface {
	ListByPost(ctx context.Context, postID int64) ([]Comment, error)
	Create(ctx context.Context, in NewComment) (*Comment, error)
	UpdateContent(ctx context.Context, id int64, content string) (*Comment, error)
	Delete(ctx context.Context, id int64) error
}

// Service implements the comment use cases.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListByPost(ctx context.Context, postID int64) ([]Comment, error) {
	return s.repo.ListByPost(ctx, postID)
}

func (s *Service) Create(ctx context.Context, in NewComment) (*Comment, error) {
	in.Content = strings.TrimSpace(in.Content)
	if in.Content == "" {
		return nil, ErrEmptyContent
	}
	return s.repo.Create(ctx, in)
}

func (s *Service) Update(ctx context.Context, id int64, content string) (*Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	return s.repo.UpdateContent(ctx, id, content)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
