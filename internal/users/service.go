package users

import (
	"context"
)

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	FindProfile(ctx context.Context, id int64) (*Profile, error)
	UpdateProfile(ctx context.Context, id int64, in ProfileUpdate) (*Profile, error)
}

// Service handles user business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Profile returns the public profile of id.
func (s *Service) Profile(ctx context.Context, id int64) (*Profile, error) {
	return s.repo.FindProfile(ctx, id)
}

// UpdateProfile changes the profile of id. Callers are expected to have
// passed the ownership gate.
func (s *Service) UpdateProfile(ctx context.Context, id int64, in ProfileUpdate) (*Profile, error) {
	if in.Empty() {
		return nil, ErrNothingToUpdate
	}
	return s.repo.UpdateProfile(ctx, id, in)
}
