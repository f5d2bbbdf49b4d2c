package games

import (
	"context"
	"log/slog"
	"strconv"
)

// RepositoryPort defines data access methods for the catalogue.
type RepositoryPort interface {
	List(ctx context.Context) ([]Game, error)
	Get(ctx context.Context, id int64) (*Game, error)
}

// Service serves the catalogue through the cache.
type Service struct {
	repo   RepositoryPort
	cache  *Cache
	logger *slog.Logger
}

// NewService builds Service instance. cache may be nil.
func NewService(repo RepositoryPort, cache *Cache, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, cache: cache, logger: logger}
}

// List returns every game.
func (s *Service) List(ctx context.Context) ([]Game, error) {
	key, err := s.cache.BuildKey(ctx, "games", "list")
	if err != nil {
		s.logger.Warn("games cache key", slog.Any("error", err))
		return s.repo.List(ctx)
	}
	var out []Game
	err = s.cache.FetchJSON(ctx, key, &out, func(ctx context.Context) (any, error) {
		return s.repo.List(ctx)
	})
	return out, err
}

// Get returns one game.
func (s *Service) Get(ctx context.Context, id int64) (*Game, error) {
	key, err := s.cache.BuildKey(ctx, "games", "item", strconv.FormatInt(id, 10))
	if err != nil {
		s.logger.Warn("games cache key", slog.Any("error", err))
		return s.repo.Get(ctx, id)
	}
	var out Game
	err = s.cache.FetchJSON(ctx, key, &out, func(ctx context.Context) (any, error) {
		return s.repo.Get(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Warmup invalidates cached entries and repopulates the listing and every
// item. It returns the number of games loaded.
func (s *Service) Warmup(ctx context.Context) (int, error) {
	if _, err := s.cache.Bump(ctx); err != nil {
		return 0, err
	}
	list, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	for _, g := range list {
		if _, err := s.Get(ctx, g.ID); err != nil {
			return 0, err
		}
	}
	return len(list), nil
}
