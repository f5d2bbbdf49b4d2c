package games

import (
	"context"
	"fmt"

	"github.com/questlog/questlog/internal/platform/db"
)

const gameColumns = `id, title, slug, genre, platform, release_year, description, cover_url`

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	db db.Querier
}

// NewRepository constructs a repository.
func NewRepository(q db.Querier) *Repository {
	return &Repository{db: q}
}

// List returns the whole catalogue ordered by title.
func (r *Repository) List(ctx context.Context) ([]Game, error) {
	rows, err := r.db.Query(ctx, `SELECT `+gameColumns+` FROM games ORDER BY title, id`)
	if err != nil {
		return nil, fmt.Errorf("games: list: %w", err)
	}
	defer rows.Close()
	out := []Game{}
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("games: scan: %w", err)
		}
		out = append(out, *g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("games: list: %w", err)
	}
	return out, nil
}

// Get loads a single game.
func (r *Repository) Get(ctx context.Context, id int64) (*Game, error) {
	g, err := scanGame(r.db.QueryRow(ctx, `SELECT `+gameColumns+` FROM games WHERE id = $1`, id))
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("games: get: %w", err)
	}
	return g, nil
}

// Upsert inserts or refreshes a game keyed by slug. Used by the seed tool.
func (r *Repository) Upsert(ctx context.Context, g Game) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `INSERT INTO games (title, slug, genre, platform, release_year, description, cover_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (slug) DO UPDATE SET
			title = EXCLUDED.title,
			genre = EXCLUDED.genre,
			platform = EXCLUDED.platform,
			release_year = EXCLUDED.release_year,
			description = EXCLUDED.description,
			cover_url = EXCLUDED.cover_url
		RETURNING id`,
		g.Title, g.Slug, g.Genre, g.Platform, g.ReleaseYear, g.Description, g.CoverURL).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("games: upsert %s: %w", g.Slug, err)
	}
	return id, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGame(row rowScanner) (*Game, error) {
	var g Game
	if err := row.Scan(&g.ID, &g.Title, &g.Slug, &g.Genre, &g.Platform, &g.ReleaseYear, &g.Description, &g.CoverURL); err != nil {
		return nil, err
	}
	return &g, nil
}
