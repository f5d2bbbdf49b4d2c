package games

import (
	"fmt"

	"github.com/questlog/questlog/internal/platform/httpx"
)

// Game is an entry of the read-only catalogue.
type Game struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Genre       string `json:"genre"`
	Platform    string `json:"platform"`
	ReleaseYear *int   `json:"release_year,omitempty"`
	Description string `json:"description"`
	CoverURL    string `json:"cover_url"`
}

// ErrGameNotFound is returned when no game has the requested id.
var ErrGameNotFound = fmt.Errorf("games: game not found: %w", httpx.ErrNotFound)
