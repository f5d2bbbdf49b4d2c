package jobs

import (
	"context"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/questlog/questlog/internal/jobs"
)

// CatalogueWarmer repopulates a cache and reports how many entries it loaded.
type CatalogueWarmer interface {
	Warmup(ctx context.Context) (int, error)
}

// GamesWarmupJob refreshes the game catalogue cache.
type GamesWarmupJob struct {
	Games   CatalogueWarmer
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// Handle processes TaskGamesWarmup.
func (j *GamesWarmupJob) Handle(ctx context.Context, _ *asynq.Task) error {
	if j == nil || j.Games == nil {
		return errors.New("games warmup: handler not configured")
	}
	tracker := j.Metrics.Track(TaskGamesWarmup)
	n, err := j.Games.Warmup(ctx)
	if err != nil {
		if j.Logger != nil {
			j.Logger.Error("games warmup", slog.Any("error", err))
		}
		return tracker.End(err)
	}
	j.Metrics.SetGamesWarmed(n)
	if j.Logger != nil {
		j.Logger.Info("games warmup complete", slog.Int("games", n))
	}
	return tracker.End(nil)
}
