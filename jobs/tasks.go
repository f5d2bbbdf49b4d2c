package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeWelcomeEmail greets a newly registered account.
	TaskTypeWelcomeEmail = "mail:welcome"
	// TaskGamesWarmup repopulates the game catalogue cache.
	TaskGamesWarmup = "games:warmup"

	// GamesWarmupCron runs the warmup nightly at 03:00 UTC.
	GamesWarmupCron = "0 3 * * *"
)

// WelcomeEmailPayload describes the account to greet.
type WelcomeEmailPayload struct {
	UserID   int64  `json:"user_id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// NewWelcomeEmailTask constructs an Asynq task.
func NewWelcomeEmailTask(payload WelcomeEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeWelcomeEmail, data, asynq.MaxRetry(5)), nil
}

// NewGamesWarmupTask constructs the catalogue warmup task.
func NewGamesWarmupTask() *asynq.Task {
	return asynq.NewTask(TaskGamesWarmup, nil, asynq.MaxRetry(2))
}
