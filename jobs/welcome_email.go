package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/questlog/questlog/internal/jobs"
)

// WelcomeEmailJob sends the greeting for TaskTypeWelcomeEmail.
type WelcomeEmailJob struct {
	Mailer  Mailer
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// Handle processes a welcome email task.
func (j *WelcomeEmailJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Mailer == nil {
		return errors.New("welcome email: handler not configured")
	}
	var payload WelcomeEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil || payload.Email == "" {
		return fmt.Errorf("welcome email: bad payload: %w", asynq.SkipRetry)
	}
	tracker := j.Metrics.Track(TaskTypeWelcomeEmail)
	name := payload.Username
	if name == "" {
		name = "there"
	}
	body := fmt.Sprintf("Hi %s,\n\nWelcome to questlog! Share your first post and tell everyone what you are playing.\n", name)
	err := j.Mailer.Send(ctx, payload.Email, "Welcome to questlog", body)
	if err != nil && j.Logger != nil {
		j.Logger.Warn("welcome email", slog.Int64("user_id", payload.UserID), slog.Any("error", err))
	}
	return tracker.End(err)
}
