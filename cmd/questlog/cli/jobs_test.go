package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/questlog/questlog/jobs"
)

type stubClient struct {
	types  []string
	closed bool
}

func (s *stubClient) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	s.types = append(s.types, task.Type())
	return &asynq.TaskInfo{ID: "t1", Type: task.Type(), Queue: jobs.QueueDefault}, nil
}

func (s *stubClient) Close() error {
	s.closed = true
	return nil
}

type stubInspector struct {
	info *asynq.QueueInfo
	err  error
}

func (s stubInspector) GetQueueInfo(string) (*asynq.QueueInfo, error) { return s.info, s.err }
func (s stubInspector) Close() error { return nil }

func TestTriggerWarmup(t *testing.T) {
	client := &stubClient{}
	c := &JobsCLI{client: client}

	info, err := c.Trigger(context.Background(), jobs.TaskGamesWarmup)
	require.NoError(t, err)
	assert.Equal(t, jobs.TaskGamesWarmup, info.Type)
	assert.Equal(t, []string{jobs.TaskGamesWarmup}, client.types)

	_, err = c.Trigger(context.Background(), jobs.TaskTypeWelcomeEmail)
	assert.Error(t, err)

	require.NoError(t, c.Close())
	assert.True(t, client.closed)
}

func TestInspectQueue(t *testing.T) {
	c := &JobsCLI{inspector: stubInspector{info: &asynq.QueueInfo{Queue: jobs.QueueDefault, Pending: 2, Failed: 1}}}

	stats, err := c.InspectQueue()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Pending)

	var buf bytes.Buffer
	stats.Print(&buf)
	assert.Equal(t, "queue=default pending=2 active=0 scheduled=0 retry=0 failed=1\n", buf.String())

	c = &JobsCLI{inspector: stubInspector{err: errors.New("redis down")}}
	_, err = c.InspectQueue()
	assert.Error(t, err)
}

func TestNotConfigured(t *testing.T) {
	var c *JobsCLI
	_, err := c.Trigger(context.Background(), jobs.TaskGamesWarmup)
	assert.Error(t, err)
	_, err = c.InspectQueue()
	assert.Error(t, err)
}
