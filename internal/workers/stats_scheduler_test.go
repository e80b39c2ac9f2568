package workers

import (
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderlust-tours/wanderlust/internal/tasks"
)

type fakeEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (f *fakeEnqueuer) Enqueue(task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{ID: "t1", Type: task.Type()}, nil
}

func TestStatsSchedulerTick(t *testing.T) {
	client := &fakeEnqueuer{}
	s, err := NewStatsScheduler(client, "0 * * * *", zerolog.Nop())
	require.NoError(t, err)

	start := time.Date(2026, 3, 1, 10, 20, 0, 0, time.UTC)
	assert.True(t, s.Tick(start), "first tick always runs")
	assert.Equal(t, time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC), s.NextRun())

	assert.False(t, s.Tick(start.Add(30*time.Minute)))
	assert.True(t, s.Tick(start.Add(40*time.Minute)))

	require.Len(t, client.tasks, 2)
	assert.Equal(t, tasks.TypeStatsRollup, client.tasks[0].Type())

	payload, err := tasks.ParseTaskPayload(client.tasks[0])
	require.NoError(t, err)
	assert.Equal(t, "scheduler", payload.RequestedBy)
}

func TestStatsSchedulerEnqueueFailureStillAdvances(t *testing.T) {
	client := &fakeEnqueuer{err: errors.New("redis down")}
	s, err := NewStatsScheduler(client, "*/15 * * * *", zerolog.Nop())
	require.NoError(t, err)

	now := time.Date(2026, 3, 1, 10, 1, 0, 0, time.UTC)
	assert.False(t, s.Tick(now))
	assert.Equal(t, time.Date(2026, 3, 1, 10, 15, 0, 0, time.UTC), s.NextRun())
}

func TestStatsSchedulerRejectsBadSchedule(t *testing.T) {
	_, err := NewStatsScheduler(&fakeEnqueuer{}, "@sometimes", zerolog.Nop())
	assert.Error(t, err)
}
