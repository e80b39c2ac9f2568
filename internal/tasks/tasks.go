package tasks

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

// Task type constants
const (
	// Dashboard statistics roll-up
	TypeStatsRollup = "stats:rollup"
)

// Enqueuer is the part of the asynq client producers need
type Enqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// TaskPayload is the common payload for all tasks
type TaskPayload struct {
	RequestedBy string    `json:"requested_by,omitempty"` // user id, or "scheduler"
	RequestedAt time.Time `json:"requested_at"`
}

// NewStatsRollupTask creates a task that recomputes the dashboard snapshot
func NewStatsRollupTask(requestedBy string) (*asynq.Task, error) {
	payload, err := json.Marshal(TaskPayload{
		RequestedBy: requestedBy,
		RequestedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return asynq.NewTask(TypeStatsRollup, payload, asynq.MaxRetry(3), asynq.Timeout(time.Minute)), nil
}

// ParseTaskPayload parses task payload from Asynq task
func ParseTaskPayload(task *asynq.Task) (TaskPayload, error) {
	var payload TaskPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return payload, fmt.Errorf("failed to unmarshal payload: %w", err)
	}
	return payload, nil
}
