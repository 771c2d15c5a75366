package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskDecisionInvalidate drops a user's cached page-state decisions.
	TaskDecisionInvalidate = "decision:invalidate"
)

// DecisionInvalidatePayload identifies whose decisions to drop and why.
// Reason is carried for the worker log, not for dispatch.
type DecisionInvalidatePayload struct {
	UserID int64  `json:"user_id"`
	Reason string `json:"reason"`
}

// NewDecisionInvalidateTask constructs an Asynq task.
func NewDecisionInvalidateTask(payload DecisionInvalidatePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDecisionInvalidate, data), nil
}
