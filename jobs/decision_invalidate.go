package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/gridstone-erp/gridstone-erp/internal/jobs"
)

// Invalidator drops cached decisions for one user.
type Invalidator interface {
	Invalidate(ctx context.Context, userID int64) error
}

// DecisionInvalidateJob processes decision cache invalidations queued
// after role or permission mutations, impersonation changes and
// logouts.
type DecisionInvalidateJob struct {
	Service Invalidator
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// NewDecisionInvalidateJob initialises the invalidation handler.
func NewDecisionInvalidateJob(service Invalidator, logger *slog.Logger, metrics *jobmetrics.Metrics) *DecisionInvalidateJob {
	return &DecisionInvalidateJob{Service: service, Logger: logger, Metrics: metrics}
}

// Handle executes one invalidation task.
func (j *DecisionInvalidateJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Service == nil {
		return errors.New("decision invalidate: handler not configured")
	}
	var payload DecisionInvalidatePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.UserID <= 0 {
		return asynq.SkipRetry
	}

	tracker := j.Metrics.Track(TaskDecisionInvalidate)
	err := j.Service.Invalidate(ctx, payload.UserID)
	err = tracker.End(err)
	if err != nil {
		if j.Logger != nil {
			j.Logger.Error("decision invalidate", slog.Int64("user", payload.UserID), slog.Any("error", err))
		}
		return err
	}
	if j.Logger != nil {
		j.Logger.Info("decision cache invalidated",
			slog.Int64("user", payload.UserID),
			slog.String("reason", payload.Reason))
	}
	return nil
}
