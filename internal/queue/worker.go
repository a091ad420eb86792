package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/maheshrc27/contentdesk/internal/logger"
	"github.com/maheshrc27/contentdesk/internal/models"
)

// HandleVerifyStatusTask re-reads the post. A mismatch is logged and
// recorded by the verifier; only store failures make asynq retry.
func (q *Queue) HandleVerifyStatusTask(ctx context.Context, task *asynq.Task) error {
	var check models.StatusCheck
	if err := json.Unmarshal(task.Payload(), &check); err != nil {
		return fmt.Errorf("invalid payload: %v: %w", err, asynq.SkipRetry)
	}

	anomaly, err := q.verifier.Verify(ctx, check)
	if err != nil {
		logger.GetLogger().WithError(err).WithField("post_id", check.PostID).Warn("Status verification failed")
		return err
	}
	if anomaly != nil {
		logger.GetLogger().WithFields(map[string]interface{}{
			"post_id":  anomaly.PostID,
			"expected": anomaly.ExpectedStatus,
			"observed": anomaly.ObservedStatus,
		}).Warn("Status anomaly recorded")
	}
	return nil
}

// Mux routes every task type this service handles.
func (q *Queue) Mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskTypeVerifyPostStatus, q.HandleVerifyStatusTask)
	return mux
}
