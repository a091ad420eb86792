package queue

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
	"github.com/maheshrc27/contentdesk/internal/logger"
	"github.com/maheshrc27/contentdesk/internal/models"
)

// Enqueuer is the part of *asynq.Client the scheduler uses.
type Enqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Scheduler defers status verifications through asynq.
type Scheduler struct {
	client Enqueuer
}

func NewScheduler(client Enqueuer) *Scheduler {
	return &Scheduler{client: client}
}

func NewVerifyStatusTask(check models.StatusCheck) (*asynq.Task, error) {
	payload, err := json.Marshal(check)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeVerifyPostStatus, payload, asynq.MaxRetry(2)), nil
}

func (s *Scheduler) ScheduleStatusCheck(check models.StatusCheck, delay time.Duration) error {
	task, err := NewVerifyStatusTask(check)
	if err != nil {
		return err
	}

	if _, err := s.client.Enqueue(task, asynq.ProcessIn(delay)); err != nil {
		return err
	}

	logger.GetLogger().WithFields(map[string]interface{}{
		"post_id":  check.PostID,
		"expected": check.Expected,
		"delay":    delay.String(),
	}).Info("Status verification scheduled")
	return nil
}
