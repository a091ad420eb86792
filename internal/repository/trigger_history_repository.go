package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/maheshrc27/contentdesk/internal/logger"
	"github.com/maheshrc27/contentdesk/internal/models"
)

type TriggerHistoryRepository interface {
	Create(ctx context.Context, th *models.TriggerHistory) (int64, error)
	GetByRequestID(ctx context.Context, requestID string) (*models.TriggerHistory, error)
	ListByUserID(ctx context.Context, userID int64, limit int) ([]*models.TriggerHistory, error)
}

type triggerHistoryRepository struct {
	db *sql.DB
}

func NewTriggerHistoryRepository(db *sql.DB) TriggerHistoryRepository {
	return &triggerHistoryRepository{db: db}
}

func (r *triggerHistoryRepository) Create(ctx context.Context, th *models.TriggerHistory) (int64, error) {
	query := `
		INSERT INTO trigger_history (request_id, user_id, workflow, attempts, status_code, error_message)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query, th.RequestID, th.UserID, th.Workflow, th.Attempts, th.StatusCode, th.ErrorMessage).Scan(&id)
	if err != nil {
		logger.GetLogger().WithError(err).WithField("request_id", th.RequestID).Error("Failed to save trigger history")
		return 0, err
	}

	return id, nil
}

func (r *triggerHistoryRepository) GetByRequestID(ctx context.Context, requestID string) (*models.TriggerHistory, error) {
	query := `
		SELECT id, request_id, user_id, workflow, attempts, status_code, error_message, created_at
		FROM trigger_history WHERE request_id = $1
	`
	var th models.TriggerHistory
	err := r.db.QueryRowContext(ctx, query, requestID).Scan(
		&th.ID, &th.RequestID, &th.UserID, &th.Workflow, &th.Attempts, &th.StatusCode, &th.ErrorMessage, &th.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logger.GetLogger().WithError(err).Error("Failed to load trigger history")
		return nil, err
	}

	return &th, nil
}

func (r *triggerHistoryRepository) ListByUserID(ctx context.Context, userID int64, limit int) ([]*models.TriggerHistory, error) {
	query := `
		SELECT id, request_id, user_id, workflow, attempts, status_code, error_message, created_at
		FROM trigger_history
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to list trigger history")
		return nil, err
	}
	defer rows.Close()

	items := []*models.TriggerHistory{}
	for rows.Next() {
		var th models.TriggerHistory
		err := rows.Scan(&th.ID, &th.RequestID, &th.UserID, &th.Workflow, &th.Attempts, &th.StatusCode, &th.ErrorMessage, &th.CreatedAt)
		if err != nil {
			logger.GetLogger().WithError(err).Error("Failed to scan trigger history")
			return nil, err
		}
		items = append(items, &th)
	}
	return items, rows.Err()
}
