package repository

import (
	"context"
	"database/sql"

	"github.com/maheshrc27/contentdesk/internal/logger"
	"github.com/maheshrc27/contentdesk/internal/models"
)

type AnomalyRepository interface {
	Create(ctx context.Context, a *models.StatusAnomaly) (int64, error)
	ListByUserID(ctx context.Context, userID int64, limit int) ([]*models.StatusAnomaly, error)
}

type anomalyRepository struct {
	db *sql.DB
}

func NewAnomalyRepository(db *sql.DB) AnomalyRepository {
	return &anomalyRepository{db: db}
}

func (r *anomalyRepository) Create(ctx context.Context, a *models.StatusAnomaly) (int64, error) {
	query := `
		INSERT INTO status_anomalies (user_id, post_id, expected_status, observed_status, detected_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query, a.UserID, a.PostID, a.ExpectedStatus, a.ObservedStatus, a.DetectedAt).Scan(&id)
	if err != nil {
		logger.GetLogger().WithError(err).WithField("post_id", a.PostID).Error("Failed to save status anomaly")
		return 0, err
	}
	return id, nil
}

func (r *anomalyRepository) ListByUserID(ctx context.Context, userID int64, limit int) ([]*models.StatusAnomaly, error) {
	query := `
		SELECT id, user_id, post_id, expected_status, observed_status, detected_at
		FROM status_anomalies
		WHERE user_id = $1
		ORDER BY detected_at DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to list status anomalies")
		return nil, err
	}
	defer rows.Close()

	items := []*models.StatusAnomaly{}
	for rows.Next() {
		var a models.StatusAnomaly
		if err := rows.Scan(&a.ID, &a.UserID, &a.PostID, &a.ExpectedStatus, &a.ObservedStatus, &a.DetectedAt); err != nil {
			logger.GetLogger().WithError(err).Error("Failed to scan status anomaly")
			return nil, err
		}
		items = append(items, &a)
	}
	return items, rows.Err()
}
