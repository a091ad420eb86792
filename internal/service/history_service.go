package service

import (
	"context"

	"github.com/maheshrc27/contentdesk/internal/models"
	"github.com/maheshrc27/contentdesk/internal/repository"
)

const defaultHistoryLimit = 50

type HistoryService interface {
	Triggers(ctx context.Context, userID int64, limit int) ([]*models.TriggerHistory, error)
	Anomalies(ctx context.Context, userID int64, limit int) ([]*models.StatusAnomaly, error)
}

type historyService struct {
	th repository.TriggerHistoryRepository
	ar repository.AnomalyRepository
}

func NewHistoryService(th repository.TriggerHistoryRepository, ar repository.AnomalyRepository) HistoryService {
	return &historyService{th: th, ar: ar}
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > 200 {
		return defaultHistoryLimit
	}
	return limit
}

func (s *historyService) Triggers(ctx context.Context, userID int64, limit int) ([]*models.TriggerHistory, error) {
	return s.th.ListByUserID(ctx, userID, clampLimit(limit))
}

func (s *historyService) Anomalies(ctx context.Context, userID int64, limit int) ([]*models.StatusAnomaly, error) {
	return s.ar.ListByUserID(ctx, userID, clampLimit(limit))
}
