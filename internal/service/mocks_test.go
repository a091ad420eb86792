package service

import (
	"context"
	"time"

	"github.com/maheshrc27/contentdesk/internal/models"
	"github.com/maheshrc27/contentdesk/internal/webhook"
	"github.com/stretchr/testify/mock"
)

type mockScheduler struct {
	mock.Mock
}

func (m *mockScheduler) ScheduleStatusCheck(check models.StatusCheck, delay time.Duration) error {
	args := m.Called(check, delay)
	return args.Error(0)
}

type mockAnomalyRepository struct {
	mock.Mock
}

func (m *mockAnomalyRepository) Create(ctx context.Context, a *models.StatusAnomaly) (int64, error) {
	args := m.Called(ctx, a)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockAnomalyRepository) ListByUserID(ctx context.Context, userID int64, limit int) ([]*models.StatusAnomaly, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.StatusAnomaly), args.Error(1)
}

type mockTriggerHistoryRepository struct {
	mock.Mock
}

func (m *mockTriggerHistoryRepository) Create(ctx context.Context, th *models.TriggerHistory) (int64, error) {
	args := m.Called(ctx, th)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockTriggerHistoryRepository) GetByRequestID(ctx context.Context, requestID string) (*models.TriggerHistory, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TriggerHistory), args.Error(1)
}

func (m *mockTriggerHistoryRepository) ListByUserID(ctx context.Context, userID int64, limit int) ([]*models.TriggerHistory, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.TriggerHistory), args.Error(1)
}

type mockTrigger struct {
	mock.Mock
}

func (m *mockTrigger) Trigger(ctx context.Context, workflow, url string, payload any) (*webhook.Response, error) {
	args := m.Called(ctx, workflow, url, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*webhook.Response), args.Error(1)
}

func (m *mockTrigger) SubmitForm(ctx context.Context, workflow, url string, names, values []string) (*webhook.Response, error) {
	args := m.Called(ctx, workflow, url, names, values)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*webhook.Response), args.Error(1)
}

type memoryObjects struct {
	uploads map[string][]byte
	types   map[string]string
}

func newMemoryObjects() *memoryObjects {
	return &memoryObjects{uploads: map[string][]byte{}, types: map[string]string{}}
}

func (m *memoryObjects) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	m.uploads[key] = data
	m.types[key] = contentType
	return nil
}

func (m *memoryObjects) PublicURL(key string) string {
	return "https://cdn.test/" + key
}
