package handlers

import (
	"context"
	"time"

	"github.com/maheshrc27/contentdesk/internal/models"
	"github.com/maheshrc27/contentdesk/internal/transfer"
	"github.com/stretchr/testify/mock"
)

type mockPostService struct {
	mock.Mock
}

func (m *mockPostService) view(args mock.Arguments) (*transfer.PostView, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transfer.PostView), args.Error(1)
}

func (m *mockPostService) views(args mock.Arguments) ([]transfer.PostView, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]transfer.PostView), args.Error(1)
}

func (m *mockPostService) List(ctx context.Context, userID int64) ([]transfer.PostView, error) {
	return m.views(m.Called(userID))
}

func (m *mockPostService) Get(ctx context.Context, userID int64, id string) (*transfer.PostView, error) {
	return m.view(m.Called(userID, id))
}

func (m *mockPostService) Edit(ctx context.Context, userID int64, id string, fields models.Fields) (*transfer.PostView, error) {
	return m.view(m.Called(userID, id, fields))
}

func (m *mockPostService) Save(ctx context.Context, userID int64, id string) (*transfer.PostView, error) {
	return m.view(m.Called(userID, id))
}

func (m *mockPostService) SaveAll(ctx context.Context, userID int64) (*transfer.SaveAllResponse, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transfer.SaveAllResponse), args.Error(1)
}

func (m *mockPostService) NewDraft(ctx context.Context, userID int64, fields models.Fields) (*transfer.PostView, error) {
	return m.view(m.Called(userID, fields))
}

func (m *mockPostService) Create(ctx context.Context, userID int64, fields models.Fields) (*transfer.PostView, error) {
	return m.view(m.Called(userID, fields))
}

func (m *mockPostService) Remove(ctx context.Context, userID int64, id string) error {
	return m.Called(userID, id).Error(0)
}

func (m *mockPostService) Discard(ctx context.Context, userID int64, id string) (*transfer.PostView, error) {
	return m.view(m.Called(userID, id))
}

func (m *mockPostService) Reload(ctx context.Context, userID int64) ([]transfer.PostView, error) {
	return m.views(m.Called(userID))
}

func (m *mockPostService) ApprovalQueue(ctx context.Context, userID int64) ([]transfer.PostView, error) {
	return m.views(m.Called(userID))
}

func (m *mockPostService) PublishQueue(ctx context.Context, userID int64) ([]transfer.PostView, error) {
	return m.views(m.Called(userID))
}

func (m *mockPostService) SetStatus(ctx context.Context, userID int64, id, status string) (*transfer.PostView, error) {
	return m.view(m.Called(userID, id, status))
}

func (m *mockPostService) Schedule(ctx context.Context, userID int64, id string, at time.Time) (*transfer.PostView, error) {
	return m.view(m.Called(userID, id, at))
}

type mockMediaService struct {
	mock.Mock
}

func (m *mockMediaService) UploadPostImage(ctx context.Context, userID int64, postID, filename string, data []byte) (*transfer.UploadResult, error) {
	args := m.Called(userID, postID, filename, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transfer.UploadResult), args.Error(1)
}

type mockWorkflowService struct {
	mock.Mock
}

func (m *mockWorkflowService) result(args mock.Arguments) (*transfer.TriggerResult, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transfer.TriggerResult), args.Error(1)
}

func (m *mockWorkflowService) GenerateContent(ctx context.Context, userID int64, req transfer.ContentRequest) (*transfer.TriggerResult, error) {
	return m.result(m.Called(userID, req))
}

func (m *mockWorkflowService) StartCampaign(ctx context.Context, userID int64, req transfer.CampaignRequest) (*transfer.TriggerResult, error) {
	return m.result(m.Called(userID, req))
}

func (m *mockWorkflowService) SubmitIdea(ctx context.Context, userID int64, req transfer.IdeaRequest) (*transfer.TriggerResult, error) {
	return m.result(m.Called(userID, req))
}

type mockAuthService struct {
	mock.Mock
}

func (m *mockAuthService) LoginURL(state string) string {
	return m.Called(state).String(0)
}

func (m *mockAuthService) LoginCallback(ctx context.Context, code string) (int64, error) {
	args := m.Called(code)
	return args.Get(0).(int64), args.Error(1)
}

type mockHistoryService struct {
	mock.Mock
}

func (m *mockHistoryService) Triggers(ctx context.Context, userID int64, limit int) ([]*models.TriggerHistory, error) {
	args := m.Called(userID, limit)
	return args.Get(0).([]*models.TriggerHistory), args.Error(1)
}

func (m *mockHistoryService) Anomalies(ctx context.Context, userID int64, limit int) ([]*models.StatusAnomaly, error) {
	args := m.Called(userID, limit)
	return args.Get(0).([]*models.StatusAnomaly), args.Error(1)
}
