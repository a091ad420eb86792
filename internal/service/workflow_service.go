package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	config "github.com/maheshrc27/contentdesk/configs"
	"github.com/maheshrc27/contentdesk/internal/airtable"
	"github.com/maheshrc27/contentdesk/internal/logger"
	"github.com/maheshrc27/contentdesk/internal/models"
	"github.com/maheshrc27/contentdesk/internal/repository"
	"github.com/maheshrc27/contentdesk/internal/transfer"
	"github.com/maheshrc27/contentdesk/internal/webhook"
	"github.com/maheshrc27/contentdesk/internal/workspace"
	"github.com/maheshrc27/contentdesk/pkg/apperror"
)

type WorkflowTrigger interface {
	Trigger(ctx context.Context, workflow, url string, payload any) (*webhook.Response, error)
	SubmitForm(ctx context.Context, workflow, url string, names, values []string) (*webhook.Response, error)
}

// WorkflowService validates requests locally and only then calls n8n.
type WorkflowService interface {
	GenerateContent(ctx context.Context, userID int64, req transfer.ContentRequest) (*transfer.TriggerResult, error)
	StartCampaign(ctx context.Context, userID int64, req transfer.CampaignRequest) (*transfer.TriggerResult, error)
	SubmitIdea(ctx context.Context, userID int64, req transfer.IdeaRequest) (*transfer.TriggerResult, error)
}

type workflowService struct {
	cfg      config.Workflows
	trigger  WorkflowTrigger
	registry *workspace.Registry
	th       repository.TriggerHistoryRepository
}

func NewWorkflowService(cfg config.Workflows, trigger WorkflowTrigger, registry *workspace.Registry, th repository.TriggerHistoryRepository) WorkflowService {
	return &workflowService{cfg: cfg, trigger: trigger, registry: registry, th: th}
}

func validateContent(req transfer.ContentRequest) error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Headline, validation.Required, validation.Length(1, 300)),
		validation.Field(&req.Summary, validation.Required),
		validation.Field(&req.SourceURL, is.URL),
		validation.Field(&req.Channels,
			validation.Required.Error("select at least one platform"),
			validation.Each(validation.In(toAny(models.Platforms)...)),
		),
		validation.Field(&req.ImageSize,
			validation.When(req.NeedsImage, validation.Required),
			validation.In(toAny(models.ImageSizes)...),
		),
	)
}

func (s *workflowService) GenerateContent(ctx context.Context, userID int64, req transfer.ContentRequest) (*transfer.TriggerResult, error) {
	if err := validateContent(req); err != nil {
		return nil, apperror.ValidationError(err.Error())
	}

	payload := map[string]any{
		"headline":       req.Headline,
		"summary":        req.Summary,
		"sourceUrl":      req.SourceURL,
		"socialChannels": models.JoinList(req.Channels),
		"needsImage":     req.NeedsImage,
		"imageSize":      req.ImageSize,
	}
	if req.PostID != "" {
		payload["postId"] = req.PostID
	}
	if req.StyleID != "" {
		style, err := s.style(ctx, userID, req.StyleID)
		if err != nil {
			return nil, err
		}
		payload["styleName"] = style.StyleName
		payload["stylePrompt"] = style.StylePrompt
	}

	return s.run(ctx, userID, models.WorkflowContent, s.cfg.ContentURL, func(url string) (*webhook.Response, error) {
		return s.trigger.Trigger(ctx, models.WorkflowContent, url, payload)
	})
}

func (s *workflowService) style(ctx context.Context, userID int64, id string) (*models.BrandGuideline, error) {
	if s.registry == nil {
		return nil, apperror.NotFoundError(fmt.Sprintf("style %s not found", id))
	}
	w, err := s.registry.Open(ctx, userID, airtable.TableGuidelines)
	if err != nil {
		return nil, err
	}
	r, err := w.Record(id)
	if err != nil {
		return nil, err
	}
	g := models.GuidelineFromRecord(r)
	if g.Kind != models.GuidelineKindStyle {
		return nil, apperror.ValidationError(fmt.Sprintf("guideline %s is not a style", id))
	}
	return &g, nil
}

func (s *workflowService) StartCampaign(ctx context.Context, userID int64, req transfer.CampaignRequest) (*transfer.TriggerResult, error) {
	err := validation.ValidateStruct(&req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&req.Goal, validation.Required),
		validation.Field(&req.Channels,
			validation.Required.Error("select at least one platform"),
			validation.Each(validation.In(toAny(models.Platforms)...)),
		),
		validation.Field(&req.Posts, validation.Required, validation.Min(1), validation.Max(30)),
	)
	if err != nil {
		return nil, apperror.ValidationError(err.Error())
	}

	payload := map[string]any{
		"name":           req.Name,
		"goal":           req.Goal,
		"audience":       req.Audience,
		"socialChannels": models.JoinList(req.Channels),
		"posts":          req.Posts,
	}
	return s.run(ctx, userID, models.WorkflowCampaign, s.cfg.CampaignURL, func(url string) (*webhook.Response, error) {
		return s.trigger.Trigger(ctx, models.WorkflowCampaign, url, payload)
	})
}

// SubmitIdea posts the idea form. Values are positional: title,
// description, link.
func (s *workflowService) SubmitIdea(ctx context.Context, userID int64, req transfer.IdeaRequest) (*transfer.TriggerResult, error) {
	err := validation.ValidateStruct(&req,
		validation.Field(&req.Title, validation.Required),
		validation.Field(&req.Description, validation.Required),
		validation.Field(&req.Link, is.URL),
	)
	if err != nil {
		return nil, apperror.ValidationError(err.Error())
	}

	values := []string{req.Title, req.Description, req.Link}
	return s.run(ctx, userID, models.WorkflowIdea, s.cfg.IdeaFormURL, func(url string) (*webhook.Response, error) {
		return s.trigger.SubmitForm(ctx, models.WorkflowIdea, url, s.cfg.IdeaFormField, values)
	})
}

func (s *workflowService) run(ctx context.Context, userID int64, workflow, url string, call func(url string) (*webhook.Response, error)) (*transfer.TriggerResult, error) {
	if url == "" {
		return nil, &apperror.WorkflowUnavailable{Workflow: workflow, Cause: errors.New("no webhook url configured")}
	}

	requestID := uuid.NewString()
	history := &models.TriggerHistory{RequestID: requestID, UserID: userID, Workflow: workflow}

	resp, err := call(url)
	if err != nil {
		history.Attempts = 2
		history.ErrorMessage = err.Error()
		var attempt *webhook.AttemptError
		if errors.As(err, &attempt) {
			history.StatusCode = attempt.StatusCode
		}
		var verr apperror.ValidationError
		if errors.As(err, &verr) {
			history.Attempts = 0
		}
		s.record(ctx, history)
		return nil, err
	}

	history.Attempts = resp.Attempts
	history.StatusCode = resp.StatusCode
	s.record(ctx, history)

	result := &transfer.TriggerResult{RequestID: requestID, Workflow: workflow, Attempts: resp.Attempts}
	if json.Valid(resp.Body) {
		result.Response = json.RawMessage(resp.Body)
	}
	return result, nil
}

func (s *workflowService) record(ctx context.Context, history *models.TriggerHistory) {
	if s.th == nil {
		return
	}
	if _, err := s.th.Create(ctx, history); err != nil {
		logger.GetLogger().WithError(err).WithField("request_id", history.RequestID).Error("Failed to record trigger history")
	}
}
